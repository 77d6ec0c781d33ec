package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSymbology signals that the requested barcode type is not supported.
	ErrInvalidSymbology = errors.New("invalid barcode symbology")
	// ErrRender signals any failure while building, encoding or buffering an image.
	ErrRender = errors.New("barcode render failed")
)

// InvalidSymbologyError carries the symbology the caller asked for.
type InvalidSymbologyError struct {
	Symbology string
}

func (e *InvalidSymbologyError) Error() string {
	return fmt.Sprintf("invalid barcode symbology %q", e.Symbology)
}

func (e *InvalidSymbologyError) Is(target error) bool {
	return target == ErrInvalidSymbology
}

// RenderError wraps the underlying encoder or I/O failure. Its message is the
// wrapped error's message so it can be surfaced to the caller verbatim.
type RenderError struct {
	Symbology string
	Err       error
}

func (e *RenderError) Error() string {
	if e.Err == nil {
		return ErrRender.Error()
	}
	return e.Err.Error()
}

func (e *RenderError) Unwrap() error { return e.Err }

func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}
