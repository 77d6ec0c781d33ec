package barcode

import (
	"errors"
	"fmt"
	"sort"
)

// ErrBarcodeNotFound is matched by every lookup failure.
var ErrBarcodeNotFound = errors.New("barcode: no such barcode type")

// NotFoundError reports an unknown symbology name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("barcode: no barcode type named %q", e.Name)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrBarcodeNotFound }

// Names are case-sensitive and follow the python-barcode naming where a
// symbology exists there, aliases included ("gs1" is ISBN-13, "gtin" is
// EAN-14).
var registry = map[string]Encoder{
	"code128":     EncoderFunc(encodeCode128),
	"gs1_128":     EncoderFunc(encodeGS1128),
	"code39":      EncoderFunc(encodeCode39),
	"pzn":         EncoderFunc(encodePZN),
	"code93":      EncoderFunc(encodeCode93),
	"ean13":       EncoderFunc(encodeEAN13),
	"ean":         EncoderFunc(encodeEAN13),
	"ean13-guard": EncoderFunc(encodeEAN13Guard),
	"ean8":        EncoderFunc(encodeEAN8),
	"ean8-guard":  EncoderFunc(encodeEAN8Guard),
	"ean14":       EncoderFunc(encodeEAN14),
	"gtin":        EncoderFunc(encodeEAN14),
	"jan":         EncoderFunc(encodeJAN),
	"isbn13":      EncoderFunc(encodeISBN13),
	"isbn":        EncoderFunc(encodeISBN13),
	"gs1":         EncoderFunc(encodeISBN13),
	"isbn10":      EncoderFunc(encodeISBN10),
	"issn":        EncoderFunc(encodeISSN),
	"upca":        EncoderFunc(encodeUPCA),
	"upc":         EncoderFunc(encodeUPCA),
	"itf":         EncoderFunc(encodeITF),
	"codabar":     EncoderFunc(encodeCodabar),
	"nw-7":        EncoderFunc(encodeCodabar),
	"qr":          EncoderFunc(encodeQR),
	"datamatrix":  EncoderFunc(encodeDataMatrix),
	"aztec":       EncoderFunc(encodeAztec),
	"pdf417":      EncoderFunc(encodePDF417),
}

// Lookup resolves a symbology name to its encoder.
func Lookup(name string) (Encoder, error) {
	enc, ok := registry[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return enc, nil
}

// Names returns every registered symbology in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
