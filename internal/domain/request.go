package domain

// DefaultSymbology is used when the caller does not pass a barcode type.
const DefaultSymbology = "code128"

// BarcodeRequest is the per-request input of the generator.
type BarcodeRequest struct {
	Data      string
	Symbology string
}
