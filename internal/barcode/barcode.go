package barcode

import "io"

// Barcode is an encoded payload bound to the writer that will render it.
type Barcode struct {
	symbology string
	symbol    Symbol
	writer    Writer
}

// New looks up symbology, encodes data and binds the result to w.
// A nil w selects the PNG ImageWriter.
func New(symbology, data string, w Writer) (*Barcode, error) {
	enc, err := Lookup(symbology)
	if err != nil {
		return nil, err
	}
	sym, err := enc.Encode(data)
	if err != nil {
		return nil, err
	}
	sym.Symbology = symbology
	if w == nil {
		w = NewImageWriter()
	}
	return &Barcode{symbology: symbology, symbol: sym, writer: w}, nil
}

func (b *Barcode) Symbology() string { return b.symbology }

// FullCode is the human readable text, including computed check digits.
func (b *Barcode) FullCode() string { return b.symbol.Label }

func (b *Barcode) Symbol() Symbol { return b.symbol }

func (b *Barcode) ContentType() string { return b.writer.ContentType() }

// Write renders the barcode with opts into out.
func (b *Barcode) Write(out io.Writer, opts RenderOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	return b.writer.Write(out, b.symbol, opts)
}
