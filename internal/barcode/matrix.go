package barcode

import (
	"github.com/boombuler/barcode/aztec"
	"github.com/boombuler/barcode/datamatrix"
	"github.com/boombuler/barcode/pdf417"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	aztecMinECCPercent = 33
	pdf417Security     = 2
)

// encodeQR uses medium recovery and leaves the quiet zone to the writer.
func encodeQR(data string) (Symbol, error) {
	q, err := qrcode.New(data, qrcode.Medium)
	if err != nil {
		return Symbol{}, err
	}
	q.DisableBorder = true
	return Symbol{Modules: q.Bitmap()}, nil
}

func encodeDataMatrix(data string) (Symbol, error) {
	code, err := datamatrix.Encode(data)
	if err != nil {
		return Symbol{}, err
	}
	return symbolFromCode(code, ""), nil
}

func encodeAztec(data string) (Symbol, error) {
	code, err := aztec.Encode([]byte(data), aztecMinECCPercent, 0)
	if err != nil {
		return Symbol{}, err
	}
	return symbolFromCode(code, ""), nil
}

func encodePDF417(data string) (Symbol, error) {
	code, err := pdf417.Encode(data, pdf417Security)
	if err != nil {
		return Symbol{}, err
	}
	return symbolFromCode(code, ""), nil
}
