package barcode

import (
	"fmt"
	"strings"

	"github.com/boombuler/barcode/codabar"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/code93"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/twooffive"
)

func encodeCode128(data string) (Symbol, error) {
	code, err := code128.Encode(data)
	if err != nil {
		return Symbol{}, err
	}
	return symbolFromCode(code, data), nil
}

// encodeGS1128 prefixes the payload with FNC1 so scanners read it as GS1 data.
func encodeGS1128(data string) (Symbol, error) {
	code, err := code128.Encode(string(code128.FNC1) + data)
	if err != nil {
		return Symbol{}, err
	}
	return symbolFromCode(code, data), nil
}

func encodeCode39(data string) (Symbol, error) {
	data = strings.ToUpper(data)
	code, err := code39.Encode(data, true, false)
	if err != nil {
		return Symbol{}, err
	}
	return symbolFromCode(code, data), nil
}

// encodePZN renders a PZN7 as Code 39 "PZN-" + six digits + the mod 11 check
// digit. A payload of seven digits must carry the correct check digit.
func encodePZN(data string) (Symbol, error) {
	data = strings.TrimPrefix(strings.ReplaceAll(data, "-", ""), "PZN")
	if err := requireDigits("PZN", data); err != nil {
		return Symbol{}, err
	}
	if len(data) != 6 && len(data) != 7 {
		return Symbol{}, fmt.Errorf("PZN must have 6 digits, received %d", len(data))
	}
	sum := 0
	for i, r := range data[:6] {
		sum += (i + 2) * int(r-'0')
	}
	check := sum % 11
	if check == 10 {
		return Symbol{}, fmt.Errorf("PZN %s has no valid check digit", data[:6])
	}
	if len(data) == 7 && int(data[6]-'0') != check {
		return Symbol{}, fmt.Errorf("PZN check digit must be %d, received %c", check, data[6])
	}
	data = fmt.Sprintf("PZN-%s%d", data[:6], check)
	code, err := code39.Encode(data, false, false)
	if err != nil {
		return Symbol{}, err
	}
	return symbolFromCode(code, data), nil
}

func encodeCode93(data string) (Symbol, error) {
	code, err := code93.Encode(data, true, true)
	if err != nil {
		return Symbol{}, err
	}
	return symbolFromCode(code, data), nil
}

func encodeCodabar(data string) (Symbol, error) {
	data = strings.ToUpper(data)
	code, err := codabar.Encode(data)
	if err != nil {
		return Symbol{}, err
	}
	return symbolFromCode(code, data), nil
}

func encodeITF(data string) (Symbol, error) {
	if err := requireDigits("ITF", data); err != nil {
		return Symbol{}, err
	}
	code, err := twooffive.Encode(data, true)
	if err != nil {
		return Symbol{}, err
	}
	return symbolFromCode(code, data), nil
}

func encodeEAN13(data string) (Symbol, error) {
	return encodeEAN("EAN-13", data, 12)
}

func encodeEAN8(data string) (Symbol, error) {
	return encodeEAN("EAN-8", data, 7)
}

func encodeEAN13Guard(data string) (Symbol, error) {
	sym, err := encodeEAN13(data)
	if err != nil {
		return Symbol{}, err
	}
	return withGuardBars(sym), nil
}

func encodeEAN8Guard(data string) (Symbol, error) {
	sym, err := encodeEAN8(data)
	if err != nil {
		return Symbol{}, err
	}
	return withGuardBars(sym), nil
}

// encodeEAN14 carries a GTIN-14 as GS1-128 with application identifier 01.
func encodeEAN14(data string) (Symbol, error) {
	if err := requireDigits("EAN-14", data); err != nil {
		return Symbol{}, err
	}
	if len(data) != 13 && len(data) != 14 {
		return Symbol{}, fmt.Errorf("EAN-14 must have 13 digits, received %d", len(data))
	}
	check := gtinCheckDigit(data[:13])
	if len(data) == 14 && data[13] != check {
		return Symbol{}, fmt.Errorf("EAN-14 check digit must be %c, received %c", check, data[13])
	}
	gtin := data[:13] + string(check)
	code, err := code128.Encode(string(code128.FNC1) + "01" + gtin)
	if err != nil {
		return Symbol{}, err
	}
	return symbolFromCode(code, gtin), nil
}

// encodeEAN accepts the payload with or without its check digit. A supplied
// check digit must match the computed one.
func encodeEAN(kind, data string, digits int) (Symbol, error) {
	if err := requireDigits(kind, data); err != nil {
		return Symbol{}, err
	}
	if len(data) != digits && len(data) != digits+1 {
		return Symbol{}, fmt.Errorf("%s must have %d digits, received %d", kind, digits, len(data))
	}
	code, err := ean.Encode(data)
	if err != nil {
		return Symbol{}, fmt.Errorf("%s: %w", kind, err)
	}
	return symbolFromCode(code, code.Content()), nil
}

func encodeUPCA(data string) (Symbol, error) {
	if err := requireDigits("UPC-A", data); err != nil {
		return Symbol{}, err
	}
	if len(data) != 11 && len(data) != 12 {
		return Symbol{}, fmt.Errorf("UPC-A must have 11 digits, received %d", len(data))
	}
	code, err := ean.Encode("0" + data)
	if err != nil {
		return Symbol{}, fmt.Errorf("UPC-A: %w", err)
	}
	return symbolFromCode(code, strings.TrimPrefix(code.Content(), "0")), nil
}

func encodeJAN(data string) (Symbol, error) {
	if !strings.HasPrefix(data, "45") && !strings.HasPrefix(data, "49") {
		return Symbol{}, fmt.Errorf("JAN country code must be between 450-459 or 490-499, received %q", prefix(data, 3))
	}
	return encodeEAN13(data)
}

func encodeISBN13(data string) (Symbol, error) {
	data = strings.ReplaceAll(data, "-", "")
	if !strings.HasPrefix(data, "978") && !strings.HasPrefix(data, "979") {
		return Symbol{}, fmt.Errorf("ISBN must start with 978 or 979, received %q", prefix(data, 3))
	}
	return encodeEAN("ISBN-13", data, 12)
}

// encodeISBN10 renders an ISBN-10 as its 978 EAN-13 while labelling it with
// the ten character ISBN.
func encodeISBN10(data string) (Symbol, error) {
	data = strings.ToUpper(strings.ReplaceAll(data, "-", ""))
	if len(data) != 9 && len(data) != 10 {
		return Symbol{}, fmt.Errorf("ISBN-10 must have 9 digits, received %d", len(data))
	}
	if err := requireDigits("ISBN-10", data[:9]); err != nil {
		return Symbol{}, err
	}
	sum := 0
	for i, r := range data[:9] {
		sum += (i + 1) * int(r-'0')
	}
	check := mod11Char(sum % 11)
	if len(data) == 10 && data[9] != check {
		return Symbol{}, fmt.Errorf("ISBN-10 check digit must be %c, received %c", check, data[9])
	}
	sym, err := encodeEAN("ISBN-10", "978"+data[:9], 12)
	if err != nil {
		return Symbol{}, err
	}
	sym.Label = data[:9] + string(check)
	return sym, nil
}

// encodeISSN renders an ISSN as the 977 EAN-13 with price code 00.
func encodeISSN(data string) (Symbol, error) {
	data = strings.ToUpper(strings.ReplaceAll(data, "-", ""))
	if len(data) != 7 && len(data) != 8 {
		return Symbol{}, fmt.Errorf("ISSN must have 7 digits, received %d", len(data))
	}
	if err := requireDigits("ISSN", data[:7]); err != nil {
		return Symbol{}, err
	}
	sum := 0
	for i, r := range data[:7] {
		sum += (8 - i) * int(r-'0')
	}
	check := mod11Char((11 - sum%11) % 11)
	if len(data) == 8 && data[7] != check {
		return Symbol{}, fmt.Errorf("ISSN check digit must be %c, received %c", check, data[7])
	}
	return encodeEAN("ISSN", "977"+data[:7]+"00", 12)
}

// gtinCheckDigit is the GS1 mod 10 check digit: weights 3 and 1 alternating
// from the rightmost digit.
func gtinCheckDigit(digits string) byte {
	sum := 0
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if (len(digits)-1-i)%2 == 0 {
			d *= 3
		}
		sum += d
	}
	return byte('0' + (10-sum%10)%10)
}

func mod11Char(v int) byte {
	if v == 10 {
		return 'X'
	}
	return byte('0' + v)
}

func requireDigits(kind, data string) error {
	if data == "" {
		return fmt.Errorf("%s code can not be empty", kind)
	}
	for _, r := range data {
		if r < '0' || r > '9' {
			return fmt.Errorf("%s code can only contain numbers, received %q", kind, data)
		}
	}
	return nil
}

func prefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
