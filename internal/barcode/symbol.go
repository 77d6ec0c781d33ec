package barcode

import (
	"image"
	"image/color"

	boombuler "github.com/boombuler/barcode"
)

// Symbol is an encoded barcode: rows of dark (true) and light modules.
// Linear symbologies have exactly one row.
type Symbol struct {
	Symbology string
	Modules   [][]bool
	Label     string
	// Guards marks the columns of a linear symbol drawn as extended guard bars.
	Guards []bool
}

// Linear reports whether the symbol is a one-dimensional barcode.
func (s Symbol) Linear() bool { return len(s.Modules) == 1 }

// Size returns the symbol dimensions in modules.
func (s Symbol) Size() (cols, rows int) {
	if len(s.Modules) == 0 {
		return 0, 0
	}
	return len(s.Modules[0]), len(s.Modules)
}

// Encoder converts a payload into a Symbol for one symbology.
type Encoder interface {
	Encode(data string) (Symbol, error)
}

// EncoderFunc adapts a plain function to the Encoder interface.
type EncoderFunc func(data string) (Symbol, error)

func (f EncoderFunc) Encode(data string) (Symbol, error) { return f(data) }

// symbolFromCode samples a boombuler code at one pixel per module.
func symbolFromCode(code boombuler.Barcode, label string) Symbol {
	b := code.Bounds()
	rows := make([][]bool, 0, b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := make([]bool, b.Dx())
		for x := b.Min.X; x < b.Max.X; x++ {
			row[x-b.Min.X] = isDark(code.At(x, y))
		}
		rows = append(rows, row)
	}
	return Symbol{Modules: rows, Label: label}
}

// withGuardBars marks the start, centre and end guards of an EAN symbol.
func withGuardBars(s Symbol) Symbol {
	cols, _ := s.Size()
	if cols < 11 {
		return s
	}
	guards := make([]bool, cols)
	centre := (cols - 5) / 2
	for i := 0; i < 3; i++ {
		guards[i] = true
		guards[cols-1-i] = true
	}
	for i := centre; i < centre+5; i++ {
		guards[i] = true
	}
	s.Guards = guards
	return s
}

// guardRow is the part of a linear symbol that extends below the bars.
func (s Symbol) guardRow() Symbol {
	row := make([]bool, len(s.Guards))
	for x, g := range s.Guards {
		row[x] = g && s.Modules[0][x]
	}
	return Symbol{Modules: [][]bool{row}}
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r+g+b < 3*0x8000
}

// moduleImage draws the symbol at one pixel per module.
func moduleImage(s Symbol) *image.Gray {
	cols, rows := s.Size()
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for y, row := range s.Modules {
		for x, dark := range row {
			if dark {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	return img
}
