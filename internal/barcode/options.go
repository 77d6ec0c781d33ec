package barcode

import (
	"math"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	mmPerInch      = 25.4
	linearMarginMM = 1.0
)

// RenderOptions describes the visual parameters of a rendered image.
// Lengths are millimetres, FontSize is points. DPI maps both to pixels.
type RenderOptions struct {
	ModuleWidth  float64 `yaml:"module_width"`
	ModuleHeight float64 `yaml:"module_height"`
	FontSize     float64 `yaml:"font_size"`
	TextDistance float64 `yaml:"text_distance"`
	QuietZone    float64 `yaml:"quiet_zone"`
	DPI          float64 `yaml:"dpi"`
}

// DefaultRenderOptions returns the options every request is rendered with
// unless the service configuration overrides them.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		ModuleWidth:  0.3,
		ModuleHeight: 10.0,
		FontSize:     8,
		TextDistance: 4.0,
		QuietZone:    2.0,
		DPI:          300,
	}
}

// Validate implements validation.Validatable.
func (o RenderOptions) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.ModuleWidth, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&o.ModuleHeight, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&o.FontSize, validation.Min(0.0)),
		validation.Field(&o.TextDistance, validation.Min(0.0)),
		validation.Field(&o.QuietZone, validation.Min(0.0)),
		validation.Field(&o.DPI, validation.Required, validation.Min(36.0), validation.Max(1200.0)),
	)
}

// pixels converts millimetres to whole pixels at the configured resolution.
func (o RenderOptions) pixels(mm float64) int {
	return int(math.Round(mm * o.DPI / mmPerInch))
}

func (o RenderOptions) modulePixels() int {
	return max(1, o.pixels(o.ModuleWidth))
}

func (o RenderOptions) barPixels() int {
	return max(1, o.pixels(o.ModuleHeight))
}
