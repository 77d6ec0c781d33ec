package barcode

import (
	"errors"
	"image"
	"image/color"
	"io"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ContentTypePNG is the only output format the writer produces.
const ContentTypePNG = "image/png"

// guardHeightFactor is the height of guard bars relative to the other bars.
const guardHeightFactor = 1.1

// ErrEmptySymbol is returned when an encoder produced no modules.
var ErrEmptySymbol = errors.New("barcode: symbol has no modules")

// Writer streams a rendered symbol into an output sink.
type Writer interface {
	Write(out io.Writer, sym Symbol, opts RenderOptions) error
	ContentType() string
}

// ImageWriter rasterizes symbols to PNG: black modules on white with the
// label, if any, centred below linear symbols.
type ImageWriter struct{}

// NewImageWriter returns the PNG writer.
func NewImageWriter() *ImageWriter { return &ImageWriter{} }

func (w *ImageWriter) ContentType() string { return ContentTypePNG }

// Write renders sym and encodes it as PNG into out.
func (w *ImageWriter) Write(out io.Writer, sym Symbol, opts RenderOptions) error {
	img, err := w.Render(sym, opts)
	if err != nil {
		return err
	}
	return imaging.Encode(out, img, imaging.PNG)
}

// Render lays out sym on a canvas sized from opts.
func (w *ImageWriter) Render(sym Symbol, opts RenderOptions) (*image.NRGBA, error) {
	cols, rows := sym.Size()
	if cols == 0 || rows == 0 {
		return nil, ErrEmptySymbol
	}

	module := opts.modulePixels()
	quiet := opts.pixels(opts.QuietZone)
	moduleHeight := module
	margin := quiet
	if sym.Linear() {
		moduleHeight = opts.barPixels()
		margin = opts.pixels(linearMarginMM)
	}
	codeW, codeH := cols*module, rows*moduleHeight
	var guardH int
	if sym.Linear() && len(sym.Guards) == cols {
		guardH = int(math.Round(float64(moduleHeight) * (guardHeightFactor - 1)))
	}

	var face font.Face
	if sym.Linear() && sym.Label != "" && opts.FontSize > 0 {
		f, err := labelFace(opts)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		face = f
	}

	width := codeW + 2*quiet
	height := margin + codeH + guardH + margin
	var textW, ascent, textGap int
	if face != nil {
		m := face.Metrics()
		ascent = m.Ascent.Ceil()
		textGap = opts.pixels(opts.TextDistance)
		textW = font.MeasureString(face, sym.Label).Ceil()
		height += textGap + ascent + m.Descent.Ceil()
		width = max(width, textW+2*quiet)
	}

	canvas := imaging.New(width, height, color.White)
	code := imaging.Resize(moduleImage(sym), codeW, codeH, imaging.NearestNeighbor)
	canvas = imaging.Paste(canvas, code, image.Pt((width-codeW)/2, margin))
	if guardH > 0 {
		guards := imaging.Resize(moduleImage(sym.guardRow()), codeW, guardH, imaging.NearestNeighbor)
		canvas = imaging.Paste(canvas, guards, image.Pt((width-codeW)/2, margin+codeH))
	}

	if face != nil {
		d := &font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(color.Black),
			Face: face,
			Dot:  fixed.P((width-textW)/2, margin+codeH+textGap+ascent),
		}
		d.DrawString(sym.Label)
	}
	return canvas, nil
}

var goRegular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// labelFace returns a new face; faces are not safe for concurrent use.
func labelFace(opts RenderOptions) (font.Face, error) {
	f, err := goRegular()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    opts.FontSize,
		DPI:     opts.DPI,
		Hinting: font.HintingFull,
	})
}
