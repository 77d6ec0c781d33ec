package barcode

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRenderOptions_PixelGeometry(t *testing.T) {
	opts := DefaultRenderOptions()
	require.NoError(t, opts.Validate())
	assert.Equal(t, 4, opts.modulePixels())
	assert.Equal(t, 118, opts.barPixels())
	assert.Equal(t, 24, opts.pixels(opts.QuietZone))
	assert.Equal(t, 47, opts.pixels(opts.TextDistance))
}

func TestRenderOptions_Validate(t *testing.T) {
	bad := DefaultRenderOptions()
	bad.ModuleWidth = 0
	assert.Error(t, bad.Validate())

	bad = DefaultRenderOptions()
	bad.QuietZone = -1
	assert.Error(t, bad.Validate())

	bad = DefaultRenderOptions()
	bad.DPI = 5000
	assert.Error(t, bad.Validate())

	noText := DefaultRenderOptions()
	noText.FontSize = 0
	assert.NoError(t, noText.Validate())
}

func TestImageWriter_LinearGeometry(t *testing.T) {
	bc, err := New("code128", "12345", NewImageWriter())
	require.NoError(t, err)
	cols, _ := bc.Symbol().Size()

	opts := DefaultRenderOptions()
	opts.FontSize = 0
	var buf bytes.Buffer
	require.NoError(t, bc.Write(&buf, opts))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, cols*4+2*24, img.Bounds().Dx())
	assert.Equal(t, 12+118+12, img.Bounds().Dy())

	assert.False(t, isDark(img.At(0, 12)), "quiet zone must be light")
	assert.True(t, isDark(img.At(24, 13)), "code128 starts with a bar")
	assert.False(t, isDark(img.At(24, 12+118+1)), "bottom margin must be light")
}

func TestImageWriter_LabelAddsTextBand(t *testing.T) {
	bc, err := New("ean13", "590123412345", nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, bc.Write(&buf, DefaultRenderOptions()))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dy(), 12+118+47+12)

	dark := false
	for y := 12 + 118 + 47; y < img.Bounds().Dy() && !dark; y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			if isDark(img.At(x, y)) {
				dark = true
				break
			}
		}
	}
	assert.True(t, dark, "expected label pixels below the bars")
}

func TestImageWriter_GuardBarsExtendBelowBars(t *testing.T) {
	opts := DefaultRenderOptions()
	opts.FontSize = 0

	plain, err := New("ean13", "590123412345", nil)
	require.NoError(t, err)
	guarded, err := New("ean13-guard", "590123412345", nil)
	require.NoError(t, err)

	w := NewImageWriter()
	plainImg, err := w.Render(plain.Symbol(), opts)
	require.NoError(t, err)
	img, err := w.Render(guarded.Symbol(), opts)
	require.NoError(t, err)
	assert.Equal(t, plainImg.Bounds().Dx(), img.Bounds().Dx())
	assert.Equal(t, plainImg.Bounds().Dy()+12, img.Bounds().Dy())

	sym := guarded.Symbol()
	cols, _ := sym.Size()
	require.Equal(t, 95, cols)
	require.Len(t, sym.Guards, cols)

	y := 12 + 118 + 6
	for x := 0; x < cols; x++ {
		px := 24 + x*4 + 1
		want := sym.Guards[x] && sym.Modules[0][x]
		assert.Equal(t, want, isDark(img.At(px, y)), "column %d", x)
		assert.False(t, isDark(plainImg.At(px, y)), "plain EAN-13 has no guard extension")
	}
}

func TestImageWriter_MatrixGeometry(t *testing.T) {
	bc, err := New("qr", "hello", nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, bc.Write(&buf, DefaultRenderOptions()))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 21*4+2*24, img.Bounds().Dx())
	assert.Equal(t, 21*4+2*24, img.Bounds().Dy())
	assert.True(t, isDark(img.At(24, 24)), "finder pattern corner is dark")
}

func TestImageWriter_Deterministic(t *testing.T) {
	render := func() []byte {
		bc, err := New("code128", "12345", nil)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, bc.Write(&buf, DefaultRenderOptions()))
		return buf.Bytes()
	}
	first := render()
	assert.NotEmpty(t, first)
	assert.Equal(t, first, render())
}

func TestImageWriter_Errors(t *testing.T) {
	_, err := NewImageWriter().Render(Symbol{}, DefaultRenderOptions())
	assert.ErrorIs(t, err, ErrEmptySymbol)

	bc, err := New("code128", "12345", nil)
	require.NoError(t, err)
	bad := DefaultRenderOptions()
	bad.ModuleHeight = 0
	assert.Error(t, bc.Write(&bytes.Buffer{}, bad))
	assert.Equal(t, ContentTypePNG, bc.ContentType())
}
