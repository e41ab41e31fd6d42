/*
Package preview renders rasterlink frames as PNG images.
*/
package preview

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/bodgit/rasterlink/frame"
	"github.com/ericpauley/go-quantize/quantize"
)

// MaxColors is the largest palette a PNG can hold.
const MaxColors = 256

var (
	errTooManyColors  = errors.New("preview: too many colors")
	errNegativeColors = errors.New("preview: negative number of colors")
)

// Encode writes f to w as a PNG. If colors is non-zero the image is reduced
// to a palette of at most that many colors first, Gray4 frames always use
// their own 16 color palette.
func Encode(w io.Writer, f *frame.Frame, colors int) error {
	if err := f.Validate(); err != nil {
		return err
	}
	switch {
	case colors < 0:
		return errNegativeColors
	case colors > MaxColors:
		return errTooManyColors
	}

	m := f.Image()
	b := m.Bounds()

	switch cp, ok := m.ColorModel().(color.Palette); {
	case ok:
		pm := image.NewPaletted(b, cp)
		draw.Draw(pm, b, m, b.Min, draw.Src)
		m = pm
	case colors > 0:
		q := quantize.MedianCutQuantizer{}
		pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
		m = pm
	}

	return png.Encode(w, m)
}
