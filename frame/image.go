package frame

import (
	"image"
	"image/color"
)

var gray4Palette = func() color.Palette {
	p := make(color.Palette, 16)
	for i := range p {
		p[i] = color.Gray{uint8(i<<4 | i)}
	}
	return p
}()

type view struct {
	f *Frame
}

// Image returns a read-only image.Image view of the frame. Gray4 frames use
// a 16 level gray palette as their color model.
func (f *Frame) Image() image.Image {
	return view{f}
}

func (v view) ColorModel() color.Model {
	switch v.f.Format {
	case Gray4:
		return gray4Palette
	case RGB565:
		return color.RGBAModel
	default:
		return color.GrayModel
	}
}

func (v view) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

func (v view) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(v.Bounds())) {
		return color.Gray{}
	}
	switch v.f.Format {
	case Gray4:
		return gray4Palette[v.f.Gray4At(x, y)]
	case RGB565:
		r, g, b := SplitRGB565(v.f.RGB565At(x, y))
		return color.RGBA{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2, 0xff}
	default:
		return color.Gray{v.f.GrayAt(x, y)}
	}
}

// FromImage converts m to a Y8 frame. The image must be exactly 128 by 160
// pixels.
func FromImage(m image.Image) (*Frame, error) {
	b := m.Bounds()
	if b.Dx() != Width || b.Dy() != Height {
		return nil, ErrWrongSize
	}

	f := New(Y8)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			f.Pix[y*Width+x] = color.GrayModel.Convert(m.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
		}
	}
	return f, nil
}
