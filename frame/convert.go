package frame

import "io"

func upperNibble(b byte) byte {
	return b & 0xf0
}

func lowerNibble(b byte) byte {
	return b & 0x0f
}

// ReadYUV420 reads a planar YUV 4:2:0 frame from r and returns the luma
// plane as a Y8 frame. The chroma planes are read to keep the stream aligned
// and then discarded.
func ReadYUV420(r io.Reader) (*Frame, error) {
	b := make([]byte, YUV420Size)
	if err := ReadFull(r, b); err != nil {
		return nil, err
	}
	return &Frame{
		Format: Y8,
		Pix:    b[:NumPixels:NumPixels],
	}, nil
}

// Quantize4 reduces an 8-bit sample to 4 bits by discarding the low bits.
func Quantize4(v uint8) uint8 {
	return v >> 4
}

// PackGray4 converts a Y8 frame to Gray4.
func PackGray4(src *Frame) (*Frame, error) {
	if src.Format != Y8 {
		return nil, ErrFormat
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}

	dst := New(Gray4)
	for i, v := range src.Pix {
		// The even column has to be stored first as the odd column is
		// OR'd into the same byte
		if i&1 == 0 {
			dst.Pix[i>>1] = Quantize4(v) << 4
		} else {
			dst.Pix[i>>1] |= Quantize4(v)
		}
	}
	return dst, nil
}

// GrayToRGB565 converts an 8-bit luma sample to a packed RGB565 word. Red
// and blue take the top five bits and green the top six bits of the same
// sample.
func GrayToRGB565(v uint8) uint16 {
	r := uint16(v / 8)
	g := uint16(v / 4)
	b := uint16(v / 8)
	return r<<11 | g<<5 | b
}

// SplitRGB565 returns the 5-bit red, 6-bit green and 5-bit blue components
// of a packed word.
func SplitRGB565(c uint16) (r, g, b uint8) {
	return uint8(c >> 11 & 0x1f), uint8(c >> 5 & 0x3f), uint8(c & 0x1f)
}
