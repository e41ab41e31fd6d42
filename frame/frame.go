/*
Package frame implements the fixed size video frames moved between the
rasterlink filters.

A frame is always 128 pixels wide and 160 pixels high and is stored as a
dense grid of rows with no padding. Three pixel formats are supported; Y8
with one byte of luma per pixel, Gray4 with two 4-bit pixels packed per byte
with the even column in the upper nibble, and RGB565 with one 16-bit word per
pixel.
*/
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// Width is the number of pixels in each row
	Width = 128
	// Height is the number of rows in each frame
	Height = 160
	// NumPixels is the number of pixels in each frame
	NumPixels = Width * Height

	chromaWidth  = Width >> 1
	chromaHeight = Height >> 1
	chromaPixels = chromaWidth * chromaHeight

	// YUV420Size is the size in bytes of a planar YUV 4:2:0 frame
	YUV420Size = NumPixels + chromaPixels<<1
)

// ByteOrder is the order RGB565 words are stored in a frame.
var ByteOrder = binary.LittleEndian

var (
	// ErrIncompleteRead is returned when a fixed size unit is cut short by
	// the end of the stream.
	ErrIncompleteRead = errors.New("frame: incomplete read")
	// ErrWrongSize is returned when pixel data doesn't match the format.
	ErrWrongSize = errors.New("frame: wrong size")
	// ErrFormat is returned when an operation is given the wrong format.
	ErrFormat = errors.New("frame: wrong pixel format")
)

// ReadFull reads exactly len(b) bytes from r. It returns io.EOF only if no
// bytes were read at all, if some but not all were read the error wraps
// ErrIncompleteRead.
func ReadFull(r io.Reader, b []byte) error {
	n, err := io.ReadFull(r, b)
	switch err {
	case nil, io.EOF:
		return err
	case io.ErrUnexpectedEOF:
		return fmt.Errorf("%w: read %d of %d bytes", ErrIncompleteRead, n, len(b))
	default:
		return err
	}
}

// Frame is a single 128 by 160 frame in one of the supported formats.
type Frame struct {
	Format Format
	Pix    []byte
}

// New returns a zeroed frame of the given format.
func New(f Format) *Frame {
	return &Frame{
		Format: f,
		Pix:    make([]byte, f.Size()),
	}
}

// Read reads a single frame of the given format from r.
func Read(r io.Reader, f Format) (*Frame, error) {
	m := New(f)
	if err := ReadFull(r, m.Pix); err != nil {
		return nil, err
	}
	return m, nil
}

// Stride returns the number of bytes in each row.
func (f *Frame) Stride() int {
	return f.Format.Stride()
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (f *Frame) PixOffset(x, y int) int {
	switch f.Format {
	case Gray4:
		return y*f.Stride() + x>>1
	case RGB565:
		return y*f.Stride() + x<<1
	default:
		return y*f.Stride() + x
	}
}

// Validate checks the pixel data is the expected length for the format.
func (f *Frame) Validate() error {
	if !f.Format.valid() {
		return ErrFormat
	}
	if len(f.Pix) != f.Format.Size() {
		return ErrWrongSize
	}
	return nil
}

// GrayAt returns the 8-bit luma of a Y8 pixel.
func (f *Frame) GrayAt(x, y int) uint8 {
	return f.Pix[f.PixOffset(x, y)]
}

// Gray4At returns the 4-bit value of a Gray4 pixel.
func (f *Frame) Gray4At(x, y int) uint8 {
	b := f.Pix[f.PixOffset(x, y)]
	if x&1 == 0 {
		return upperNibble(b) >> 4
	}
	return lowerNibble(b)
}

// RGB565At returns the packed word of an RGB565 pixel.
func (f *Frame) RGB565At(x, y int) uint16 {
	return ByteOrder.Uint16(f.Pix[f.PixOffset(x, y):])
}

// SetRGB565 stores the packed word c at (x, y) of an RGB565 frame.
func (f *Frame) SetRGB565(x, y int, c uint16) {
	ByteOrder.PutUint16(f.Pix[f.PixOffset(x, y):], c)
}

// Fill sets every pixel of an RGB565 frame to c.
func (f *Frame) Fill(c uint16) {
	for i := 0; i < len(f.Pix); i += 2 {
		ByteOrder.PutUint16(f.Pix[i:], c)
	}
}

// WriteTo writes the pixel data to w as a single write.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Pix)
	return int64(n), err
}
