package frame

import (
	"fmt"
	"strings"
)

// Format identifies how pixels are laid out in a frame.
type Format int

const (
	// Y8 is 8-bit luma, one byte per pixel
	Y8 Format = iota
	// Gray4 is 4-bit grayscale, two pixels per byte
	Gray4
	// RGB565 is 16-bit color, two bytes per pixel
	RGB565
)

var formatNames = map[Format]string{
	Y8:     "y8",
	Gray4:  "gray4",
	RGB565: "rgb565",
}

func (f Format) valid() bool {
	_, ok := formatNames[f]
	return ok
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Stride returns the number of bytes in each row of a frame.
func (f Format) Stride() int {
	switch f {
	case Gray4:
		return Width >> 1
	case RGB565:
		return Width << 1
	default:
		return Width
	}
}

// Size returns the number of bytes in a frame.
func (f Format) Size() int {
	return f.Stride() * Height
}

// ParseFormat returns the format with the given name, "gray" and "gray8" are
// accepted as aliases for Y8.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "y8", "gray", "gray8":
		return Y8, nil
	case "gray4":
		return Gray4, nil
	case "rgb565":
		return RGB565, nil
	}
	return 0, fmt.Errorf("frame: unknown format %q", s)
}
