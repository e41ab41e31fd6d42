package packet

import (
	"io"

	"github.com/bodgit/rasterlink/frame"
)

// Fragment splits the Y8 frame f into PerFrame packets. The cursor always
// starts at the top left corner and each header records the cursor as it
// stood before the first sample of that packet was taken.
func Fragment(f *frame.Frame) ([]Packet, error) {
	if f.Format != frame.Y8 {
		return nil, frame.ErrFormat
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	packets := make([]Packet, PerFrame)

	var c, at Cursor
	for i := range packets {
		p := &packets[i]
		p.X, p.Y = uint8(c.X), uint8(c.Y)
		for j := range p.Payload {
			at, c = c.Next()
			p.Payload[j] = f.Pix[at.Y*frame.Width+at.X]
		}
	}

	return packets, nil
}

// Encode fragments the Y8 frame f and writes all of the packets to w as a
// single write.
func Encode(w io.Writer, f *frame.Frame) error {
	packets, err := Fragment(f)
	if err != nil {
		return err
	}

	b := make([]byte, FrameBytes)
	for i := range packets {
		packets[i].put(b[i*Size:])
	}

	_, err = w.Write(b)
	return err
}
