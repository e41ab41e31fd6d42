/*
Package packet implements the fixed size packet framing used to carry a Y8
frame over a narrow byte channel.

Each packet is 32 bytes; the x and y coordinate of the first pixel followed
by 30 luma samples in raster order, wrapping to the next row whenever the
column reaches the frame width. A frame is sent as exactly 682 packets with
no other framing, so the last 20 samples of every frame are never sent.
*/
package packet

import (
	"errors"
	"io"

	"github.com/bodgit/rasterlink/frame"
)

const (
	// Size is the length in bytes of a packet on the wire
	Size = 32
	// HeaderSize is the length of the origin header
	HeaderSize = 2
	// PayloadSize is the number of samples carried by each packet
	PayloadSize = Size - HeaderSize
	// PerFrame is the number of packets sent for each frame
	PerFrame = 682
	// FrameBytes is the length in bytes of one frame of packets
	FrameBytes = PerFrame * Size
	// Dropped is the number of trailing samples never sent for a frame
	Dropped = frame.NumPixels - PerFrame*PayloadSize
)

var errBadLength = errors.New("packet: wrong length")

// Packet is a single addressed run of luma samples.
type Packet struct {
	X, Y    uint8
	Payload [PayloadSize]byte
}

// Origin returns the packet header as a cursor.
func (p *Packet) Origin() Cursor {
	return Cursor{int(p.X), int(p.Y)}
}

// MarshalBinary encodes the packet into its wire form.
func (p *Packet) MarshalBinary() ([]byte, error) {
	b := make([]byte, Size)
	p.put(b)
	return b, nil
}

func (p *Packet) put(b []byte) {
	b[0], b[1] = p.X, p.Y
	copy(b[HeaderSize:], p.Payload[:])
}

// UnmarshalBinary decodes the packet from its wire form.
func (p *Packet) UnmarshalBinary(b []byte) error {
	if len(b) != Size {
		return errBadLength
	}
	p.X, p.Y = b[0], b[1]
	copy(p.Payload[:], b[HeaderSize:])
	return nil
}

// Read reads a single packet from r. It returns io.EOF if the stream ends
// cleanly on a packet boundary.
func Read(r io.Reader, p *Packet) error {
	var b [Size]byte
	if err := frame.ReadFull(r, b[:]); err != nil {
		return err
	}
	return p.UnmarshalBinary(b[:])
}
