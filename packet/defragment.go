package packet

import "github.com/bodgit/rasterlink/frame"

// Defragmenter rebuilds RGB565 frames from a stream of packets. The
// framebuffer is never cleared so any pixel not covered by the packets of a
// frame keeps its previous value.
type Defragmenter struct {
	fb      *frame.Frame
	count   int
	clipped int
}

// NewDefragmenter returns a Defragmenter with a zeroed framebuffer.
func NewDefragmenter() *Defragmenter {
	return &Defragmenter{
		fb: frame.New(frame.RGB565),
	}
}

// NewDefragmenterFill returns a Defragmenter with every pixel of the
// framebuffer initially set to c.
func NewDefragmenterFill(c uint16) *Defragmenter {
	d := NewDefragmenter()
	d.fb.Fill(c)
	return d
}

// Apply converts the samples of p to RGB565 and stores them in the
// framebuffer starting at the packet origin. It returns true once PerFrame
// packets have been applied since the last time it returned true, at which
// point the framebuffer should be flushed.
//
// Samples that would land below the last row are discarded.
func (d *Defragmenter) Apply(p *Packet) bool {
	var at Cursor
	c := p.Origin()
	for _, v := range p.Payload {
		at, c = c.Next()
		if at.Y >= frame.Height {
			d.clipped++
			continue
		}
		d.fb.SetRGB565(at.X, at.Y, frame.GrayToRGB565(v))
	}

	d.count++
	if d.count >= PerFrame {
		d.count = 0
		return true
	}
	return false
}

// Frame returns the framebuffer. It is updated in place by Apply.
func (d *Defragmenter) Frame() *frame.Frame {
	return d.fb
}

// Pending returns the number of packets applied since the last flush.
func (d *Defragmenter) Pending() int {
	return d.count
}

// Clipped returns the total number of samples discarded for falling outside
// the frame.
func (d *Defragmenter) Clipped() int {
	return d.clipped
}
