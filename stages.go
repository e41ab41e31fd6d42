package rasterlink

import (
	"context"
	"io"
	"time"

	"github.com/bodgit/rasterlink/frame"
	"github.com/bodgit/rasterlink/packet"
	"github.com/bodgit/rasterlink/preview"
)

// Extract reads YUV 4:2:0 frames from r and writes only their luma plane
// to w.
func (rl *RasterLink) Extract(ctx context.Context, r io.Reader, w io.Writer) error {
	return rl.loop(ctx, "extract", func() error {
		f, err := frame.ReadYUV420(r)
		if err != nil {
			return err
		}
		if _, err := f.WriteTo(w); err != nil {
			return err
		}
		rl.pace(rl.opts.FrameDelay)
		return nil
	})
}

// Pack reads Y8 frames from r and writes them to w as Gray4.
func (rl *RasterLink) Pack(ctx context.Context, r io.Reader, w io.Writer) error {
	return rl.pack(ctx, r, w, func(r io.Reader) (*frame.Frame, error) {
		return frame.Read(r, frame.Y8)
	})
}

// PackYUV420 reads YUV 4:2:0 frames from r and writes their luma plane to w
// as Gray4.
func (rl *RasterLink) PackYUV420(ctx context.Context, r io.Reader, w io.Writer) error {
	return rl.pack(ctx, r, w, frame.ReadYUV420)
}

func (rl *RasterLink) pack(ctx context.Context, r io.Reader, w io.Writer, read func(io.Reader) (*frame.Frame, error)) error {
	return rl.loop(ctx, "pack", func() error {
		f, err := read(r)
		if err != nil {
			return err
		}
		g, err := frame.PackGray4(f)
		if err != nil {
			return err
		}
		_, err = g.WriteTo(w)
		return err
	})
}

// Fragment reads Y8 frames from r and writes each one to w as a run of
// packets.
func (rl *RasterLink) Fragment(ctx context.Context, r io.Reader, w io.Writer) error {
	return rl.loop(ctx, "fragment", func() error {
		f, err := frame.Read(r, frame.Y8)
		if err != nil {
			return err
		}
		if err := packet.Encode(w, f); err != nil {
			return err
		}
		rl.pace(rl.opts.FrameDelay)
		return nil
	})
}

// Defragment reads packets from r into d and writes the RGB565 framebuffer
// to w after every packet.PerFrame packets. A nil d starts from a zeroed
// framebuffer.
func (rl *RasterLink) Defragment(ctx context.Context, r io.Reader, w io.Writer, d *packet.Defragmenter) error {
	if d == nil {
		d = packet.NewDefragmenter()
	}

	var p packet.Packet
	var frames int
	return rl.loop(ctx, "defragment", func() error {
		if err := packet.Read(r, &p); err != nil {
			return err
		}

		clipped := d.Clipped()
		flush := d.Apply(&p)
		if n := d.Clipped() - clipped; n > 0 {
			rl.logger.Printf("defragment: packet at (%d, %d) had %d samples outside the frame\n", p.X, p.Y, n)
		}

		if flush {
			if _, err := d.Frame().WriteTo(w); err != nil {
				return err
			}
			frames++
			rl.logger.Printf("defragment: flushed frame %d\n", frames)
			rl.pace(rl.opts.FlushDelay)
		}
		rl.pace(rl.opts.PacketDelay)
		return nil
	})
}

// Still writes f to w count times, or forever if count is zero.
func (rl *RasterLink) Still(ctx context.Context, f *frame.Frame, w io.Writer, count int) error {
	if err := f.Validate(); err != nil {
		return err
	}

	var n int
	return rl.loop(ctx, "still", func() error {
		if count > 0 && n >= count {
			return io.EOF
		}
		if _, err := f.WriteTo(w); err != nil {
			return err
		}
		n++
		rl.pace(rl.opts.FrameDelay)
		return nil
	})
}

// Record reads frames of the given format from r and adds each one to db.
func (rl *RasterLink) Record(ctx context.Context, r io.Reader, format frame.Format, db *FrameDB) error {
	return rl.loop(ctx, "record", func() error {
		f, err := frame.Read(r, format)
		if err != nil {
			return err
		}
		id, err := db.Add(f, time.Now())
		if err != nil {
			return err
		}
		rl.logger.Printf("record: stored %s frame %d\n", format, id)
		return nil
	})
}

// Replay writes every frame of the given format in db to w in the order
// they were recorded.
func (rl *RasterLink) Replay(ctx context.Context, db *FrameDB, format frame.Format, w io.Writer) error {
	var n int
	err := db.Each(format, func(f *frame.Frame) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := f.WriteTo(w); err != nil {
			return err
		}
		n++
		rl.pace(rl.opts.FrameDelay)
		return nil
	})
	rl.logger.Printf("replay: wrote %d %s frames\n", n, format)
	return err
}

// Snapshot reads a single frame of the given format from r and writes it to
// w as a PNG.
func (rl *RasterLink) Snapshot(r io.Reader, format frame.Format, w io.Writer, colors int) error {
	f, err := frame.Read(r, format)
	if err != nil {
		return err
	}
	return preview.Encode(w, f, colors)
}
