/*
Package rasterlink is a set of stream filters for moving a 128 by 160 video
feed over a narrow byte channel to a remote display.

Each filter reads fixed size units from an input stream and writes fixed
size units to an output stream, blocking on both. A filter stops cleanly
when its input ends on a unit boundary and fails on a short read or any
write error.
*/
package rasterlink

import (
	"context"
	"io"
	"log"
	"time"
)

// Options control the delays applied after each write.
type Options struct {
	// FrameDelay is applied after each frame written by the extract,
	// fragment, still and replay filters
	FrameDelay time.Duration
	// PacketDelay is applied after each packet consumed by the
	// defragment filter
	PacketDelay time.Duration
	// FlushDelay is applied after each framebuffer flush
	FlushDelay time.Duration
}

// DefaultOptions pace the filters for a 30 frames per second feed.
var DefaultOptions = Options{
	FrameDelay:  time.Second / 30,
	PacketDelay: 130 * time.Microsecond,
	FlushDelay:  time.Millisecond,
}

type RasterLink struct {
	logger *log.Logger
	opts   Options
	sleep  func(time.Duration)
}

func New(logger *log.Logger, opts Options) *RasterLink {
	return &RasterLink{
		logger: logger,
		opts:   opts,
		sleep:  time.Sleep,
	}
}

func (rl *RasterLink) pace(d time.Duration) {
	if d > 0 {
		rl.sleep(d)
	}
}

// loop calls step until it returns an error. io.EOF from step ends the loop
// without error.
func (rl *RasterLink) loop(ctx context.Context, name string, step func() error) error {
	var n int
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch err := step(); err {
		case nil:
			n++
		case io.EOF:
			rl.logger.Printf("%s: end of stream after %d units\n", name, n)
			return nil
		default:
			rl.logger.Printf("%s: failed after %d units: %v\n", name, n, err)
			return err
		}
	}
}
