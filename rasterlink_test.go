package rasterlink

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io/ioutil"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/bodgit/rasterlink/frame"
	"github.com/bodgit/rasterlink/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sleeps []time.Duration

func (s *sleeps) sleep(d time.Duration) {
	*s = append(*s, d)
}

func newTestLink() (*RasterLink, *sleeps) {
	s := new(sleeps)
	rl := New(log.New(ioutil.Discard, "", 0), DefaultOptions)
	rl.sleep = s.sleep
	return rl, s
}

type failWriter struct{}

var errWrite = errors.New("write failed")

func (failWriter) Write([]byte) (int, error) {
	return 0, errWrite
}

// rasterFrame returns a Y8 frame whose samples differ between any two
// pixels sharing a row or a column. offset shifts the rows to give distinct
// frames.
func rasterFrame(offset int) *frame.Frame {
	f := frame.New(frame.Y8)
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			f.Pix[y*frame.Width+x] = byte(x*7) ^ byte((y+offset)*31)
		}
	}
	return f
}

func yuvFrame(luma byte) []byte {
	b := bytes.Repeat([]byte{luma}, frame.YUV420Size)
	for i := frame.NumPixels; i < len(b); i++ {
		b[i] = 0x80
	}
	return b
}

func TestExtract(t *testing.T) {
	rl, s := newTestLink()

	in := bytes.NewReader(append(yuvFrame(1), yuvFrame(2)...))
	var out bytes.Buffer
	require.NoError(t, rl.Extract(context.Background(), in, &out))

	want := append(bytes.Repeat([]byte{1}, frame.NumPixels), bytes.Repeat([]byte{2}, frame.NumPixels)...)
	assert.Equal(t, want, out.Bytes())
	assert.Equal(t, sleeps{DefaultOptions.FrameDelay, DefaultOptions.FrameDelay}, *s)
}

func TestExtractIncomplete(t *testing.T) {
	rl, _ := newTestLink()

	in := bytes.NewReader(append(yuvFrame(1), yuvFrame(2)[:frame.NumPixels]...))
	var out bytes.Buffer
	err := rl.Extract(context.Background(), in, &out)
	assert.True(t, errors.Is(err, frame.ErrIncompleteRead))
	assert.Equal(t, frame.NumPixels, out.Len())
}

func TestPack(t *testing.T) {
	rl, s := newTestLink()

	var out bytes.Buffer
	require.NoError(t, rl.Pack(context.Background(), bytes.NewReader(rasterFrame(0).Pix), &out))
	require.Equal(t, frame.Gray4.Size(), out.Len())
	assert.Equal(t, byte(0x00), out.Bytes()[0])
	assert.Equal(t, byte(0x77), out.Bytes()[8])
	assert.Empty(t, *s)
}

func TestPackYUV420(t *testing.T) {
	rl, _ := newTestLink()

	in := bytes.NewReader(append(yuvFrame(0x5a), yuvFrame(0xf0)...))
	var out bytes.Buffer
	require.NoError(t, rl.PackYUV420(context.Background(), in, &out))

	want := append(bytes.Repeat([]byte{0x55}, frame.Gray4.Size()), bytes.Repeat([]byte{0xff}, frame.Gray4.Size())...)
	assert.Equal(t, want, out.Bytes())

	err := rl.PackYUV420(context.Background(), bytes.NewReader(yuvFrame(1)[:10]), &out)
	assert.True(t, errors.Is(err, frame.ErrIncompleteRead))
}

func TestFragmentDefragment(t *testing.T) {
	rl, s := newTestLink()

	var in bytes.Buffer
	in.Write(rasterFrame(0).Pix)
	in.Write(rasterFrame(7).Pix)

	var packets bytes.Buffer
	require.NoError(t, rl.Fragment(context.Background(), &in, &packets))
	require.Equal(t, 2*packet.FrameBytes, packets.Len())
	assert.Len(t, *s, 2)

	*s = nil
	var out bytes.Buffer
	require.NoError(t, rl.Defragment(context.Background(), &packets, &out, nil))
	require.Equal(t, 2*frame.RGB565.Size(), out.Len())

	// One flush delay per frame and one packet delay per packet
	assert.Len(t, *s, 2+2*packet.PerFrame)

	second := &frame.Frame{Format: frame.RGB565, Pix: out.Bytes()[frame.RGB565.Size():]}
	src := rasterFrame(7)
	for i := 0; i < packet.PerFrame*packet.PayloadSize; i++ {
		x, y := i%frame.Width, i/frame.Width
		assert.Equal(t, frame.GrayToRGB565(src.Pix[i]), second.RGB565At(x, y), "pixel %d", i)
	}

	// Neither frame sent its tail so it keeps the initial zero value
	for i := packet.PerFrame * packet.PayloadSize; i < frame.NumPixels; i++ {
		x, y := i%frame.Width, i/frame.Width
		assert.Equal(t, uint16(0), second.RGB565At(x, y), "pixel %d", i)
	}
}

func TestDefragmentPartialFrame(t *testing.T) {
	rl, _ := newTestLink()

	in := bytes.NewReader(make([]byte, (packet.PerFrame-1)*packet.Size))
	var out bytes.Buffer
	require.NoError(t, rl.Defragment(context.Background(), in, &out, nil))
	assert.Equal(t, 0, out.Len())

	d := packet.NewDefragmenter()
	in = bytes.NewReader(make([]byte, packet.PerFrame*packet.Size+5))
	err := rl.Defragment(context.Background(), in, &out, d)
	assert.True(t, errors.Is(err, frame.ErrIncompleteRead))
	assert.Equal(t, frame.RGB565.Size(), out.Len())
}

func TestWriteError(t *testing.T) {
	rl, _ := newTestLink()

	err := rl.Fragment(context.Background(), bytes.NewReader(rasterFrame(0).Pix), failWriter{})
	assert.Equal(t, errWrite, err)

	err = rl.Defragment(context.Background(), bytes.NewReader(make([]byte, packet.FrameBytes)), failWriter{}, nil)
	assert.Equal(t, errWrite, err)
}

func TestCancelled(t *testing.T) {
	rl, _ := newTestLink()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := rl.Still(ctx, rasterFrame(0), &out, 0)
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, 0, out.Len())
}

func TestStill(t *testing.T) {
	rl, s := newTestLink()

	var out bytes.Buffer
	require.NoError(t, rl.Still(context.Background(), rasterFrame(0), &out, 3))
	assert.Equal(t, 3*frame.NumPixels, out.Len())
	assert.Len(t, *s, 3)

	assert.Equal(t, frame.ErrWrongSize, rl.Still(context.Background(), &frame.Frame{}, &out, 1))
}

func TestRecordReplay(t *testing.T) {
	rl, s := newTestLink()

	db, err := NewFrameDB(filepath.Join(t.TempDir(), "frames.db"))
	require.NoError(t, err)
	defer db.Close()

	var in bytes.Buffer
	in.Write(rasterFrame(0).Pix)
	in.Write(rasterFrame(1).Pix)
	require.NoError(t, rl.Record(context.Background(), &in, frame.Y8, db))

	n, err := db.Length(frame.Y8)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = db.Length(frame.RGB565)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	var out bytes.Buffer
	require.NoError(t, rl.Replay(context.Background(), db, frame.Y8, &out))
	assert.Equal(t, append(rasterFrame(0).Pix, rasterFrame(1).Pix...), out.Bytes())
	assert.Len(t, *s, 2)

	err = rl.Replay(context.Background(), db, frame.Y8, failWriter{})
	assert.Equal(t, errWrite, err)

	_, err = db.Add(&frame.Frame{Format: frame.Gray4, Pix: []byte{1}}, time.Now())
	assert.Equal(t, frame.ErrWrongSize, err)
}

func TestSnapshot(t *testing.T) {
	rl, _ := newTestLink()

	var out bytes.Buffer
	require.NoError(t, rl.Snapshot(bytes.NewReader(frame.New(frame.RGB565).Pix), frame.RGB565, &out, 0))

	cfg, err := png.DecodeConfig(&out)
	require.NoError(t, err)
	assert.Equal(t, frame.Width, cfg.Width)
	assert.Equal(t, frame.Height, cfg.Height)

	err = rl.Snapshot(bytes.NewReader(nil), frame.Y8, &out, 0)
	assert.Error(t, err)
}
