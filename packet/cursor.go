package packet

import "github.com/bodgit/rasterlink/frame"

// Cursor is a raster position within a frame.
type Cursor struct {
	X, Y int
}

// Next returns the position the next sample is stored at along with the
// cursor that follows it. The wrap to the next row happens before the
// sample, so a cursor with X at or past the frame width still places its
// sample at the start of the following row.
func (c Cursor) Next() (Cursor, Cursor) {
	if c.X >= frame.Width {
		c.X = 0
		c.Y++
	}
	return c, Cursor{c.X + 1, c.Y}
}
