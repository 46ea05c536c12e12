package mp4io

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ugparu/mp4atom/utils/bits/pio"
)

// cursorWindow is how much is read ahead from the source per refill.
const cursorWindow = 32 * 1024

// Cursor is a seekable big-endian reader. It is owned by one parse at a
// time: container searches seek away and back, so two logical parses must
// never interleave over the same Cursor.
type Cursor struct {
	r      io.ReadSeeker
	pos    uint64
	size   uint64
	sized  bool
	win    []byte
	winOff uint64
	buf    [8]byte
}

// NewCursor wraps r, starting at r's current position.
func NewCursor(r io.ReadSeeker) *Cursor {
	c := &Cursor{r: r}
	if pos, err := r.Seek(0, io.SeekCurrent); err == nil && pos > 0 {
		c.pos = uint64(pos)
	}
	return c
}

// Position returns the absolute offset of the next read.
func (c *Cursor) Position() uint64 {
	return c.pos
}

// Size returns the total length of the underlying source.
func (c *Cursor) Size() (uint64, error) {
	if c.sized {
		return c.size, nil
	}
	end, err := c.r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	c.size, c.sized = uint64(end), true
	return c.size, nil
}

// SeekAbsolute moves the cursor to off. The source itself is only touched
// by the next read.
func (c *Cursor) SeekAbsolute(off uint64) error {
	if off > math.MaxInt64 {
		return fmt.Errorf("mp4io: seek offset %d out of range", off)
	}
	c.pos = off
	return nil
}

// SeekRelative moves the cursor by delta bytes.
func (c *Cursor) SeekRelative(delta int64) error {
	if delta < 0 && uint64(-delta) > c.pos {
		return fmt.Errorf("mp4io: seek to negative offset %d", int64(c.pos)+delta) //nolint:gosec
	}
	return c.SeekAbsolute(uint64(int64(c.pos) + delta)) //nolint:gosec
}

func (c *Cursor) truncated(want, got int) error {
	return fmt.Errorf("%w: need %d bytes at offset %d, got %d", ErrTruncated, want, c.pos-uint64(got), got)
}

// readAt reads len(b) bytes at off straight from the source.
func (c *Cursor) readAt(off uint64, b []byte) (int, error) {
	if _, err := c.r.Seek(int64(off), io.SeekStart); err != nil { //nolint:gosec
		return 0, err
	}
	n, err := io.ReadFull(c.r, b)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	return n, err
}

func (c *Cursor) readFull(b []byte) error {
	want, got := len(b), 0
	if len(b) >= cursorWindow {
		n, err := c.readAt(c.pos, b)
		c.pos += uint64(n)
		if errors.Is(err, io.EOF) {
			return c.truncated(want, n)
		}
		return err
	}
	for len(b) > 0 {
		if c.pos < c.winOff || c.pos >= c.winOff+uint64(len(c.win)) {
			if c.win == nil {
				c.win = make([]byte, 0, cursorWindow)
			}
			n, err := c.readAt(c.pos, c.win[:cursorWindow])
			c.win, c.winOff = c.win[:n], c.pos
			if n == 0 {
				if err == nil || errors.Is(err, io.EOF) {
					return c.truncated(want, got)
				}
				return err
			}
		}
		n := copy(b, c.win[c.pos-c.winOff:])
		b = b[n:]
		c.pos += uint64(n)
		got += n
	}
	return nil
}

func (c *Cursor) fixed(n int) ([]byte, error) {
	b := c.buf[:n]
	if err := c.readFull(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *Cursor) U8() (uint8, error) {
	b, err := c.fixed(1)
	if err != nil {
		return 0, err
	}
	return pio.U8(b), nil
}

func (c *Cursor) U16() (uint16, error) {
	b, err := c.fixed(2)
	if err != nil {
		return 0, err
	}
	return pio.U16BE(b), nil
}

func (c *Cursor) I16() (int16, error) {
	b, err := c.fixed(2)
	if err != nil {
		return 0, err
	}
	return pio.I16BE(b), nil
}

func (c *Cursor) U24() (uint32, error) {
	b, err := c.fixed(3)
	if err != nil {
		return 0, err
	}
	return pio.U24BE(b), nil
}

func (c *Cursor) U32() (uint32, error) {
	b, err := c.fixed(4)
	if err != nil {
		return 0, err
	}
	return pio.U32BE(b), nil
}

func (c *Cursor) I32() (int32, error) {
	b, err := c.fixed(4)
	if err != nil {
		return 0, err
	}
	return pio.I32BE(b), nil
}

func (c *Cursor) U64() (uint64, error) {
	b, err := c.fixed(8)
	if err != nil {
		return 0, err
	}
	return pio.U64BE(b), nil
}

func (c *Cursor) I64() (int64, error) {
	b, err := c.fixed(8)
	if err != nil {
		return 0, err
	}
	return pio.I64BE(b), nil
}

// Bytes reads exactly n bytes into a new buffer. A length running past the
// end of the source fails before anything is allocated.
func (c *Cursor) Bytes(n uint64) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	size, err := c.Size()
	if err != nil {
		return nil, err
	}
	if c.pos > size || n > size-c.pos {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, %d available", ErrTruncated, n, c.pos, size-min(size, c.pos))
	}
	b := make([]byte, n)
	if err = c.readFull(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ReadUntil returns the bytes up to and including delim.
func (c *Cursor) ReadUntil(delim byte) ([]byte, error) {
	var out []byte
	for {
		b, err := c.U8()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
		if b == delim {
			return out, nil
		}
	}
}
