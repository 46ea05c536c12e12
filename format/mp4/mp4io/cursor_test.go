package mp4io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCursor(b []byte) *Cursor {
	return NewCursor(bytes.NewReader(b))
}

func TestCursorReadsBigEndian(t *testing.T) {
	t.Parallel()

	c := newTestCursor([]byte{
		0x01,
		0x01, 0x02,
		0xff, 0xfe,
		0x01, 0x02, 0x03,
		0x01, 0x02, 0x03, 0x04,
		0xff, 0xff, 0xff, 0xfe,
		0, 0, 0, 0, 0, 0, 0x01, 0x00,
	})

	u8, err := c.U8()
	require.NoError(t, err)
	require.Equal(t, uint8(1), u8)

	u16, err := c.U16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x0102), u16)

	i16, err := c.I16()
	require.NoError(t, err)
	require.Equal(t, int16(-2), i16)

	u24, err := c.U24()
	require.NoError(t, err)
	require.Equal(t, uint32(0x010203), u24)

	u32, err := c.U32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x01020304), u32)

	i32, err := c.I32()
	require.NoError(t, err)
	require.Equal(t, int32(-2), i32)

	u64, err := c.U64()
	require.NoError(t, err)
	require.Equal(t, uint64(256), u64)

	require.Equal(t, uint64(24), c.Position())
	size, err := c.Size()
	require.NoError(t, err)
	require.Equal(t, uint64(24), size)
}

func TestCursorTruncated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		read func(c *Cursor) error
	}{
		{"u32", func(c *Cursor) error { _, err := c.U32(); return err }},
		{"u64", func(c *Cursor) error { _, err := c.U64(); return err }},
		{"bytes", func(c *Cursor) error { _, err := c.Bytes(3); return err }},
		{"read until", func(c *Cursor) error { _, err := c.ReadUntil(0); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestCursor([]byte{0x61, 0x62})
			require.ErrorIs(t, tt.read(c), ErrTruncated)
		})
	}
}

func TestCursorSeek(t *testing.T) {
	t.Parallel()

	c := newTestCursor([]byte("abcdefgh"))
	require.NoError(t, c.SeekAbsolute(4))
	b, err := c.Bytes(2)
	require.NoError(t, err)
	require.Equal(t, []byte("ef"), b)

	require.NoError(t, c.SeekRelative(-5))
	require.Equal(t, uint64(1), c.Position())
	v, err := c.U8()
	require.NoError(t, err)
	require.Equal(t, uint8('b'), v)

	require.Error(t, c.SeekRelative(-10))
	require.Equal(t, uint64(2), c.Position())

	b, err = c.ReadUntil('e')
	require.NoError(t, err)
	require.Equal(t, []byte("cde"), b)
}

func TestCursorLargeRead(t *testing.T) {
	t.Parallel()

	src := make([]byte, 3*cursorWindow)
	for i := range src {
		src[i] = byte(i)
	}
	c := newTestCursor(src)
	require.NoError(t, c.SeekAbsolute(cursorWindow-2))
	v, err := c.U32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xfeff0001), v)

	b, err := c.Bytes(cursorWindow + 10)
	require.NoError(t, err)
	require.Equal(t, src[cursorWindow+2:2*cursorWindow+12], b)
}
