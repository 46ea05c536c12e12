package mp4io

import "fmt"

const MDAT = Tag(0x6d646174)

// MediaData is the mdat atom. Only its payload bounds are recorded; sample
// bytes are read on demand.
type MediaData struct {
	DataOffset uint64
	DataSize   uint64
	AtomPos
}

func (*MediaData) Tag() Tag {
	return MDAT
}

func (m *MediaData) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, MDAT, &m.AtomPos)
	m.DataOffset = c.Position()
	m.DataSize = l.remaining()
	l.skipToEnd()
	return l.finish()
}

// Contains reports whether [off, off+size) lies inside the payload.
func (m *MediaData) Contains(off, size uint64) bool {
	return off >= m.DataOffset && size <= m.DataSize && off-m.DataOffset <= m.DataSize-size
}

// ReadAt reads size payload bytes at absolute offset off.
func (m *MediaData) ReadAt(c *Cursor, off, size uint64) ([]byte, error) {
	if !m.Contains(off, size) {
		return nil, fmt.Errorf("%w: %d bytes at offset %d outside media data [%d, %d)",
			ErrIndexOutOfRange, size, off, m.DataOffset, m.DataOffset+m.DataSize)
	}
	if err := c.SeekAbsolute(off); err != nil {
		return nil, err
	}
	return c.Bytes(size)
}
