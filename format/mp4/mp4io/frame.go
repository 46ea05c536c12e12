package mp4io

import "fmt"

// Frame is an atom's absolute start offset and its declared total length,
// header included.
type Frame struct {
	Offset uint64
	Length uint64
}

// End is the offset just past the atom.
func (f Frame) End() uint64 {
	return f.Offset + f.Length
}

// ReadFrame reads the 32-bit length field at the cursor. Lengths 0 (to end
// of file) and 1 (64-bit extended size) are rejected.
func ReadFrame(c *Cursor) (f Frame, err error) {
	f.Offset = c.Position()
	length, err := c.U32()
	if err != nil {
		return f, err
	}
	switch {
	case length == 0 || length == 1:
		return f, fmt.Errorf("%w: length field %d at offset %d", ErrUnsupportedExtendedSize, length, f.Offset)
	case length < HeaderSize:
		return f, fmt.Errorf("%w: length %d at offset %d is shorter than the atom header", ErrFramingViolation, length, f.Offset)
	}
	f.Length = uint64(length)
	return f, nil
}

// ReadTag reads the next four bytes verbatim as a type tag.
func ReadTag(c *Cursor) (Tag, error) {
	v, err := c.U32()
	return Tag(v), err
}

// ReadHeader reads a frame followed by its type tag.
func ReadHeader(c *Cursor) (Frame, Tag, error) {
	f, err := ReadFrame(c)
	if err != nil {
		return f, 0, err
	}
	tag, err := ReadTag(c)
	return f, tag, err
}

// PeekHeader reads the next frame and tag and leaves the cursor where it was.
func PeekHeader(c *Cursor) (Frame, Tag, error) {
	start := c.Position()
	f, tag, err := ReadHeader(c)
	if serr := c.SeekAbsolute(start); serr != nil && err == nil {
		err = serr
	}
	return f, tag, err
}
