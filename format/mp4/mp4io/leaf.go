package mp4io

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// leaf reads the fields of one atom linearly. The first failure sticks:
// later reads return zero values and finish reports the original error.
// Every read is bounded by the atom's declared end.
type leaf struct {
	c     *Cursor
	frame Frame
	err   error
}

// beginLeaf consumes the frame and tag of the atom at the cursor and
// checks the tag against want.
func beginLeaf(c *Cursor, want Tag, pos *AtomPos) leaf {
	l, tag := beginLeafAny(c, pos)
	if l.err == nil && tag != want {
		l.err = &HeaderMismatchError{Offset: l.frame.Offset, Expected: want, Actual: tag}
	}
	return l
}

// beginLeafAny is beginLeaf for atoms whose tag is data, like sample entries.
func beginLeafAny(c *Cursor, pos *AtomPos) (leaf, Tag) {
	l := leaf{c: c}
	var tag Tag
	l.frame, tag, l.err = ReadHeader(c)
	if l.err == nil {
		pos.setPos(l.frame)
	}
	return l, tag
}

func (l *leaf) remaining() uint64 {
	pos := l.c.Position()
	if pos >= l.frame.End() {
		return 0
	}
	return l.frame.End() - pos
}

func (l *leaf) need(n uint64, field string) bool {
	if l.err != nil {
		return false
	}
	if rem := l.remaining(); n > rem {
		l.err = fmt.Errorf("%w: %s needs %d bytes at offset %d, %d left before atom end %d",
			ErrTruncated, field, n, l.c.Position(), rem, l.frame.End())
		return false
	}
	return true
}

func (l *leaf) u8() (v uint8) {
	if l.need(1, "u8") {
		v, l.err = l.c.U8()
	}
	return
}

func (l *leaf) u16() (v uint16) {
	if l.need(2, "u16") {
		v, l.err = l.c.U16()
	}
	return
}

func (l *leaf) i16() (v int16) {
	if l.need(2, "i16") {
		v, l.err = l.c.I16()
	}
	return
}

func (l *leaf) u24() (v uint32) {
	if l.need(3, "u24") {
		v, l.err = l.c.U24()
	}
	return
}

func (l *leaf) u32() (v uint32) {
	if l.need(4, "u32") {
		v, l.err = l.c.U32()
	}
	return
}

func (l *leaf) i32() (v int32) {
	if l.need(4, "i32") {
		v, l.err = l.c.I32()
	}
	return
}

func (l *leaf) u64() (v uint64) {
	if l.need(8, "u64") {
		v, l.err = l.c.U64()
	}
	return
}

func (l *leaf) i64() (v int64) {
	if l.need(8, "i64") {
		v, l.err = l.c.I64()
	}
	return
}

// versioned reads a 64-bit field for version 1 atoms and a 32-bit one otherwise.
func (l *leaf) versioned(version uint8) uint64 {
	if version == 1 {
		return l.u64()
	}
	return uint64(l.u32())
}

func (l *leaf) tag() Tag {
	return Tag(l.u32())
}

func (l *leaf) fixed16() Fixed16 {
	return Fixed16(l.u16())
}

func (l *leaf) fixed32() Fixed32 {
	return Fixed32(l.u32())
}

func (l *leaf) matrix() (m Matrix) {
	if !l.need(LenMatrix, "matrix") {
		return
	}
	for _, f := range []*Fixed32{&m.A, &m.B, &m.U, &m.C, &m.D, &m.V, &m.X, &m.Y, &m.W} {
		*f = l.fixed32()
	}
	return
}

// array fills dst, used for fixed-size byte array fields.
func (l *leaf) array(dst []byte) {
	if !l.need(uint64(len(dst)), "array") {
		return
	}
	var b []byte
	if b, l.err = l.c.Bytes(uint64(len(dst))); l.err == nil {
		copy(dst, b)
	}
}

func (l *leaf) bytes(n uint64, field string) (b []byte) {
	if l.need(n, field) {
		b, l.err = l.c.Bytes(n)
	}
	return
}

// fill consumes every byte left before the declared end.
func (l *leaf) fill() []byte {
	if l.err != nil {
		return nil
	}
	return l.bytes(l.remaining(), "trailing bytes")
}

func (l *leaf) validUTF8(b []byte, field string) string {
	if l.err == nil && !utf8.Valid(b) {
		l.err = fmt.Errorf("%w: %s at offset %d", ErrInvalidEncoding, field, l.c.Position()-uint64(len(b)))
		return ""
	}
	return string(b)
}

// fillString is fill for UTF-8 text.
func (l *leaf) fillString() string {
	return l.validUTF8(l.fill(), "trailing string")
}

// cString reads NUL-terminated UTF-8 text and drops the terminator.
func (l *leaf) cString() string {
	if l.err != nil {
		return ""
	}
	start := l.c.Position()
	var b []byte
	if b, l.err = l.c.ReadUntil(0); l.err != nil {
		return ""
	}
	if l.c.Position() > l.frame.End() {
		l.err = fmt.Errorf("%w: c string at offset %d runs past atom end %d", ErrTruncated, start, l.frame.End())
		return ""
	}
	return l.validUTF8(bytes.TrimSuffix(b, []byte{0}), "c string")
}

// pString reads a 32-bit length prefixed UTF-8 string.
func (l *leaf) pString() string {
	n := l.u32()
	return l.validUTF8(l.bytes(uint64(n), "pascal string"), "pascal string")
}

// checkCount compares an entry count field with the entries the body held.
func (l *leaf) checkCount(field string, declared uint32, parsed int) {
	if l.err == nil && uint64(declared) != uint64(parsed) {
		l.err = fmt.Errorf("%w: %s declares %d entries, atom at offset %d holds %d",
			ErrFramingViolation, field, declared, l.frame.Offset, parsed)
	}
}

// skipToEnd jumps over the rest of the atom without reading it.
func (l *leaf) skipToEnd() {
	if l.err == nil {
		l.err = l.c.SeekAbsolute(l.frame.End())
	}
}

// finish enforces the framing law: a parsed atom must end exactly where
// its length field said it would.
func (l *leaf) finish() error {
	if l.err != nil {
		return l.err
	}
	if pos := l.c.Position(); pos != l.frame.End() {
		return fmt.Errorf("%w: atom at offset %d declares end %d, fields end at %d",
			ErrFramingViolation, l.frame.Offset, l.frame.End(), pos)
	}
	return nil
}

// maxPrealloc bounds the capacity reserved up front for a sequence, so a
// corrupt length cannot force a huge allocation before any read fails.
const maxPrealloc = 1 << 16

// readSeq parses elements until the declared end. Fixed-size elements
// (elemSize > 0) must tile the remaining bytes exactly.
func readSeq[E any](l *leaf, name string, elemSize uint64, read func(*leaf) E) []E {
	if l.err != nil {
		return nil
	}
	rem := l.remaining()
	var out []E
	if elemSize > 0 {
		if rem%elemSize != 0 {
			l.err = fmt.Errorf("%w: %s sequence at offset %d leaves a partial %d-byte element",
				ErrTruncated, name, l.c.Position(), rem%elemSize)
			return nil
		}
		out = make([]E, 0, min(rem/elemSize, maxPrealloc))
	}
	for l.err == nil && l.remaining() > 0 {
		e := read(l)
		if l.err != nil {
			l.err = fmt.Errorf("%s[%d]: %w", name, len(out), l.err)
			return nil
		}
		out = append(out, e)
	}
	return out
}

// child records the nested atom at the cursor and skips over it.
func (l *leaf) child() (f Frame, tag Tag) {
	if l.err != nil {
		return
	}
	if f, tag, l.err = PeekHeader(l.c); l.err != nil {
		return
	}
	if f.End() > l.frame.End() {
		l.err = fmt.Errorf("%w: nested atom %q at offset %d ends at %d, past parent end %d",
			ErrFramingViolation, tag, f.Offset, f.End(), l.frame.End())
		return
	}
	l.err = l.c.SeekAbsolute(f.End())
	return
}
