// Package mp4test builds small movie files byte by byte for tests.
package mp4test

import "github.com/ugparu/mp4atom/utils/bits/pio"

// Box is an atom under construction: a tag, a body and child atoms that
// are written after the body.
type Box struct {
	tag  string
	body []byte
	kids []*Box
	size int // overrides the computed length field when non-zero
}

// New starts an atom tagged tag, which must be four bytes long.
func New(tag string) *Box {
	if len(tag) != 4 {
		panic("mp4test: tag must be four bytes: " + tag)
	}
	return &Box{tag: tag}
}

// Full starts a full atom with its version and flags already written.
func Full(tag string, version uint8, flags uint32) *Box {
	return New(tag).U8(version).U24(flags)
}

func (b *Box) U8(v uint8) *Box {
	b.body = append(b.body, v)
	return b
}

func (b *Box) U16(v uint16) *Box {
	var p [2]byte
	pio.PutU16BE(p[:], v)
	b.body = append(b.body, p[:]...)
	return b
}

func (b *Box) I16(v int16) *Box {
	return b.U16(uint16(v)) //nolint:gosec
}

func (b *Box) U24(v uint32) *Box {
	var p [3]byte
	pio.PutU24BE(p[:], v)
	b.body = append(b.body, p[:]...)
	return b
}

func (b *Box) U32(v uint32) *Box {
	var p [4]byte
	pio.PutU32BE(p[:], v)
	b.body = append(b.body, p[:]...)
	return b
}

func (b *Box) I32(v int32) *Box {
	return b.U32(uint32(v)) //nolint:gosec
}

func (b *Box) U64(v uint64) *Box {
	var p [8]byte
	pio.PutU64BE(p[:], v)
	b.body = append(b.body, p[:]...)
	return b
}

// Tag writes a four byte code into the body.
func (b *Box) Tag(tag string) *Box {
	return b.Raw([]byte(tag))
}

func (b *Box) Raw(p []byte) *Box {
	b.body = append(b.body, p...)
	return b
}

func (b *Box) Zeros(n int) *Box {
	b.body = append(b.body, make([]byte, n)...)
	return b
}

// Add appends child atoms.
func (b *Box) Add(kids ...*Box) *Box {
	b.kids = append(b.kids, kids...)
	return b
}

// Size forces the length field to n regardless of the real length.
func (b *Box) Size(n int) *Box {
	b.size = n
	return b
}

// Len is the encoded length of the atom.
func (b *Box) Len() int {
	n := 8 + len(b.body)
	for _, k := range b.kids {
		n += k.Len()
	}
	return n
}

// Encode returns the atom's bytes.
func (b *Box) Encode() []byte {
	return b.AppendTo(make([]byte, 0, b.Len()))
}

func (b *Box) AppendTo(out []byte) []byte {
	size := b.size
	if size == 0 {
		size = b.Len()
	}
	var hdr [8]byte
	pio.PutU32BE(hdr[:], uint32(size)) //nolint:gosec
	copy(hdr[4:], b.tag)
	out = append(out, hdr[:]...)
	out = append(out, b.body...)
	for _, k := range b.kids {
		out = k.AppendTo(out)
	}
	return out
}

// Concat encodes atoms back to back.
func Concat(boxes ...*Box) []byte {
	var out []byte
	for _, b := range boxes {
		out = b.AppendTo(out)
	}
	return out
}
