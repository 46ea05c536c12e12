package mp4io

// Dummy holds the body of an atom whose layout is not decoded.
type Dummy struct {
	Data []byte
	AtomPos
}

func (d *Dummy) unmarshal(c *Cursor, tag Tag) error {
	l := beginLeaf(c, tag, &d.AtomPos)
	d.Data = l.fill()
	return l.finish()
}

// FreeType is padding. Its bytes are skipped, not read.
type FreeType struct {
	AtomPos
}

func (*FreeType) Tag() Tag {
	return FREE
}

func (f *FreeType) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, FREE, &f.AtomPos)
	l.skipToEnd()
	return l.finish()
}
