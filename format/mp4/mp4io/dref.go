package mp4io

const DREF = Tag(0x64726566)

// DataRef is one entry of a dref table. Kind says which variant the
// referenced atom is.
type DataRef struct {
	Kind Tag
	Ref  Reference[DataEntry]
}

type DataRefer struct {
	Version    uint8
	Flags      uint32
	EntryCount uint32
	Entries    []DataRef
	AtomPos
}

func (*DataRefer) Tag() Tag {
	return DREF
}

func (d *DataRefer) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, DREF, &d.AtomPos)
	d.Version = l.u8()
	d.Flags = l.u24()
	d.EntryCount = l.u32()
	d.Entries = readSeq(&l, "data references", 0, func(l *leaf) (e DataRef) {
		f, tag := l.child()
		if l.err == nil && !isDataEntry(tag) {
			l.err = &UnknownVariantError{Union: "data reference", Offset: f.Offset, Tag: tag}
		}
		e.Kind, e.Ref = tag, NewReference[DataEntry](f.Offset, f.Length)
		return
	})
	l.checkCount("data references", d.EntryCount, len(d.Entries))
	return l.finish()
}
