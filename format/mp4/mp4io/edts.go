package mp4io

const (
	EDTS = Tag(0x65647473)
	ELST = Tag(0x656c7374)
)

// Edit is the edts container.
type Edit struct {
	Container
	list Slot[EditList]
}

func (*Edit) Tag() Tag {
	return EDTS
}

func (e *Edit) Unmarshal(c *Cursor) error {
	return beginContainer(c, EDTS, &e.Container)
}

func (e *Edit) List(c *Cursor) (Reference[EditList], bool, error) {
	return optional(&e.Container, &e.list, c)
}

// EditListEntry maps a span of the movie timeline onto the media.
// MediaTime -1 marks an empty edit.
type EditListEntry struct {
	SegmentDuration uint64 // movie time scale
	MediaTime       int64  // media time scale
	MediaRate       Fixed32
}

type EditList struct {
	Version uint8
	Flags   uint32
	Entries []EditListEntry
	AtomPos
}

func (*EditList) Tag() Tag {
	return ELST
}

func (e *EditList) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, ELST, &e.AtomPos)
	e.Version = l.u8()
	e.Flags = l.u24()
	count := l.u32()
	size := uint64(12)
	if e.Version == 1 {
		size = 20
	}
	e.Entries = readSeq(&l, "edit list", size, func(l *leaf) (en EditListEntry) {
		en.SegmentDuration = l.versioned(e.Version)
		if e.Version == 1 {
			en.MediaTime = l.i64()
		} else {
			en.MediaTime = int64(l.i32())
		}
		en.MediaRate = l.fixed32()
		return
	})
	l.checkCount("edit list", count, len(e.Entries))
	return l.finish()
}
