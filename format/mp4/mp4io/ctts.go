package mp4io

const (
	CTTS = Tag(0x63747473)
	CSLG = Tag(0x63736c67)
)

// CompositionOffset holds per-sample presentation minus decode time.
type CompositionOffset struct {
	Version    uint8
	Flags      uint32
	EntryCount uint32
	Entries    []CompositionOffsetEntry
	AtomPos
}

func (*CompositionOffset) Tag() Tag {
	return CTTS
}

func (t *CompositionOffset) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, CTTS, &t.AtomPos)
	t.Version = l.u8()
	t.Flags = l.u24()
	t.EntryCount = l.u32()
	t.Entries = readSeq(&l, "composition offset", LenCompositionOffsetEntry, getCompositionOffsetEntry)
	l.checkCount("composition offset", t.EntryCount, len(t.Entries))
	return l.finish()
}

// LookupOffset returns the composition offset of 1-based sample n. Version
// 0 offsets are unsigned on the wire but read as signed, matching what
// writers emit in practice.
func (t *CompositionOffset) LookupOffset(n uint32) (int32, bool) {
	if n == 0 {
		return 0, false
	}
	left := uint64(n - 1)
	for _, e := range t.Entries {
		if left < uint64(e.Count) {
			return e.Offset, true
		}
		left -= uint64(e.Count)
	}
	return 0, false
}

// CompositionShift is the cslg atom relating composition and decode timelines.
type CompositionShift struct {
	Version                      uint8
	Flags                        uint32
	CompositionToDTSShift        int64
	LeastDecodeToDisplayDelta    int64
	GreatestDecodeToDisplayDelta int64
	CompositionStartTime         int64
	CompositionEndTime           int64
	AtomPos
}

func (*CompositionShift) Tag() Tag {
	return CSLG
}

func (s *CompositionShift) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, CSLG, &s.AtomPos)
	s.Version = l.u8()
	s.Flags = l.u24()
	for _, f := range []*int64{
		&s.CompositionToDTSShift,
		&s.LeastDecodeToDisplayDelta,
		&s.GreatestDecodeToDisplayDelta,
		&s.CompositionStartTime,
		&s.CompositionEndTime,
	} {
		if s.Version == 1 {
			*f = l.i64()
		} else {
			*f = int64(l.i32())
		}
	}
	return l.finish()
}
