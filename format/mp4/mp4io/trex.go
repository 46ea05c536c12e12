package mp4io

const TREX = Tag(0x74726578)

// TrackExtend holds a track's defaults for movie fragments.
type TrackExtend struct {
	Version               uint8
	Flags                 uint32
	TrackId               uint32
	DefaultSampleDescIdx  uint32
	DefaultSampleDuration uint32
	DefaultSampleSize     uint32
	DefaultSampleFlags    uint32
	AtomPos
}

func (*TrackExtend) Tag() Tag {
	return TREX
}

func (t *TrackExtend) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, TREX, &t.AtomPos)
	t.Version = l.u8()
	t.Flags = l.u24()
	t.TrackId = l.u32()
	t.DefaultSampleDescIdx = l.u32()
	t.DefaultSampleDuration = l.u32()
	t.DefaultSampleSize = l.u32()
	t.DefaultSampleFlags = l.u32()
	return l.finish()
}
