package mp4io

import "time"

const TKHD = Tag(0x746b6864)

// Track header flags.
const (
	TrackEnabled   = 0x1
	TrackInMovie   = 0x2
	TrackInPreview = 0x4
	TrackInPoster  = 0x8
)

type TrackHeader struct {
	Version        uint8
	Flags          uint32
	CreateTime     time.Time
	ModifyTime     time.Time
	TrackId        uint32
	Reserved       uint32
	Duration       uint64 // in the movie time scale
	Reserved2      [8]byte
	Layer          int16
	AlternateGroup int16
	Volume         Fixed16
	Reserved3      uint16
	Matrix         Matrix
	TrackWidth     Fixed32
	TrackHeight    Fixed32
	AtomPos
}

func (*TrackHeader) Tag() Tag {
	return TKHD
}

func (t *TrackHeader) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, TKHD, &t.AtomPos)
	t.Version = l.u8()
	t.Flags = l.u24()
	t.CreateTime = Time1904(l.versioned(t.Version))
	t.ModifyTime = Time1904(l.versioned(t.Version))
	t.TrackId = l.u32()
	t.Reserved = l.u32()
	t.Duration = l.versioned(t.Version)
	l.array(t.Reserved2[:])
	t.Layer = l.i16()
	t.AlternateGroup = l.i16()
	t.Volume = l.fixed16()
	t.Reserved3 = l.u16()
	t.Matrix = l.matrix()
	t.TrackWidth = l.fixed32()
	t.TrackHeight = l.fixed32()
	return l.finish()
}

func (t *TrackHeader) Enabled() bool {
	return t.Flags&TrackEnabled != 0
}
