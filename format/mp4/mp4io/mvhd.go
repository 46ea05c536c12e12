package mp4io

import "time"

const MVHD = Tag(0x6d766864)

type MovieHeader struct {
	Version           uint8     // 0 or 1; 1 signals 64-bit times
	Flags             uint32    // 3 bytes
	CreateTime        time.Time // seconds since midnight, Jan 1, 1904, in UTC
	ModifyTime        time.Time
	TimeScale         uint32 // time units per second
	Duration          uint64 // in TimeScale units
	PreferredRate     Fixed32
	PreferredVolume   Fixed16
	Reserved          [10]byte
	Matrix            Matrix
	PreviewTime       uint32
	PreviewDuration   uint32
	PosterTime        uint32
	SelectionTime     uint32
	SelectionDuration uint32
	CurrentTime       uint32
	NextTrackId       uint32
	AtomPos
}

func (*MovieHeader) Tag() Tag {
	return MVHD
}

func (m *MovieHeader) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, MVHD, &m.AtomPos)
	m.Version = l.u8()
	m.Flags = l.u24()
	m.CreateTime = Time1904(l.versioned(m.Version))
	m.ModifyTime = Time1904(l.versioned(m.Version))
	m.TimeScale = l.u32()
	m.Duration = l.versioned(m.Version)
	m.PreferredRate = l.fixed32()
	m.PreferredVolume = l.fixed16()
	l.array(m.Reserved[:])
	m.Matrix = l.matrix()
	m.PreviewTime = l.u32()
	m.PreviewDuration = l.u32()
	m.PosterTime = l.u32()
	m.SelectionTime = l.u32()
	m.SelectionDuration = l.u32()
	m.CurrentTime = l.u32()
	m.NextTrackId = l.u32()
	return l.finish()
}

// Length is the movie duration as wall-clock time.
func (m *MovieHeader) Length() time.Duration {
	return ScaleToDuration(m.Duration, m.TimeScale)
}
