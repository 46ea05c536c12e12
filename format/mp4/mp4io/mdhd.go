package mp4io

import "time"

const (
	MDHD = Tag(0x6d646864)
	ELNG = Tag(0x656c6e67)
)

type MediaHeader struct {
	Version    uint8
	Flags      uint32
	CreateTime time.Time
	ModifyTime time.Time
	TimeScale  uint32
	Duration   uint64
	Language   uint16
	Quality    uint16
	AtomPos
}

func (*MediaHeader) Tag() Tag {
	return MDHD
}

func (m *MediaHeader) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, MDHD, &m.AtomPos)
	m.Version = l.u8()
	m.Flags = l.u24()
	m.CreateTime = Time1904(l.versioned(m.Version))
	m.ModifyTime = Time1904(l.versioned(m.Version))
	m.TimeScale = l.u32()
	m.Duration = l.versioned(m.Version)
	m.Language = l.u16()
	m.Quality = l.u16()
	return l.finish()
}

// ToMediaTime converts a wall-clock offset into this media's time scale.
func (m *MediaHeader) ToMediaTime(d time.Duration) uint64 {
	return DurationToScale(d, m.TimeScale)
}

// FromMediaTime converts media time units back to wall-clock time.
func (m *MediaHeader) FromMediaTime(t uint64) time.Duration {
	return ScaleToDuration(t, m.TimeScale)
}

// LanguageCode decodes the packed ISO-639-2/T code. Values below 0x400 are
// Macintosh language codes and yield "".
func (m *MediaHeader) LanguageCode() string {
	if m.Language < 0x400 {
		return ""
	}
	b := []byte{
		byte(m.Language>>10&0x1f) + 0x60,
		byte(m.Language>>5&0x1f) + 0x60,
		byte(m.Language&0x1f) + 0x60,
	}
	return string(b)
}

// ExtendedLanguage carries a BCP-47 language tag.
type ExtendedLanguage struct {
	Version  uint8
	Flags    uint32
	Language string
	AtomPos
}

func (*ExtendedLanguage) Tag() Tag {
	return ELNG
}

func (e *ExtendedLanguage) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, ELNG, &e.AtomPos)
	e.Version = l.u8()
	e.Flags = l.u24()
	e.Language = l.cString()
	return l.finish()
}
