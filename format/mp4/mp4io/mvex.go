package mp4io

const (
	MVEX = Tag(0x6d766578)
	MEHD = Tag(0x6d656864)
)

// MovieExtend marks a fragmented movie. Fragments themselves are not read.
type MovieExtend struct {
	Container
	header Slot[MovieExtendHeader]
	tracks Slots[TrackExtend]
}

func (*MovieExtend) Tag() Tag {
	return MVEX
}

func (m *MovieExtend) Unmarshal(c *Cursor) error {
	return beginContainer(c, MVEX, &m.Container)
}

func (m *MovieExtend) Header(c *Cursor) (Reference[MovieExtendHeader], bool, error) {
	return optional(&m.Container, &m.header, c)
}

func (m *MovieExtend) Tracks(c *Cursor) ([]Reference[TrackExtend], error) {
	return all(&m.Container, &m.tracks, c)
}

type MovieExtendHeader struct {
	Version          uint8
	Flags            uint32
	FragmentDuration uint64
	AtomPos
}

func (*MovieExtendHeader) Tag() Tag {
	return MEHD
}

func (m *MovieExtendHeader) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, MEHD, &m.AtomPos)
	m.Version = l.u8()
	m.Flags = l.u24()
	m.FragmentDuration = l.versioned(m.Version)
	return l.finish()
}
