package mp4io

const MINF = Tag(0x6d696e66)

type MediaInfo struct {
	Container
	video   Slot[VideoMediaInfo]
	sound   Slot[SoundMediaInfo]
	handler Slot[HandlerRefer]
	base    Slot[BaseMediaInfo]
	data    Slot[DataInfo]
	sample  Slot[SampleTable]
}

func (*MediaInfo) Tag() Tag {
	return MINF
}

func (m *MediaInfo) Unmarshal(c *Cursor) error {
	return beginContainer(c, MINF, &m.Container)
}

func (m *MediaInfo) Video(c *Cursor) (Reference[VideoMediaInfo], bool, error) {
	return optional(&m.Container, &m.video, c)
}

func (m *MediaInfo) Sound(c *Cursor) (Reference[SoundMediaInfo], bool, error) {
	return optional(&m.Container, &m.sound, c)
}

// Handler is the data handler; QuickTime files carry one here next to the
// media handler in mdia.
func (m *MediaInfo) Handler(c *Cursor) (Reference[HandlerRefer], bool, error) {
	return optional(&m.Container, &m.handler, c)
}

func (m *MediaInfo) Base(c *Cursor) (Reference[BaseMediaInfo], bool, error) {
	return optional(&m.Container, &m.base, c)
}

func (m *MediaInfo) Data(c *Cursor) (Reference[DataInfo], bool, error) {
	return optional(&m.Container, &m.data, c)
}

func (m *MediaInfo) SampleTable(c *Cursor) (Reference[SampleTable], bool, error) {
	return optional(&m.Container, &m.sample, c)
}
