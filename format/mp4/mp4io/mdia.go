package mp4io

const MDIA = Tag(0x6d646961)

type Media struct {
	Container
	header  Slot[MediaHeader]
	elng    Slot[ExtendedLanguage]
	handler Slot[HandlerRefer]
	info    Slot[MediaInfo]
	udta    Slot[UserData]
}

func (*Media) Tag() Tag {
	return MDIA
}

func (m *Media) Unmarshal(c *Cursor) error {
	return beginContainer(c, MDIA, &m.Container)
}

func (m *Media) Header(c *Cursor) (Reference[MediaHeader], error) {
	return required(&m.Container, &m.header, c)
}

func (m *Media) ExtendedLanguage(c *Cursor) (Reference[ExtendedLanguage], bool, error) {
	return optional(&m.Container, &m.elng, c)
}

func (m *Media) Handler(c *Cursor) (Reference[HandlerRefer], bool, error) {
	return optional(&m.Container, &m.handler, c)
}

func (m *Media) Info(c *Cursor) (Reference[MediaInfo], bool, error) {
	return optional(&m.Container, &m.info, c)
}

func (m *Media) UserData(c *Cursor) (Reference[UserData], bool, error) {
	return optional(&m.Container, &m.udta, c)
}
