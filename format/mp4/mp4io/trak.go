package mp4io

const TRAK = Tag(0x7472616b)

type Track struct {
	Container
	header Slot[TrackHeader]
	tapt   Slot[TrackAperture]
	matt   Slot[TrackMatte]
	edts   Slot[Edit]
	tref   Slot[TrackReference]
	txas   Slot[TrackExcludeAutoselect]
	load   Slot[TrackLoad]
	imap   Slot[TrackInputMap]
	media  Slot[Media]
	udta   Slot[UserData]
}

func (*Track) Tag() Tag {
	return TRAK
}

func (t *Track) Unmarshal(c *Cursor) error {
	return beginContainer(c, TRAK, &t.Container)
}

func (t *Track) Header(c *Cursor) (Reference[TrackHeader], error) {
	return required(&t.Container, &t.header, c)
}

func (t *Track) Aperture(c *Cursor) (Reference[TrackAperture], bool, error) {
	return optional(&t.Container, &t.tapt, c)
}

func (t *Track) Matte(c *Cursor) (Reference[TrackMatte], bool, error) {
	return optional(&t.Container, &t.matt, c)
}

func (t *Track) Edit(c *Cursor) (Reference[Edit], bool, error) {
	return optional(&t.Container, &t.edts, c)
}

func (t *Track) References(c *Cursor) (Reference[TrackReference], bool, error) {
	return optional(&t.Container, &t.tref, c)
}

func (t *Track) ExcludeAutoselect(c *Cursor) (Reference[TrackExcludeAutoselect], bool, error) {
	return optional(&t.Container, &t.txas, c)
}

func (t *Track) Load(c *Cursor) (Reference[TrackLoad], bool, error) {
	return optional(&t.Container, &t.load, c)
}

func (t *Track) InputMap(c *Cursor) (Reference[TrackInputMap], bool, error) {
	return optional(&t.Container, &t.imap, c)
}

func (t *Track) Media(c *Cursor) (Reference[Media], error) {
	return required(&t.Container, &t.media, c)
}

func (t *Track) UserData(c *Cursor) (Reference[UserData], bool, error) {
	return optional(&t.Container, &t.udta, c)
}
