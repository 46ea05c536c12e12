package mp4io

// QuickTime movie and track containers that carry little beyond their
// children.
const (
	CLIP = Tag(0x636c6970)
	CTAB = Tag(0x63746162)
	RMRA = Tag(0x726d7261)
	RMDA = Tag(0x726d6461)
	TAPT = Tag(0x74617074)
	MATT = Tag(0x6d617474)
)

type Clipping struct {
	Container
	region Slot[ClippingRegion]
}

func (*Clipping) Tag() Tag {
	return CLIP
}

func (cl *Clipping) Unmarshal(c *Cursor) error {
	return beginContainer(c, CLIP, &cl.Container)
}

func (cl *Clipping) Region(c *Cursor) (Reference[ClippingRegion], bool, error) {
	return optional(&cl.Container, &cl.region, c)
}

type TrackMatte struct {
	Container
	matte Slot[CompressedMatte]
}

func (*TrackMatte) Tag() Tag {
	return MATT
}

func (m *TrackMatte) Unmarshal(c *Cursor) error {
	return beginContainer(c, MATT, &m.Container)
}

func (m *TrackMatte) Matte(c *Cursor) (Reference[CompressedMatte], bool, error) {
	return optional(&m.Container, &m.matte, c)
}

type TrackAperture struct {
	Container
	clean      Slot[CleanAperture]
	production Slot[ProductionAperture]
	encoded    Slot[EncodedPixels]
}

func (*TrackAperture) Tag() Tag {
	return TAPT
}

func (a *TrackAperture) Unmarshal(c *Cursor) error {
	return beginContainer(c, TAPT, &a.Container)
}

func (a *TrackAperture) Clean(c *Cursor) (Reference[CleanAperture], bool, error) {
	return optional(&a.Container, &a.clean, c)
}

func (a *TrackAperture) Production(c *Cursor) (Reference[ProductionAperture], bool, error) {
	return optional(&a.Container, &a.production, c)
}

func (a *TrackAperture) Encoded(c *Cursor) (Reference[EncodedPixels], bool, error) {
	return optional(&a.Container, &a.encoded, c)
}

// ReferenceMovie lists alternate movies to pick from by data rate,
// language, and so on.
type ReferenceMovie struct {
	Container
	descriptors Slots[ReferenceMovieDescriptor]
}

func (*ReferenceMovie) Tag() Tag {
	return RMRA
}

func (r *ReferenceMovie) Unmarshal(c *Cursor) error {
	return beginContainer(c, RMRA, &r.Container)
}

func (r *ReferenceMovie) Descriptors(c *Cursor) ([]Reference[ReferenceMovieDescriptor], error) {
	return all(&r.Container, &r.descriptors, c)
}

type ReferenceMovieDescriptor struct {
	Container
	dataRef   Slot[ReferenceMovieDataRef]
	dataRate  Slot[ReferenceMovieDataRate]
	cpuRating Slot[ReferenceMovieCPURating]
	version   Slot[ReferenceMovieVersionCheck]
	component Slot[ReferenceMovieComponentCheck]
	quality   Slot[ReferenceMovieQuality]
}

func (*ReferenceMovieDescriptor) Tag() Tag {
	return RMDA
}

func (r *ReferenceMovieDescriptor) Unmarshal(c *Cursor) error {
	return beginContainer(c, RMDA, &r.Container)
}

func (r *ReferenceMovieDescriptor) DataRef(c *Cursor) (Reference[ReferenceMovieDataRef], bool, error) {
	return optional(&r.Container, &r.dataRef, c)
}

func (r *ReferenceMovieDescriptor) DataRate(c *Cursor) (Reference[ReferenceMovieDataRate], bool, error) {
	return optional(&r.Container, &r.dataRate, c)
}

func (r *ReferenceMovieDescriptor) CPURating(c *Cursor) (Reference[ReferenceMovieCPURating], bool, error) {
	return optional(&r.Container, &r.cpuRating, c)
}

func (r *ReferenceMovieDescriptor) VersionCheck(c *Cursor) (Reference[ReferenceMovieVersionCheck], bool, error) {
	return optional(&r.Container, &r.version, c)
}

func (r *ReferenceMovieDescriptor) ComponentCheck(c *Cursor) (Reference[ReferenceMovieComponentCheck], bool, error) {
	return optional(&r.Container, &r.component, c)
}

func (r *ReferenceMovieDescriptor) Quality(c *Cursor) (Reference[ReferenceMovieQuality], bool, error) {
	return optional(&r.Container, &r.quality, c)
}

// ColorTable is a QuickTime ctab: Colors holds (value, red, green, blue)
// quadruples.
type ColorTable struct {
	Seed   uint32
	Flags  uint16
	Size   uint16
	Colors []uint16
	AtomPos
}

func (*ColorTable) Tag() Tag {
	return CTAB
}

func (t *ColorTable) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, CTAB, &t.AtomPos)
	t.Seed = l.u32()
	t.Flags = l.u16()
	t.Size = l.u16()
	t.Colors = readSeq(&l, "colors", 2, (*leaf).u16)
	return l.finish()
}
