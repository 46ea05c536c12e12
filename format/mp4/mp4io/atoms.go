package mp4io

const MOOV = Tag(0x6d6f6f76)

// Movie is the moov container: the movie header plus every track.
type Movie struct {
	Container
	header Slot[MovieHeader]
	clip   Slot[Clipping]
	tracks Slots[Track]
	udta   Slot[UserData]
	ctab   Slot[ColorTable]
	cmov   Slot[CompressedMovie]
	rmra   Slot[ReferenceMovie]
	mvex   Slot[MovieExtend]
}

func (*Movie) Tag() Tag {
	return MOOV
}

func (m *Movie) Unmarshal(c *Cursor) error {
	return beginContainer(c, MOOV, &m.Container)
}

func (m *Movie) Header(c *Cursor) (Reference[MovieHeader], error) {
	return required(&m.Container, &m.header, c)
}

func (m *Movie) Clipping(c *Cursor) (Reference[Clipping], bool, error) {
	return optional(&m.Container, &m.clip, c)
}

// Tracks returns every trak in file order.
func (m *Movie) Tracks(c *Cursor) ([]Reference[Track], error) {
	return all(&m.Container, &m.tracks, c)
}

func (m *Movie) UserData(c *Cursor) (Reference[UserData], bool, error) {
	return optional(&m.Container, &m.udta, c)
}

func (m *Movie) ColorTable(c *Cursor) (Reference[ColorTable], bool, error) {
	return optional(&m.Container, &m.ctab, c)
}

func (m *Movie) CompressedMovie(c *Cursor) (Reference[CompressedMovie], bool, error) {
	return optional(&m.Container, &m.cmov, c)
}

func (m *Movie) ReferenceMovie(c *Cursor) (Reference[ReferenceMovie], bool, error) {
	return optional(&m.Container, &m.rmra, c)
}

func (m *Movie) Extends(c *Cursor) (Reference[MovieExtend], bool, error) {
	return optional(&m.Container, &m.mvex, c)
}

// TimeToSampleEntry is one stts run: Count samples of Duration each.
type TimeToSampleEntry struct {
	Count    uint32
	Duration uint32
}

const LenTimeToSampleEntry = 8

func getTimeToSampleEntry(l *leaf) (e TimeToSampleEntry) {
	e.Count = l.u32()
	e.Duration = l.u32()
	return
}

// SampleToChunkEntry is one stsc run. Every chunk from FirstChunk up to the
// next entry's FirstChunk holds SamplesPerChunk samples.
type SampleToChunkEntry struct {
	FirstChunk      uint32
	SamplesPerChunk uint32
	SampleDescId    uint32
}

const LenSampleToChunkEntry = 12

func getSampleToChunkEntry(l *leaf) (e SampleToChunkEntry) {
	e.FirstChunk = l.u32()
	e.SamplesPerChunk = l.u32()
	e.SampleDescId = l.u32()
	return
}

// CompositionOffsetEntry is one ctts run.
type CompositionOffsetEntry struct {
	Count  uint32
	Offset int32
}

const LenCompositionOffsetEntry = 8

func getCompositionOffsetEntry(l *leaf) (e CompositionOffsetEntry) {
	e.Count = l.u32()
	e.Offset = l.i32()
	return
}
