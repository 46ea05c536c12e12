package mp4io

// Small fixed-layout atoms found inside sample entries and QuickTime tracks.

type PixelAspect struct {
	HSpacing uint32
	VSpacing uint32
	AtomPos
}

func (*PixelAspect) Tag() Tag {
	return PASP
}

func (p *PixelAspect) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, PASP, &p.AtomPos)
	p.HSpacing = l.u32()
	p.VSpacing = l.u32()
	return l.finish()
}

type Bitrate struct {
	BufferSize uint32
	MaxBitrate uint32
	AvgBitrate uint32
	AtomPos
}

func (*Bitrate) Tag() Tag {
	return BTRT
}

func (b *Bitrate) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, BTRT, &b.AtomPos)
	b.BufferSize = l.u32()
	b.MaxBitrate = l.u32()
	b.AvgBitrate = l.u32()
	return l.finish()
}

// Color parameter types.
const (
	NCLC = Tag(0x6e636c63)
	NCLX = Tag(0x6e636c78)
)

type ColorParams struct {
	ColorType Tag
	Primaries uint16
	Transfer  uint16
	Matrix    uint16
	FullRange bool   // nclx only
	Profile   []byte // ICC profile for prof and rICC
	AtomPos
}

func (*ColorParams) Tag() Tag {
	return COLR
}

func (p *ColorParams) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, COLR, &p.AtomPos)
	p.ColorType = l.tag()
	switch p.ColorType {
	case NCLC, NCLX:
		p.Primaries = l.u16()
		p.Transfer = l.u16()
		p.Matrix = l.u16()
		if p.ColorType == NCLX {
			p.FullRange = l.u8()&0x80 != 0
		}
	default:
		p.Profile = l.fill()
	}
	return l.finish()
}

// apertureDims is the shared body of clef, prof and enof.
type apertureDims struct {
	Version uint8
	Flags   uint32
	Width   Fixed32
	Height  Fixed32
	AtomPos
}

func (a *apertureDims) unmarshal(c *Cursor, tag Tag) error {
	l := beginLeaf(c, tag, &a.AtomPos)
	a.Version = l.u8()
	a.Flags = l.u24()
	a.Width = l.fixed32()
	a.Height = l.fixed32()
	return l.finish()
}

type CleanAperture struct {
	apertureDims
}

func (*CleanAperture) Tag() Tag {
	return CLEF
}

func (a *CleanAperture) Unmarshal(c *Cursor) error {
	return a.unmarshal(c, CLEF)
}

type ProductionAperture struct {
	apertureDims
}

func (*ProductionAperture) Tag() Tag {
	return PROF
}

func (a *ProductionAperture) Unmarshal(c *Cursor) error {
	return a.unmarshal(c, PROF)
}

type EncodedPixels struct {
	apertureDims
}

func (*EncodedPixels) Tag() Tag {
	return ENOF
}

func (a *EncodedPixels) Unmarshal(c *Cursor) error {
	return a.unmarshal(c, ENOF)
}

type TrackLoad struct {
	PreloadStartTime uint32
	PreloadDuration  uint32
	PreloadFlags     uint32
	DefaultHints     uint32
	AtomPos
}

func (*TrackLoad) Tag() Tag {
	return LOAD
}

func (t *TrackLoad) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, LOAD, &t.AtomPos)
	t.PreloadStartTime = l.u32()
	t.PreloadDuration = l.u32()
	t.PreloadFlags = l.u32()
	t.DefaultHints = l.u32()
	return l.finish()
}

type ReferenceMovieDataRate struct {
	Flags    uint32
	DataRate uint32 // bits per second / 10
	AtomPos
}

func (*ReferenceMovieDataRate) Tag() Tag {
	return RMDR
}

func (r *ReferenceMovieDataRate) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, RMDR, &r.AtomPos)
	r.Flags = l.u32()
	r.DataRate = l.u32()
	return l.finish()
}

type ReferenceMovieQuality struct {
	Quality uint32
	AtomPos
}

func (*ReferenceMovieQuality) Tag() Tag {
	return RMQU
}

func (r *ReferenceMovieQuality) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, RMQU, &r.AtomPos)
	r.Quality = l.u32()
	return l.finish()
}
