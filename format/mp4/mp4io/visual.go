package mp4io

// VideoSampleEntry is the sample description layout used by vide tracks.
// Extension atoms after the fixed fields (avcC, hvcC, pasp, ...) are
// claimed by role like container children.
type VideoSampleEntry struct {
	sampleEntryHeader
	Version              uint16
	Revision             uint16
	Vendor               uint32
	TemporalQuality      uint32
	SpatialQuality       uint32
	Width                uint16
	Height               uint16
	HorizontalResolution Fixed32
	VerticalResolution   Fixed32
	DataSize             uint32
	FrameCount           uint16
	CompressorName       [32]byte
	Depth                uint16
	ColorTableId         int16
	Container
	avcC Slot[AVC1Conf]
	hvcC Slot[HV1Conf]
	pasp Slot[PixelAspect]
	btrt Slot[Bitrate]
	colr Slot[ColorParams]
}

func (v *VideoSampleEntry) Tag() Tag {
	return v.Format
}

func (v *VideoSampleEntry) Unmarshal(c *Cursor) error {
	l, tag := beginLeafAny(c, &v.AtomPos)
	v.read(&l, tag)
	v.Version = l.u16()
	v.Revision = l.u16()
	v.Vendor = l.u32()
	v.TemporalQuality = l.u32()
	v.SpatialQuality = l.u32()
	v.Width = l.u16()
	v.Height = l.u16()
	v.HorizontalResolution = l.fixed32()
	v.VerticalResolution = l.fixed32()
	v.DataSize = l.u32()
	v.FrameCount = l.u16()
	l.array(v.CompressorName[:])
	v.Depth = l.u16()
	v.ColorTableId = l.i16()
	if l.err != nil {
		return l.err
	}
	v.tag = tag
	if err := v.scanChildren(c, l.frame.End()); err != nil {
		return err
	}
	return l.finish()
}

// Compressor returns the counted compressor name.
func (v *VideoSampleEntry) Compressor() string {
	n := int(v.CompressorName[0])
	if n > len(v.CompressorName)-1 {
		n = len(v.CompressorName) - 1
	}
	return string(v.CompressorName[1 : 1+n])
}

func (v *VideoSampleEntry) AVCConfig(c *Cursor) (Reference[AVC1Conf], bool, error) {
	return optional(&v.Container, &v.avcC, c)
}

func (v *VideoSampleEntry) HEVCConfig(c *Cursor) (Reference[HV1Conf], bool, error) {
	return optional(&v.Container, &v.hvcC, c)
}

func (v *VideoSampleEntry) PixelAspect(c *Cursor) (Reference[PixelAspect], bool, error) {
	return optional(&v.Container, &v.pasp, c)
}

func (v *VideoSampleEntry) Bitrate(c *Cursor) (Reference[Bitrate], bool, error) {
	return optional(&v.Container, &v.btrt, c)
}

func (v *VideoSampleEntry) ColorParams(c *Cursor) (Reference[ColorParams], bool, error) {
	return optional(&v.Container, &v.colr, c)
}
