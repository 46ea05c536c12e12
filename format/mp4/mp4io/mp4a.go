package mp4io

import "math"

const WAVE = Tag(0x77617665)

// AudioSampleEntry is the sample description layout used by soun tracks,
// in its QuickTime versions 0, 1 and 2.
type AudioSampleEntry struct {
	sampleEntryHeader
	Version          uint16
	Revision         uint16
	Vendor           uint32
	NumberOfChannels uint16
	SampleSize       uint16
	CompressionId    int16
	PacketSize       uint16
	SampleRate       Fixed32

	// version 1
	SamplesPerPacket uint32
	BytesPerPacket   uint32
	BytesPerFrame    uint32
	BytesPerSample   uint32

	// version 2
	SizeOfStructOnly      uint32
	AudioSampleRate       uint64 // float64 bits
	NumAudioChannels      uint32
	Always7F000000        uint32
	ConstBitsPerChannel   uint32
	FormatSpecificFlags   uint32
	ConstBytesPerAudioPkt uint32
	ConstLPCMFramesPerPkt uint32

	Container
	esds Slot[ElemStreamDesc]
	wave Slot[SoundWave]
	btrt Slot[Bitrate]
}

func (a *AudioSampleEntry) Tag() Tag {
	return a.Format
}

func (a *AudioSampleEntry) Unmarshal(c *Cursor) error {
	l, tag := beginLeafAny(c, &a.AtomPos)
	a.read(&l, tag)
	a.Version = l.u16()
	a.Revision = l.u16()
	a.Vendor = l.u32()
	a.NumberOfChannels = l.u16()
	a.SampleSize = l.u16()
	a.CompressionId = l.i16()
	a.PacketSize = l.u16()
	a.SampleRate = l.fixed32()
	if l.err != nil {
		return l.err
	}
	switch a.Version {
	case 0:
	case 1:
		a.SamplesPerPacket = l.u32()
		a.BytesPerPacket = l.u32()
		a.BytesPerFrame = l.u32()
		a.BytesPerSample = l.u32()
	case 2:
		a.SizeOfStructOnly = l.u32()
		a.AudioSampleRate = l.u64()
		a.NumAudioChannels = l.u32()
		a.Always7F000000 = l.u32()
		a.ConstBitsPerChannel = l.u32()
		a.FormatSpecificFlags = l.u32()
		a.ConstBytesPerAudioPkt = l.u32()
		a.ConstLPCMFramesPerPkt = l.u32()
	default:
		return &UnknownVariantError{Union: "sound sample description version", Offset: a.Offset, Tag: Tag(a.Version)}
	}
	if l.err != nil {
		return l.err
	}
	a.tag = tag
	if err := a.scanChildren(c, l.frame.End()); err != nil {
		return err
	}
	return l.finish()
}

// Rate returns the sample rate in Hz.
func (a *AudioSampleEntry) Rate() float64 {
	if a.Version == 2 {
		return math.Float64frombits(a.AudioSampleRate)
	}
	return a.SampleRate.Float()
}

// Channels returns the channel count.
func (a *AudioSampleEntry) Channels() uint32 {
	if a.Version == 2 {
		return a.NumAudioChannels
	}
	return uint32(a.NumberOfChannels)
}

func (a *AudioSampleEntry) ElemStreamDesc(c *Cursor) (Reference[ElemStreamDesc], bool, error) {
	return optional(&a.Container, &a.esds, c)
}

func (a *AudioSampleEntry) Wave(c *Cursor) (Reference[SoundWave], bool, error) {
	return optional(&a.Container, &a.wave, c)
}

func (a *AudioSampleEntry) Bitrate(c *Cursor) (Reference[Bitrate], bool, error) {
	return optional(&a.Container, &a.btrt, c)
}
