package mp4io

import "fmt"

const STSD = Tag(0x73747364)

// Common sample entry formats.
const (
	AVC1 = Tag(0x61766331)
	AVC3 = Tag(0x61766333)
	HEV1 = Tag(0x68657631)
	HVC1 = Tag(0x68766331)
	MJPG = Tag(0x6d6a7067)
	MP4A = Tag(0x6d703461)
	MP4V = Tag(0x6d703476)
)

// SampleEntryRef locates one sample description entry. Its layout depends
// on the media handler, so it is decoded through SampleDesc.Describe.
type SampleEntryRef struct {
	Format Tag
	Frame  Frame
}

type SampleDesc struct {
	Version    uint8
	Flags      uint32
	EntryCount uint32
	Entries    []SampleEntryRef
	AtomPos
}

func (*SampleDesc) Tag() Tag {
	return STSD
}

func (s *SampleDesc) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, STSD, &s.AtomPos)
	s.Version = l.u8()
	s.Flags = l.u24()
	s.EntryCount = l.u32()
	s.Entries = readSeq(&l, "sample descriptions", 0, func(l *leaf) (e SampleEntryRef) {
		e.Frame, e.Format = l.child()
		return
	})
	l.checkCount("sample descriptions", s.EntryCount, len(s.Entries))
	return l.finish()
}

// SampleDescription is a decoded sample entry: *VideoSampleEntry or
// *AudioSampleEntry.
type SampleDescription interface {
	Atom
	DataReferenceIndex() uint16
}

// Describe decodes entry i (0-based) according to the media handler type.
func (s *SampleDesc) Describe(i int, handler Tag, c *Cursor) (SampleDescription, error) {
	if i < 0 || i >= len(s.Entries) {
		return nil, fmt.Errorf("%w: sample description %d of %d", ErrIndexOutOfRange, i, len(s.Entries))
	}
	e := s.Entries[i]
	var d SampleDescription
	switch handler {
	case VIDE:
		d = &VideoSampleEntry{}
	case SOUN:
		d = &AudioSampleEntry{}
	default:
		return nil, &UnknownVariantError{Union: "sample description handler", Offset: e.Frame.Offset, Tag: handler}
	}
	if err := c.SeekAbsolute(e.Frame.Offset); err != nil {
		return nil, err
	}
	if err := d.Unmarshal(c); err != nil {
		return nil, parseErr(e.Format.String(), e.Frame.Offset, err)
	}
	return d, nil
}

// sampleEntryHeader is the part shared by every sample entry.
type sampleEntryHeader struct {
	Format     Tag
	Reserved   [6]byte
	DataRefIdx uint16
}

func (h *sampleEntryHeader) read(l *leaf, tag Tag) {
	h.Format = tag
	l.array(h.Reserved[:])
	h.DataRefIdx = l.u16()
}

func (h *sampleEntryHeader) DataReferenceIndex() uint16 {
	return h.DataRefIdx
}
