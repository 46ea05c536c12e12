package mp4io

const (
	ALIS = Tag(0x616c6973)
	RSRC = Tag(0x72737263)
	URL  = Tag(0x75726c20)
	URN  = Tag(0x75726e20)
)

// DataSelfContained is the data entry flag meaning the media lives in the
// same file and the entry carries no location.
const DataSelfContained = 0x1

func isDataEntry(t Tag) bool {
	switch t {
	case ALIS, RSRC, URL, URN:
		return true
	}
	return false
}

// DataEntry is any data reference variant. Alias and resource records keep
// their bytes opaque; url and urn entries decode their strings.
type DataEntry struct {
	Kind     Tag
	Version  uint8
	Flags    uint32
	Name     string // urn only
	Location string
	Data     []byte // alis and rsrc
	AtomPos
}

func (d *DataEntry) Tag() Tag {
	return d.Kind
}

func (d *DataEntry) Unmarshal(c *Cursor) error {
	l, tag := beginLeafAny(c, &d.AtomPos)
	if l.err == nil && !isDataEntry(tag) {
		return &UnknownVariantError{Union: "data reference", Offset: l.frame.Offset, Tag: tag}
	}
	d.Kind = tag
	d.Version = l.u8()
	d.Flags = l.u24()
	switch {
	case tag == ALIS || tag == RSRC:
		d.Data = l.fill()
	case d.Flags&DataSelfContained != 0:
	case tag == URN:
		d.Name = l.cString()
		if l.remaining() > 0 {
			d.Location = l.cString()
		}
	default:
		d.Location = l.cString()
	}
	return l.finish()
}

// SelfContained reports whether the media data is in the same file.
func (d *DataEntry) SelfContained() bool {
	return d.Flags&DataSelfContained != 0
}

// Resolve parses the referenced entry.
func (r DataRef) Resolve(c *Cursor) (*DataEntry, error) {
	return Resolve(r.Ref, c)
}
