package mp4io

import "fmt"

const (
	MP4ESDescrTag          = 3
	MP4DecConfigDescrTag   = 4
	MP4DecSpecificDescrTag = 5
	MP4SLConfigDescrTag    = 6
)

const ESDS = Tag(0x65736473)

// ElemStreamDesc is the MPEG-4 elementary stream descriptor. Data keeps the
// raw descriptor tree; the decoder config fields are pulled out of it.
type ElemStreamDesc struct {
	Version    uint8
	Flags      uint32
	TrackId    uint16
	ObjectType uint8
	StreamType uint8
	MaxBitrate uint32
	AvgBitrate uint32
	DecConfig  []byte
	Data       []byte
	AtomPos
}

func (*ElemStreamDesc) Tag() Tag {
	return ESDS
}

func (esds *ElemStreamDesc) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, ESDS, &esds.AtomPos)
	esds.Version = l.u8()
	esds.Flags = l.u24()
	body := l.c.Position()
	esds.Data = l.fill()
	if err := l.finish(); err != nil {
		return err
	}
	if _, err := esds.parseDesc(esds.Data, body); err != nil {
		return parseErr("descriptor", body, err)
	}
	return nil
}

func (esds *ElemStreamDesc) parseDesc(b []byte, offset uint64) (n int, err error) {
	var hdrlen, datalen int
	var tag uint8
	if hdrlen, tag, datalen, err = esds.parseDescHdr(b, offset); err != nil {
		return
	}
	n += hdrlen
	if len(b) < n+datalen {
		return n, descTruncated("descriptor body", offset+uint64(n))
	}

	switch tag {
	case MP4ESDescrTag:
		if datalen < 3 {
			return n, descTruncated("ES descriptor", offset+uint64(n))
		}
		esds.TrackId = uint16(b[n])<<8 | uint16(b[n+1])
		flags, skip := b[n+2], 3
		if flags&0x80 != 0 { // stream dependence
			skip += 2
		}
		if flags&0x40 != 0 { // url
			if datalen <= skip {
				return n, descTruncated("ES descriptor url", offset+uint64(n+skip))
			}
			skip += 1 + int(b[n+skip])
		}
		if flags&0x20 != 0 { // ocr stream
			skip += 2
		}
		if datalen < skip {
			return n, descTruncated("ES descriptor", offset+uint64(n))
		}
		if _, err = esds.parseDesc(b[n+skip:n+datalen], offset+uint64(n+skip)); err != nil {
			return
		}

	case MP4DecConfigDescrTag:
		const size = 1 + 1 + 3 + 4 + 4
		if datalen < size {
			return n, descTruncated("decoder config descriptor", offset+uint64(n))
		}
		d := b[n:]
		esds.ObjectType = d[0]
		esds.StreamType = d[1] >> 2
		esds.MaxBitrate = uint32(d[5])<<24 | uint32(d[6])<<16 | uint32(d[7])<<8 | uint32(d[8])
		esds.AvgBitrate = uint32(d[9])<<24 | uint32(d[10])<<16 | uint32(d[11])<<8 | uint32(d[12])
		if datalen > size {
			if _, err = esds.parseDesc(b[n+size:n+datalen], offset+uint64(n+size)); err != nil {
				return
			}
		}

	case MP4DecSpecificDescrTag:
		esds.DecConfig = b[n : n+datalen]
	}

	n += datalen
	return
}

func (esds *ElemStreamDesc) parseLength(b []byte, offset uint64) (n int, length int, err error) {
	for n < 4 {
		if len(b) < n+1 {
			return n, 0, descTruncated("descriptor length", offset+uint64(n))
		}
		c := b[n]
		n++
		length = (length << 7) | (int(c) & 0x7f)
		if c&0x80 == 0 {
			break
		}
	}
	return
}

func (esds *ElemStreamDesc) parseDescHdr(b []byte, offset uint64) (n int, tag uint8, datalen int, err error) {
	if len(b) < n+1 {
		return n, 0, 0, descTruncated("descriptor tag", offset+uint64(n))
	}
	tag = b[n]
	n++
	var lenlen int
	if lenlen, datalen, err = esds.parseLength(b[n:], offset+uint64(n)); err != nil {
		return
	}
	n += lenlen
	return
}

func descTruncated(field string, offset uint64) error {
	return fmt.Errorf("%w: %s at offset %d", ErrTruncated, field, offset)
}
