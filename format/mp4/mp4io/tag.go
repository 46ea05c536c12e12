package mp4io

import (
	"fmt"

	"github.com/ugparu/mp4atom/utils/bits/pio"
)

// Tag is a four-byte atom type. Unknown tags are legal and round-trip.
type Tag uint32

func StringToTag(tag string) Tag {
	var b [4]byte
	copy(b[:], tag)
	return Tag(pio.U32BE(b[:]))
}

// Bytes returns the raw tag bytes.
func (t Tag) Bytes() (b [4]byte) {
	pio.PutU32BE(b[:], uint32(t))
	return
}

// String renders the tag as a FourCC when it is printable ASCII.
func (t Tag) String() string {
	b := t.Bytes()
	for _, ch := range b {
		if ch < 0x20 || ch > 0x7e {
			return fmt.Sprintf("0x%08x", uint32(t))
		}
	}
	return string(b[:])
}

// Top-level and QuickTime-only atoms that have no file of their own.
const (
	FREE = Tag(0x66726565)
	SKIP = Tag(0x736b6970)
	WIDE = Tag(0x77696465)
	UDTA = Tag(0x75647461)
	CMOV = Tag(0x636d6f76)
	TREF = Tag(0x74726566)
	TXAS = Tag(0x74786173)
	LOAD = Tag(0x6c6f6164)
	IMAP = Tag(0x696d6170)
	GMHD = Tag(0x676d6864)
	STSH = Tag(0x73747368)
	SGPD = Tag(0x73677064)
	SBGP = Tag(0x73626770)
	SDTP = Tag(0x73647470)
	CRGN = Tag(0x6372676e)
	KMAT = Tag(0x6b6d6174)
	CLEF = Tag(0x636c6566)
	PROF = Tag(0x70726f66)
	ENOF = Tag(0x656e6f66)
	RDRF = Tag(0x72647266)
	RMDR = Tag(0x726d6472)
	RMCS = Tag(0x726d6373)
	RMVC = Tag(0x726d7663)
	RMCD = Tag(0x726d6364)
	RMQU = Tag(0x726d7175)
	PASP = Tag(0x70617370)
	BTRT = Tag(0x62747274)
	COLR = Tag(0x636f6c72)
)

var tagNames = map[Tag]string{
	FTYP: "file type",
	MOOV: "movie",
	MDAT: "media data",
	FREE: "free space",
	SKIP: "skip",
	WIDE: "wide",
	MVHD: "movie header",
	TRAK: "track",
	TKHD: "track header",
	EDTS: "edit",
	ELST: "edit list",
	MDIA: "media",
	MDHD: "media header",
	ELNG: "extended language",
	HDLR: "handler reference",
	MINF: "media information",
	VMHD: "video media header",
	SMHD: "sound media header",
	GMHD: "base media information header",
	DINF: "data information",
	DREF: "data reference",
	ALIS: "alias data reference",
	RSRC: "resource data reference",
	URL:  "url data reference",
	URN:  "urn data reference",
	STBL: "sample table",
	STSD: "sample description",
	STTS: "time-to-sample",
	CTTS: "composition offset",
	CSLG: "composition shift least greatest",
	STSS: "sync sample",
	STPS: "partial sync sample",
	STSC: "sample-to-chunk",
	STSZ: "sample size",
	STCO: "chunk offset",
	CO64: "64-bit chunk offset",
	STSH: "shadow sync",
	SGPD: "sample group description",
	SBGP: "sample-to-group",
	SDTP: "sample dependency flags",
	UDTA: "user data",
	CLIP: "clipping",
	CRGN: "clipping region",
	CTAB: "color table",
	CMOV: "compressed movie",
	RMRA: "reference movie",
	RMDA: "reference movie descriptor",
	TAPT: "track aperture mode dimensions",
	CLEF: "clean aperture dimensions",
	PROF: "production aperture dimensions",
	ENOF: "encoded pixels dimensions",
	MATT: "track matte",
	KMAT: "compressed matte",
	TREF: "track reference",
	TXAS: "track exclude from autoselection",
	LOAD: "track loading settings",
	IMAP: "track input map",
	MVEX: "movie extends",
	MEHD: "movie extends header",
	TREX: "track extends",
	AVCC: "avc decoder configuration",
	HVCC: "hevc decoder configuration",
	ESDS: "elementary stream descriptor",
	PASP: "pixel aspect ratio",
	BTRT: "bitrate",
	COLR: "color parameters",
}

// TagName describes the role of a known atom type, or returns "" for
// tags this package has no definition for.
func TagName(t Tag) string {
	return tagNames[t]
}
