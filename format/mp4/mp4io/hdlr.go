package mp4io

import "strings"

const HDLR = Tag(0x68646c72)

// Handler subtypes.
const (
	VIDE = Tag(0x76696465)
	SOUN = Tag(0x736f756e)
	HINT = Tag(0x68696e74)
	META = Tag(0x6d657461)
	TEXT = Tag(0x74657874)
	SUBT = Tag(0x73756274)
)

type HandlerRefer struct {
	Version       uint8
	Flags         uint32
	ComponentType Tag // "mhlr" or "dhlr" in QuickTime, zero in ISO files
	SubType       Tag // handler type: vide, soun, ...
	Reserved      [3]uint32
	Name          []byte
	AtomPos
}

func (*HandlerRefer) Tag() Tag {
	return HDLR
}

func (h *HandlerRefer) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, HDLR, &h.AtomPos)
	h.Version = l.u8()
	h.Flags = l.u24()
	h.ComponentType = l.tag()
	h.SubType = l.tag()
	for i := range h.Reserved {
		h.Reserved[i] = l.u32()
	}
	h.Name = l.fill()
	return l.finish()
}

// DisplayName returns Name as text. QuickTime writes a counted string and
// ISO a NUL-terminated one; both forms are accepted.
func (h *HandlerRefer) DisplayName() string {
	b := h.Name
	if len(b) > 0 && int(b[0]) == len(b)-1 && h.ComponentType != 0 {
		b = b[1:]
	}
	return strings.TrimRight(string(b), "\x00")
}
