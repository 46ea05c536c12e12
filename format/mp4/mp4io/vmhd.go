package mp4io

const VMHD = Tag(0x766d6864)

type VideoMediaInfo struct {
	Version      uint8
	Flags        uint32
	GraphicsMode uint16
	Opcolor      [3]uint16
	AtomPos
}

func (*VideoMediaInfo) Tag() Tag {
	return VMHD
}

func (v *VideoMediaInfo) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, VMHD, &v.AtomPos)
	v.Version = l.u8()
	v.Flags = l.u24()
	v.GraphicsMode = l.u16()
	for i := range v.Opcolor {
		v.Opcolor[i] = l.u16()
	}
	return l.finish()
}
