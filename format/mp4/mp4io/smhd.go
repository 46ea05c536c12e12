package mp4io

const SMHD = Tag(0x736d6864)

type SoundMediaInfo struct {
	Version  uint8
	Flags    uint32
	Balance  Fixed16
	Reserved uint16
	AtomPos
}

func (*SoundMediaInfo) Tag() Tag {
	return SMHD
}

func (s *SoundMediaInfo) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, SMHD, &s.AtomPos)
	s.Version = l.u8()
	s.Flags = l.u24()
	s.Balance = l.fixed16()
	s.Reserved = l.u16()
	return l.finish()
}
