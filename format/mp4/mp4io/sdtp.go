package mp4io

// SampleDependency holds one flag byte per sample: is_leading,
// sample_depends_on, sample_is_depended_on and sample_has_redundancy, two
// bits each.
type SampleDependency struct {
	Version uint8
	Flags   uint32
	Entries []byte
	AtomPos
}

func (*SampleDependency) Tag() Tag {
	return SDTP
}

func (s *SampleDependency) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, SDTP, &s.AtomPos)
	s.Version = l.u8()
	s.Flags = l.u24()
	s.Entries = l.fill()
	return l.finish()
}

// Dependency returns the flag byte of 1-based sample n.
func (s *SampleDependency) Dependency(n uint32) (byte, bool) {
	if n == 0 || int(n) > len(s.Entries) {
		return 0, false
	}
	return s.Entries[n-1], true
}

// DependsOnOthers reports sample_depends_on == 1 for sample n.
func (s *SampleDependency) DependsOnOthers(n uint32) bool {
	b, ok := s.Dependency(n)
	return ok && b>>4&0x3 == 1
}
