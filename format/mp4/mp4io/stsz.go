package mp4io

const STSZ = Tag(0x7374737a)

// SampleSize lists sample sizes. A non-zero SampleSize means every sample
// has that size and no table follows.
type SampleSize struct {
	Version     uint8
	Flags       uint32
	SampleSize  uint32
	SampleCount uint32
	Entries     []uint32
	AtomPos
}

func (*SampleSize) Tag() Tag {
	return STSZ
}

func (s *SampleSize) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, STSZ, &s.AtomPos)
	s.Version = l.u8()
	s.Flags = l.u24()
	s.SampleSize = l.u32()
	s.SampleCount = l.u32()
	if s.SampleSize == 0 {
		s.Entries = readSeq(&l, "sample sizes", 4, (*leaf).u32)
		l.checkCount("sample sizes", s.SampleCount, len(s.Entries))
	}
	return l.finish()
}

// Size returns the size of 1-based sample n. A fixed sample size applies
// to every n.
func (s *SampleSize) Size(n uint32) (uint32, bool) {
	if s.SampleSize != 0 {
		return s.SampleSize, true
	}
	if n == 0 || n > s.SampleCount || int(n) > len(s.Entries) {
		return 0, false
	}
	return s.Entries[n-1], true
}

// Span sums the sizes of samples first through last-1, the bytes stored
// ahead of sample last when both share a chunk.
func (s *SampleSize) Span(first, last uint32) (uint64, bool) {
	if first == 0 || last < first || last > s.SampleCount+1 {
		return 0, false
	}
	if s.SampleSize != 0 {
		return uint64(last-first) * uint64(s.SampleSize), true
	}
	if int(last-1) > len(s.Entries) {
		return 0, false
	}
	var n uint64
	for _, v := range s.Entries[first-1 : last-1] {
		n += uint64(v)
	}
	return n, true
}
