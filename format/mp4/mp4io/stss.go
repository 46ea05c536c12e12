package mp4io

import "sort"

const (
	STSS = Tag(0x73747373)
	STPS = Tag(0x73747073)
)

// SyncSample lists the 1-based numbers of random access samples in
// increasing order.
type SyncSample struct {
	Version    uint8
	Flags      uint32
	EntryCount uint32
	Entries    []uint32
	AtomPos
}

func (*SyncSample) Tag() Tag {
	return STSS
}

func (s *SyncSample) Unmarshal(c *Cursor) error {
	return s.unmarshal(c, STSS)
}

func (s *SyncSample) unmarshal(c *Cursor, tag Tag) error {
	l := beginLeaf(c, tag, &s.AtomPos)
	s.Version = l.u8()
	s.Flags = l.u24()
	s.EntryCount = l.u32()
	s.Entries = readSeq(&l, "sync samples", 4, (*leaf).u32)
	l.checkCount("sync samples", s.EntryCount, len(s.Entries))
	return l.finish()
}

// IsSync reports whether sample n is listed.
func (s *SyncSample) IsSync(n uint32) bool {
	i := sort.Search(len(s.Entries), func(i int) bool { return s.Entries[i] >= n })
	return i < len(s.Entries) && s.Entries[i] == n
}

// SyncBefore returns the last listed sample at or before n.
func (s *SyncSample) SyncBefore(n uint32) (uint32, bool) {
	i := sort.Search(len(s.Entries), func(i int) bool { return s.Entries[i] > n })
	if i == 0 {
		return 0, false
	}
	return s.Entries[i-1], true
}

// PartialSyncSample is the QuickTime stps list of partial sync samples.
type PartialSyncSample struct {
	SyncSample
}

func (*PartialSyncSample) Tag() Tag {
	return STPS
}

func (s *PartialSyncSample) Unmarshal(c *Cursor) error {
	return s.unmarshal(c, STPS)
}
