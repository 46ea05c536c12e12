package mp4io

type ShadowSyncEntry struct {
	ShadowedSample uint32
	SyncSample     uint32
}

// ShadowSync pairs samples with alternative sync samples that can stand in
// for them when seeking.
type ShadowSync struct {
	Version    uint8
	Flags      uint32
	EntryCount uint32
	Entries    []ShadowSyncEntry
	AtomPos
}

func (*ShadowSync) Tag() Tag {
	return STSH
}

func (s *ShadowSync) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, STSH, &s.AtomPos)
	s.Version = l.u8()
	s.Flags = l.u24()
	s.EntryCount = l.u32()
	s.Entries = readSeq(&l, "shadow sync", 8, func(l *leaf) ShadowSyncEntry {
		return ShadowSyncEntry{ShadowedSample: l.u32(), SyncSample: l.u32()}
	})
	l.checkCount("shadow sync", s.EntryCount, len(s.Entries))
	return l.finish()
}
