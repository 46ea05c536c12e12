package mp4io

const STSC = Tag(0x73747363)

// SampleToChunk groups samples into chunks as runs of chunks with the same
// sample count. The last run extends over every remaining chunk.
type SampleToChunk struct {
	Version    uint8
	Flags      uint32
	EntryCount uint32
	Entries    []SampleToChunkEntry
	AtomPos
}

func (*SampleToChunk) Tag() Tag {
	return STSC
}

func (t *SampleToChunk) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, STSC, &t.AtomPos)
	t.Version = l.u8()
	t.Flags = l.u24()
	t.EntryCount = l.u32()
	t.Entries = readSeq(&l, "sample-to-chunk", LenSampleToChunkEntry, getSampleToChunkEntry)
	l.checkCount("sample-to-chunk", t.EntryCount, len(t.Entries))
	return l.finish()
}

// ChunkPos is where a sample sits in the chunk layout. Numbers are 1-based.
type ChunkPos struct {
	Chunk        uint32 // chunk holding the sample
	FirstSample  uint32 // first sample stored in that chunk
	SampleDescId uint32 // sample description used by the chunk
}

// ChunkOf places 1-based sample n. Runs with zero samples per chunk or a
// first chunk not past the previous run's are skipped.
func (t *SampleToChunk) ChunkOf(n uint32) (ChunkPos, bool) {
	if n == 0 {
		return ChunkPos{}, false
	}
	runFirst := uint64(1) // first sample of the current run
	for i, e := range t.Entries {
		if e.SamplesPerChunk == 0 || e.FirstChunk == 0 {
			continue
		}
		spc := uint64(e.SamplesPerChunk)
		last := i == len(t.Entries)-1
		var chunks uint64
		if !last {
			next := t.Entries[i+1].FirstChunk
			if next <= e.FirstChunk {
				continue
			}
			chunks = uint64(next - e.FirstChunk)
		}
		if last || uint64(n) < runFirst+chunks*spc {
			k := (uint64(n) - runFirst) / spc
			return ChunkPos{
				Chunk:        uint32(uint64(e.FirstChunk) + k), //nolint:gosec
				FirstSample:  uint32(runFirst + k*spc),         //nolint:gosec
				SampleDescId: e.SampleDescId,
			}, true
		}
		runFirst += chunks * spc
	}
	return ChunkPos{}, false
}

// LookupChunk returns the 1-based chunk holding sample n, or 0 when the
// table cannot place it.
func (t *SampleToChunk) LookupChunk(n uint32) uint32 {
	p, ok := t.ChunkOf(n)
	if !ok {
		return 0
	}
	return p.Chunk
}
