package mp4io

const (
	STCO = Tag(0x7374636f)
	CO64 = Tag(0x636f3634)
)

// ChunkOffset holds absolute file offsets of chunks. 32-bit stco values
// are widened on read so both variants share one lookup.
type ChunkOffset struct {
	Version    uint8
	Flags      uint32
	EntryCount uint32
	Entries    []uint64
	AtomPos
}

func (*ChunkOffset) Tag() Tag {
	return STCO
}

func (t *ChunkOffset) Unmarshal(c *Cursor) error {
	return t.unmarshal(c, STCO, 4, func(l *leaf) uint64 { return uint64(l.u32()) })
}

func (t *ChunkOffset) unmarshal(c *Cursor, tag Tag, size uint64, read func(*leaf) uint64) error {
	l := beginLeaf(c, tag, &t.AtomPos)
	t.Version = l.u8()
	t.Flags = l.u24()
	t.EntryCount = l.u32()
	t.Entries = readSeq(&l, "chunk offsets", size, read)
	l.checkCount("chunk offsets", t.EntryCount, len(t.Entries))
	return l.finish()
}

// Offset returns entry i of the table, counting from 0.
func (t *ChunkOffset) Offset(i int) (uint64, bool) {
	if i < 0 || i >= len(t.Entries) {
		return 0, false
	}
	return t.Entries[i], true
}

// ChunkCount is the number of chunks in the table.
func (t *ChunkOffset) ChunkCount() int {
	return len(t.Entries)
}

// ChunkOffset64 is the co64 form of ChunkOffset.
type ChunkOffset64 struct {
	ChunkOffset
}

func (*ChunkOffset64) Tag() Tag {
	return CO64
}

func (t *ChunkOffset64) Unmarshal(c *Cursor) error {
	return t.unmarshal(c, CO64, 8, (*leaf).u64)
}
