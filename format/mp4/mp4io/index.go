package mp4io

import "fmt"

// SampleIndex bundles the tables that place the samples of one track.
// Lookups are pure: no I/O happens after NewSampleIndex returns.
type SampleIndex struct {
	TimeToSample      *TimeToSample
	SampleToChunk     *SampleToChunk
	SampleSize        *SampleSize
	ChunkOffset       *ChunkOffset
	CompositionOffset *CompositionOffset // nil when the track has no ctts
	SyncSample        *SyncSample        // nil means every sample is a sync sample
}

// NewSampleIndex resolves the sample tables of stbl. stts, stsc, stsz and
// one of stco or co64 must be present.
func NewSampleIndex(stbl *SampleTable, c *Cursor) (*SampleIndex, error) {
	x := &SampleIndex{}
	var err error
	if x.TimeToSample, err = requireTable(stbl, c, stbl.TimeToSample); err != nil {
		return nil, err
	}
	if x.SampleToChunk, err = requireTable(stbl, c, stbl.SampleToChunk); err != nil {
		return nil, err
	}
	if x.SampleSize, err = requireTable(stbl, c, stbl.SampleSize); err != nil {
		return nil, err
	}
	if x.ChunkOffset, err = stbl.ChunkOffsets(c); err != nil {
		return nil, err
	}
	if x.CompositionOffset, err = optionalTable(c, stbl.CompositionOffset); err != nil {
		return nil, err
	}
	if x.SyncSample, err = optionalTable(c, stbl.SyncSample); err != nil {
		return nil, err
	}
	return x, nil
}

func requireTable[T any, PT atomPtr[T]](
	stbl *SampleTable, c *Cursor, find func(*Cursor) (Reference[T], bool, error),
) (*T, error) {
	ref, ok, err := find(c)
	if err != nil {
		return nil, err
	}
	if !ok {
		tag := tagOf[T, PT]()
		return nil, fmt.Errorf("%w: %q (%s) in %q at offset %d",
			ErrMissingRequiredChild, tag, TagName(tag), STBL, stbl.Offset)
	}
	return Resolve[T, PT](ref, c)
}

func optionalTable[T any, PT atomPtr[T]](c *Cursor, find func(*Cursor) (Reference[T], bool, error)) (*T, error) {
	ref, ok, err := find(c)
	if err != nil || !ok {
		return nil, err
	}
	return Resolve[T, PT](ref, c)
}

// SampleLocation is everything the index knows about one sample.
type SampleLocation struct {
	Sample            uint32 `json:"sample"`       // 1-based sample number
	Chunk             uint32 `json:"chunk"`        // 1-based chunk number
	ChunkOffset       uint64 `json:"chunk_offset"` // file offset of the chunk
	InChunk           uint64 `json:"in_chunk"`     // bytes of the earlier samples stored in the same chunk
	Offset            uint64 `json:"offset"`       // file offset of the sample: ChunkOffset + InChunk
	Size              uint32 `json:"size"`
	DecodeTime        uint64 `json:"decode_time"`  // media time scale
	Duration          uint32 `json:"duration"`
	CompositionOffset int32  `json:"composition_offset"`
	Sync              bool   `json:"sync"`
	SampleDescId      uint32 `json:"sample_desc_id"`
}

// SampleCount is the number of samples in the track.
func (x *SampleIndex) SampleCount() uint32 {
	return x.SampleSize.SampleCount
}

// IsSync reports whether sample n is a random access point.
func (x *SampleIndex) IsSync(n uint32) bool {
	if x.SyncSample == nil {
		return true
	}
	return x.SyncSample.IsSync(n)
}

// SyncBefore returns the closest random access sample at or before n.
func (x *SampleIndex) SyncBefore(n uint32) (uint32, bool) {
	if x.SyncSample == nil {
		return n, n > 0
	}
	return x.SyncSample.SyncBefore(n)
}

// Locate resolves media time mt into the sample presented at that time.
func (x *SampleIndex) Locate(mt uint64) (SampleLocation, error) {
	return x.LocateSample(x.TimeToSample.LookupTime(mt))
}

// LocateSample runs sample n through the sample-to-chunk, chunk offset and
// sample size tables. The chunk offset alone only places the chunk; the
// sizes of the samples stored ahead of n in that chunk are added to it.
func (x *SampleIndex) LocateSample(n uint32) (SampleLocation, error) {
	loc := SampleLocation{Sample: n}
	if n == 0 || n > x.SampleCount() {
		return loc, fmt.Errorf("%w: sample %d of %d", ErrIndexOutOfRange, n, x.SampleCount())
	}
	pos, ok := x.SampleToChunk.ChunkOf(n)
	if !ok {
		return loc, fmt.Errorf("%w: sample %d is not covered by the sample-to-chunk table", ErrIndexOutOfRange, n)
	}
	loc.Chunk, loc.SampleDescId = pos.Chunk, pos.SampleDescId
	if loc.ChunkOffset, ok = x.ChunkOffset.Offset(int(pos.Chunk) - 1); !ok {
		return loc, fmt.Errorf("%w: chunk %d of %d for sample %d",
			ErrIndexOutOfRange, pos.Chunk, x.ChunkOffset.ChunkCount(), n)
	}
	if loc.InChunk, ok = x.SampleSize.Span(pos.FirstSample, n); !ok {
		return loc, fmt.Errorf("%w: samples %d..%d of chunk %d", ErrIndexOutOfRange, pos.FirstSample, n, pos.Chunk)
	}
	loc.Offset = loc.ChunkOffset + loc.InChunk
	loc.Size, _ = x.SampleSize.Size(n)
	loc.DecodeTime, loc.Duration, _ = x.TimeToSample.DecodeTime(n)
	if x.CompositionOffset != nil {
		loc.CompositionOffset, _ = x.CompositionOffset.LookupOffset(n)
	}
	loc.Sync = x.IsSync(n)
	return loc, nil
}
