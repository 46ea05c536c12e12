package mp4io

import "fmt"

const STBL = Tag(0x7374626c)

type SampleTable struct {
	Container
	desc        Slot[SampleDesc]
	timeToSamp  Slot[TimeToSample]
	compOffset  Slot[CompositionOffset]
	compShift   Slot[CompositionShift]
	syncSample  Slot[SyncSample]
	partialSync Slot[PartialSyncSample]
	sampleChunk Slot[SampleToChunk]
	sampleSize  Slot[SampleSize]
	chunkOffset Slot[ChunkOffset]
	chunkOff64  Slot[ChunkOffset64]
	shadowSync  Slot[ShadowSync]
	groupDesc   Slot[SampleGroupDesc]
	sampleGroup Slot[SampleToGroup]
	dependency  Slot[SampleDependency]
}

func (*SampleTable) Tag() Tag {
	return STBL
}

func (s *SampleTable) Unmarshal(c *Cursor) error {
	return beginContainer(c, STBL, &s.Container)
}

func (s *SampleTable) SampleDesc(c *Cursor) (Reference[SampleDesc], bool, error) {
	return optional(&s.Container, &s.desc, c)
}

func (s *SampleTable) TimeToSample(c *Cursor) (Reference[TimeToSample], bool, error) {
	return optional(&s.Container, &s.timeToSamp, c)
}

func (s *SampleTable) CompositionOffset(c *Cursor) (Reference[CompositionOffset], bool, error) {
	return optional(&s.Container, &s.compOffset, c)
}

func (s *SampleTable) CompositionShift(c *Cursor) (Reference[CompositionShift], bool, error) {
	return optional(&s.Container, &s.compShift, c)
}

func (s *SampleTable) SyncSample(c *Cursor) (Reference[SyncSample], bool, error) {
	return optional(&s.Container, &s.syncSample, c)
}

func (s *SampleTable) PartialSyncSample(c *Cursor) (Reference[PartialSyncSample], bool, error) {
	return optional(&s.Container, &s.partialSync, c)
}

func (s *SampleTable) SampleToChunk(c *Cursor) (Reference[SampleToChunk], bool, error) {
	return optional(&s.Container, &s.sampleChunk, c)
}

func (s *SampleTable) SampleSize(c *Cursor) (Reference[SampleSize], bool, error) {
	return optional(&s.Container, &s.sampleSize, c)
}

func (s *SampleTable) ChunkOffset(c *Cursor) (Reference[ChunkOffset], bool, error) {
	return optional(&s.Container, &s.chunkOffset, c)
}

func (s *SampleTable) ChunkOffset64(c *Cursor) (Reference[ChunkOffset64], bool, error) {
	return optional(&s.Container, &s.chunkOff64, c)
}

func (s *SampleTable) ShadowSync(c *Cursor) (Reference[ShadowSync], bool, error) {
	return optional(&s.Container, &s.shadowSync, c)
}

func (s *SampleTable) SampleGroupDesc(c *Cursor) (Reference[SampleGroupDesc], bool, error) {
	return optional(&s.Container, &s.groupDesc, c)
}

func (s *SampleTable) SampleToGroup(c *Cursor) (Reference[SampleToGroup], bool, error) {
	return optional(&s.Container, &s.sampleGroup, c)
}

func (s *SampleTable) SampleDependency(c *Cursor) (Reference[SampleDependency], bool, error) {
	return optional(&s.Container, &s.dependency, c)
}

// ChunkOffsets resolves whichever of stco and co64 is present, preferring
// stco when a file carries both.
func (s *SampleTable) ChunkOffsets(c *Cursor) (*ChunkOffset, error) {
	ref, ok, err := s.ChunkOffset(c)
	if err != nil {
		return nil, err
	}
	if ok {
		return Resolve(ref, c)
	}
	ref64, ok, err := s.ChunkOffset64(c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: neither %q nor %q in %q at offset %d",
			ErrMissingRequiredChild, STCO, CO64, STBL, s.Offset)
	}
	co, err := Resolve(ref64, c)
	if err != nil {
		return nil, err
	}
	return &co.ChunkOffset, nil
}
