package mp4io

const STTS = Tag(0x73747473)

// TimeToSample maps decode time to sample numbers as runs of equal duration.
type TimeToSample struct {
	Version    uint8
	Flags      uint32
	EntryCount uint32
	Entries    []TimeToSampleEntry
	AtomPos
}

func (*TimeToSample) Tag() Tag {
	return STTS
}

func (t *TimeToSample) Unmarshal(c *Cursor) error {
	l := beginLeaf(c, STTS, &t.AtomPos)
	t.Version = l.u8()
	t.Flags = l.u24()
	t.EntryCount = l.u32()
	t.Entries = readSeq(&l, "time-to-sample", LenTimeToSampleEntry, getTimeToSampleEntry)
	l.checkCount("time-to-sample", t.EntryCount, len(t.Entries))
	return l.finish()
}

// SampleCount is the number of samples the table covers.
func (t *TimeToSample) SampleCount() uint64 {
	var n uint64
	for _, e := range t.Entries {
		n += uint64(e.Count)
	}
	return n
}

// LookupTime returns the 1-based number of the first sample whose
// cumulative duration exceeds mt. Time 0 is always sample 1, a time past
// the last sample yields the last sample and an otherwise empty table
// yields 0. Zero-duration runs never match.
func (t *TimeToSample) LookupTime(mt uint64) uint32 {
	if mt == 0 {
		return 1
	}
	var start, last uint64
	for _, e := range t.Entries {
		if e.Count == 0 {
			continue
		}
		if e.Duration == 0 {
			last += uint64(e.Count)
			continue
		}
		span := uint64(e.Count) * uint64(e.Duration)
		if mt < start+span {
			return uint32(last + 1 + (mt-start)/uint64(e.Duration)) //nolint:gosec
		}
		start += span
		last += uint64(e.Count)
	}
	return uint32(last) //nolint:gosec
}

// DecodeTime returns the decode time and duration of 1-based sample n.
func (t *TimeToSample) DecodeTime(n uint32) (at uint64, duration uint32, ok bool) {
	if n == 0 {
		return 0, 0, false
	}
	left := uint64(n - 1)
	for _, e := range t.Entries {
		if left < uint64(e.Count) {
			return at + left*uint64(e.Duration), e.Duration, true
		}
		left -= uint64(e.Count)
		at += uint64(e.Count) * uint64(e.Duration)
	}
	return 0, 0, false
}

// TotalDuration is the sum of every sample duration.
func (t *TimeToSample) TotalDuration() uint64 {
	var d uint64
	for _, e := range t.Entries {
		d += uint64(e.Count) * uint64(e.Duration)
	}
	return d
}
