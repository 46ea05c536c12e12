package mp4test

import (
	"github.com/ugparu/mp4atom/codec/h264"
	"github.com/ugparu/mp4atom/codec/h265"
)

// Run is one time-to-sample entry.
type Run struct {
	Count    uint32
	Duration uint32
}

// OffsetRun is one composition offset entry.
type OffsetRun struct {
	Count  uint32
	Offset int32
}

// ChunkRun is one sample-to-chunk entry.
type ChunkRun struct {
	FirstChunk      uint32
	SamplesPerChunk uint32
	SampleDescId    uint32
}

// Track describes one track of a fixture movie. Samples hold the payloads
// in decode order; chunks are laid out from Chunks.
type Track struct {
	ID        uint32
	Handler   string // vide or soun
	Format    string // sample entry format, avc1 or mp4a
	TimeScale uint32
	Language  uint16 // packed ISO-639-2/T, 0x55c4 is "und"

	Times   []Run
	Offsets []OffsetRun // ctts, omitted when empty
	Chunks  []ChunkRun
	Sync    []uint32 // stss, omitted when nil
	Samples [][]byte

	Width, Height uint16
	AVC           *h264.AVCDecoderConfRecord
	HEVC          *h265.HEVCDecoderConfRecord

	Channels    uint16
	SampleRate  uint16
	AudioConfig []byte

	Edit bool // write an edts with one edit covering the track
}

func (t *Track) duration() uint64 {
	var d uint64
	for _, r := range t.Times {
		d += uint64(r.Count) * uint64(r.Duration)
	}
	return d
}

// chunkSizes splits the samples into chunks following the sample-to-chunk
// runs; the last run covers every remaining sample.
func (t *Track) chunkSizes() [][]int {
	var chunks [][]int
	next := 0
	for i, r := range t.Chunks {
		if r.SamplesPerChunk == 0 {
			continue
		}
		n := -1
		if i+1 < len(t.Chunks) {
			n = int(t.Chunks[i+1].FirstChunk - r.FirstChunk)
		}
		for k := 0; (n < 0 || k < n) && next < len(t.Samples); k++ {
			var chunk []int
			for j := uint32(0); j < r.SamplesPerChunk && next < len(t.Samples); j++ {
				chunk = append(chunk, next)
				next++
			}
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// Movie describes a whole fixture file: ftyp, moov and one mdat after it.
type Movie struct {
	Brand     string
	TimeScale uint32
	Tracks    []*Track
	Extra     []*Box // written after the mdat
}

// Layout is where Build put things.
type Layout struct {
	MoovOffset uint64
	MdatOffset uint64
	MdatSize   uint64
	// ChunkOffsets and SampleOffsets are keyed by track id.
	ChunkOffsets  map[uint32][]uint64
	SampleOffsets map[uint32][]uint64
}

// Build encodes the movie. The moov is encoded twice: the first pass sizes
// it so the second can point the chunk offsets into the mdat.
func (m *Movie) Build() ([]byte, Layout) {
	ftyp := m.ftyp()
	lay := Layout{
		MoovOffset:    uint64(ftyp.Len()),
		ChunkOffsets:  map[uint32][]uint64{},
		SampleOffsets: map[uint32][]uint64{},
	}
	moovLen := m.moov(lay).Len()
	lay.MdatOffset = lay.MoovOffset + uint64(moovLen)

	mdat := New("mdat")
	pos := lay.MdatOffset + 8
	for _, t := range m.Tracks {
		for _, chunk := range t.chunkSizes() {
			lay.ChunkOffsets[t.ID] = append(lay.ChunkOffsets[t.ID], pos)
			for _, i := range chunk {
				lay.SampleOffsets[t.ID] = append(lay.SampleOffsets[t.ID], pos)
				mdat.Raw(t.Samples[i])
				pos += uint64(len(t.Samples[i]))
			}
		}
	}
	lay.MdatSize = uint64(mdat.Len())
	boxes := append([]*Box{ftyp, m.moov(lay), mdat}, m.Extra...)
	return Concat(boxes...), lay
}

func (m *Movie) ftyp() *Box {
	brand := m.Brand
	if brand == "" {
		brand = "isom"
	}
	return New("ftyp").Tag(brand).U32(512).Tag("isom").Tag("iso2").Tag("avc1").Tag("mp41")
}

func (m *Movie) moov(lay Layout) *Box {
	var duration uint64
	for _, t := range m.Tracks {
		if d := ScaleTo(t.duration(), t.TimeScale, m.TimeScale); d > duration {
			duration = d
		}
	}
	moov := New("moov").Add(MovieHeader(m.TimeScale, duration, uint32(len(m.Tracks)+1))) //nolint:gosec
	for _, t := range m.Tracks {
		moov.Add(m.trak(t, lay.ChunkOffsets[t.ID]))
	}
	return moov
}

// ScaleTo converts v between time scales.
func ScaleTo(v uint64, from, to uint32) uint64 {
	if from == 0 {
		return 0
	}
	return v * uint64(to) / uint64(from)
}

func (m *Movie) trak(t *Track, chunkOffsets []uint64) *Box {
	duration := ScaleTo(t.duration(), t.TimeScale, m.TimeScale)
	trak := New("trak").Add(TrackHeader(t.ID, duration, uint32(t.Width)<<16, uint32(t.Height)<<16))
	if t.Edit {
		trak.Add(New("edts").Add(Full("elst", 0, 0).U32(1).U32(uint32(duration)).I32(0).U32(0x10000))) //nolint:gosec
	}

	minf := New("minf")
	name := "SoundHandler"
	if t.Handler == "vide" {
		minf.Add(Full("vmhd", 0, 1).U16(0).Zeros(6))
		name = "VideoHandler"
	} else {
		minf.Add(Full("smhd", 0, 0).U16(0).U16(0))
	}
	minf.Add(New("dinf").Add(Full("dref", 0, 0).U32(1).Add(Full("url ", 0, 1))))
	minf.Add(t.stbl(chunkOffsets))

	return trak.Add(New("mdia").Add(
		MediaHeader(t.TimeScale, t.duration(), t.Language),
		Full("hdlr", 0, 0).U32(0).Tag(t.Handler).Zeros(12).Raw(append([]byte(name), 0)),
		minf,
	))
}

func (t *Track) stbl(chunkOffsets []uint64) *Box {
	stts := Full("stts", 0, 0).U32(uint32(len(t.Times))) //nolint:gosec
	for _, r := range t.Times {
		stts.U32(r.Count).U32(r.Duration)
	}
	stsc := Full("stsc", 0, 0).U32(uint32(len(t.Chunks))) //nolint:gosec
	for _, r := range t.Chunks {
		stsc.U32(r.FirstChunk).U32(r.SamplesPerChunk).U32(r.SampleDescId)
	}
	stsz := Full("stsz", 0, 0).U32(0).U32(uint32(len(t.Samples))) //nolint:gosec
	for _, s := range t.Samples {
		stsz.U32(uint32(len(s))) //nolint:gosec
	}
	chunks := t.chunkSizes()
	stco := Full("stco", 0, 0).U32(uint32(len(chunks))) //nolint:gosec
	for i := range chunks {
		var off uint64
		if i < len(chunkOffsets) {
			off = chunkOffsets[i]
		}
		stco.U32(uint32(off)) //nolint:gosec
	}

	stbl := New("stbl").Add(New("stsd").U32(0).U32(1).Add(t.sampleEntry()), stts)
	if len(t.Offsets) > 0 {
		ctts := Full("ctts", 0, 0).U32(uint32(len(t.Offsets))) //nolint:gosec
		for _, r := range t.Offsets {
			ctts.U32(r.Count).I32(r.Offset)
		}
		stbl.Add(ctts)
	}
	stbl.Add(stsc, stsz, stco)
	if t.Sync != nil {
		stss := Full("stss", 0, 0).U32(uint32(len(t.Sync))) //nolint:gosec
		for _, n := range t.Sync {
			stss.U32(n)
		}
		stbl.Add(stss)
	}
	return stbl
}

func (t *Track) sampleEntry() *Box {
	if t.Handler == "vide" {
		e := VideoEntry(t.Format, t.Width, t.Height)
		if t.AVC != nil {
			rec := make([]byte, t.AVC.Len())
			t.AVC.Marshal(rec)
			e.Add(New("avcC").Raw(rec))
		}
		if t.HEVC != nil {
			rec := make([]byte, t.HEVC.Len())
			t.HEVC.Marshal(rec)
			e.Add(New("hvcC").Raw(rec))
		}
		return e
	}
	e := AudioEntry(t.Format, t.Channels, t.SampleRate)
	if t.AudioConfig != nil {
		e.Add(ElemStreamDesc(uint16(t.ID), t.AudioConfig)) //nolint:gosec
	}
	return e
}

// MovieHeader is a version 0 mvhd.
func MovieHeader(timeScale uint32, duration uint64, nextTrack uint32) *Box {
	return Full("mvhd", 0, 0).
		U32(0).U32(0).
		U32(timeScale).U32(uint32(duration)). //nolint:gosec
		U32(0x10000).U16(0x100).Zeros(10).
		Raw(identity()).
		Zeros(24).
		U32(nextTrack)
}

// TrackHeader is a version 0 tkhd of an enabled track.
func TrackHeader(id uint32, duration uint64, width, height uint32) *Box {
	return Full("tkhd", 0, 3).
		U32(0).U32(0).U32(id).U32(0).U32(uint32(duration)). //nolint:gosec
		Zeros(8).I16(0).I16(0).U16(0).U16(0).
		Raw(identity()).
		U32(width).U32(height)
}

// MediaHeader is a version 0 mdhd.
func MediaHeader(timeScale uint32, duration uint64, lang uint16) *Box {
	return Full("mdhd", 0, 0).U32(0).U32(0).U32(timeScale).U32(uint32(duration)).U16(lang).U16(0) //nolint:gosec
}

// VideoEntry is a visual sample entry without extension atoms.
func VideoEntry(format string, width, height uint16) *Box {
	name := make([]byte, 32)
	name[0] = byte(copy(name[1:], "mp4test"))
	return New(format).Zeros(6).U16(1).
		U16(0).U16(0).U32(0).U32(0).U32(0).
		U16(width).U16(height).
		U32(0x480000).U32(0x480000).
		U32(0).U16(1).Raw(name).
		U16(0x18).I16(-1)
}

// AudioEntry is a version 0 sound sample entry without extension atoms.
func AudioEntry(format string, channels, rate uint16) *Box {
	return New(format).Zeros(6).U16(1).
		U16(0).U16(0).U32(0).
		U16(channels).U16(16).I16(0).U16(0).
		U32(uint32(rate) << 16)
}

// ElemStreamDesc is an esds carrying an AAC decoder config.
func ElemStreamDesc(esID uint16, config []byte) *Box {
	dsi := append([]byte{0x05, byte(len(config))}, config...) //nolint:gosec
	dcd := []byte{0x04, byte(13 + len(dsi)), 0x40, 0x15, 0, 0, 0} //nolint:gosec
	dcd = append(dcd, 0, 1, 0xf4, 0, 0, 1, 0xf4, 0)            
	dcd = append(dcd, dsi...)
	sl := []byte{0x06, 0x01, 0x02}
	es := []byte{0x03, byte(3 + len(dcd) + len(sl)), byte(esID >> 8), byte(esID), 0} //nolint:gosec
	es = append(es, dcd...)
	es = append(es, sl...)
	return Full("esds", 0, 0).Raw(es)
}

func identity() []byte {
	return New("mtrx").
		U32(0x10000).U32(0).U32(0).
		U32(0).U32(0x10000).U32(0).
		U32(0).U32(0).U32(0x40000000).body
}
