package mp4

import (
	"fmt"
	"time"

	"github.com/bluenviron/mediacommon/pkg/codecs/mpeg4audio"
	"github.com/ugparu/mp4atom"
	"github.com/ugparu/mp4atom/codec/h264"
	"github.com/ugparu/mp4atom/codec/h265"
	"github.com/ugparu/mp4atom/format/mp4/mp4io"
)

// Stream is one track of the movie together with its sample index.
type Stream struct {
	index int // position among the movie's trak atoms

	TrackID   uint32
	Handler   mp4io.Tag // media handler type: vide, soun, ...
	Format    mp4io.Tag // format of the first sample description
	TimeScale uint32
	Duration  uint64 // media time scale
	Language  string

	Width  uint16 // video only
	Height uint16

	SampleRate float64 // audio only
	Channels   uint32

	Description mp4io.SampleDescription // nil for handlers without a decoded layout
	AVCRecord   *h264.AVCDecoderConfRecord
	HEVCRecord  *h265.HEVCDecoderConfRecord
	AudioConfig []byte             // decoder specific info from esds
	AAC         *mpeg4audio.Config // AudioConfig decoded, for AAC tracks
	Edits       []mp4io.EditListEntry

	Index *mp4io.SampleIndex

	next uint32 // next sample for sequential reads
}

func (s *Stream) String() string {
	return fmt.Sprintf("STREAM %d %s", s.TrackID, s.Handler)
}

// SampleCount is the number of samples in the stream.
func (s *Stream) SampleCount() uint32 {
	return s.Index.SampleCount()
}

// Length is the media duration as wall-clock time.
func (s *Stream) Length() time.Duration {
	return s.tsToTime(s.Duration)
}

// timeToTS converts a duration to the stream's time scale.
func (s *Stream) timeToTS(tm time.Duration) uint64 {
	return mp4io.DurationToScale(tm, s.TimeScale)
}

// tsToTime converts a timestamp in the stream's time scale to a duration.
func (s *Stream) tsToTime(ts uint64) time.Duration {
	return mp4io.ScaleToDuration(ts, s.TimeScale)
}

func (s *Stream) offsetToTime(off int32) time.Duration {
	if off < 0 {
		return -s.tsToTime(uint64(-int64(off)))
	}
	return s.tsToTime(uint64(off))
}

// Locate resolves time t into the sample presented at that time.
func (s *Stream) Locate(t time.Duration) (mp4io.SampleLocation, error) {
	return s.Index.Locate(s.timeToTS(t))
}

func (s *Stream) seek(t time.Duration) {
	n := s.Index.TimeToSample.LookupTime(s.timeToTS(t))
	if sync, ok := s.Index.SyncBefore(n); ok {
		n = sync
	}
	s.next = max(n, 1)
}

func (s *Stream) nextDTS() (time.Duration, bool) {
	if s.next == 0 || s.next > s.SampleCount() {
		return 0, false
	}
	dts, _, ok := s.Index.TimeToSample.DecodeTime(s.next)
	if !ok {
		return 0, false
	}
	return s.tsToTime(dts), true
}

func (s *Stream) sample(loc mp4io.SampleLocation, data []byte) mp4atom.Sample {
	dts := s.tsToTime(loc.DecodeTime)
	return mp4atom.Sample{
		TrackID:      s.TrackID,
		Number:       loc.Sample,
		Offset:       loc.Offset,
		DecodeTime:   dts,
		Presentation: dts + s.offsetToTime(loc.CompositionOffset),
		Duration:     s.tsToTime(uint64(loc.Duration)),
		KeyFrame:     loc.Sync,
		Data:         data,
	}
}

// newStream resolves the track chain down to its sample tables.
func newStream(index int, ref mp4io.Reference[mp4io.Track], c *mp4io.Cursor) (*Stream, error) {
	s := &Stream{index: index, next: 1}

	trak, err := mp4io.Resolve(ref, c)
	if err != nil {
		return nil, err
	}
	tkhdRef, err := trak.Header(c)
	if err != nil {
		return nil, err
	}
	tkhd, err := mp4io.Resolve(tkhdRef, c)
	if err != nil {
		return nil, err
	}
	s.TrackID = tkhd.TrackId

	if edtsRef, ok, err := trak.Edit(c); err != nil {
		return nil, err
	} else if ok {
		if err = s.readEdits(edtsRef, c); err != nil {
			return nil, err
		}
	}

	mdiaRef, err := trak.Media(c)
	if err != nil {
		return nil, err
	}
	mdia, err := mp4io.Resolve(mdiaRef, c)
	if err != nil {
		return nil, err
	}
	mdhdRef, err := mdia.Header(c)
	if err != nil {
		return nil, err
	}
	mdhd, err := mp4io.Resolve(mdhdRef, c)
	if err != nil {
		return nil, err
	}
	s.TimeScale, s.Duration, s.Language = mdhd.TimeScale, mdhd.Duration, mdhd.LanguageCode()

	if hdlrRef, ok, err := mdia.Handler(c); err != nil {
		return nil, err
	} else if ok {
		hdlr, err := mp4io.Resolve(hdlrRef, c)
		if err != nil {
			return nil, err
		}
		s.Handler = hdlr.SubType
	}

	minfRef, ok, err := mdia.Info(c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: track %d has no media information", mp4io.ErrMissingRequiredChild, s.TrackID)
	}
	minf, err := mp4io.Resolve(minfRef, c)
	if err != nil {
		return nil, err
	}
	stblRef, ok, err := minf.SampleTable(c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: track %d has no sample table", mp4io.ErrMissingRequiredChild, s.TrackID)
	}
	stbl, err := mp4io.Resolve(stblRef, c)
	if err != nil {
		return nil, err
	}
	if s.Index, err = mp4io.NewSampleIndex(stbl, c); err != nil {
		return nil, err
	}
	if err = s.readDescription(stbl, c); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Stream) readEdits(ref mp4io.Reference[mp4io.Edit], c *mp4io.Cursor) error {
	edts, err := mp4io.Resolve(ref, c)
	if err != nil {
		return err
	}
	elstRef, ok, err := edts.List(c)
	if err != nil || !ok {
		return err
	}
	elst, err := mp4io.Resolve(elstRef, c)
	if err != nil {
		return err
	}
	s.Edits = elst.Entries
	return nil
}

// readDescription decodes the first sample description. Handlers with no
// decoded layout keep only the format tag.
func (s *Stream) readDescription(stbl *mp4io.SampleTable, c *mp4io.Cursor) error {
	stsdRef, ok, err := stbl.SampleDesc(c)
	if err != nil || !ok {
		return err
	}
	stsd, err := mp4io.Resolve(stsdRef, c)
	if err != nil {
		return err
	}
	if len(stsd.Entries) == 0 {
		return nil
	}
	s.Format = stsd.Entries[0].Format
	if s.Handler != mp4io.VIDE && s.Handler != mp4io.SOUN {
		return nil
	}
	if s.Description, err = stsd.Describe(0, s.Handler, c); err != nil {
		return err
	}
	switch d := s.Description.(type) {
	case *mp4io.VideoSampleEntry:
		s.Width, s.Height = d.Width, d.Height
		if err = s.readAVCConfig(d, c); err != nil {
			return err
		}
		return s.readHEVCConfig(d, c)
	case *mp4io.AudioSampleEntry:
		s.SampleRate, s.Channels = d.Rate(), d.Channels()
		return s.readAudioConfig(d, c)
	}
	return nil
}

func (s *Stream) readAVCConfig(d *mp4io.VideoSampleEntry, c *mp4io.Cursor) error {
	ref, ok, err := d.AVCConfig(c)
	if err != nil || !ok {
		return err
	}
	avcC, err := mp4io.Resolve(ref, c)
	if err != nil {
		return err
	}
	rec := &h264.AVCDecoderConfRecord{}
	if _, err = rec.Unmarshal(avcC.Data); err != nil {
		return fmt.Errorf("mp4: track %d: %w", s.TrackID, err)
	}
	s.AVCRecord = rec
	return nil
}

func (s *Stream) readHEVCConfig(d *mp4io.VideoSampleEntry, c *mp4io.Cursor) error {
	ref, ok, err := d.HEVCConfig(c)
	if err != nil || !ok {
		return err
	}
	hvcC, err := mp4io.Resolve(ref, c)
	if err != nil {
		return err
	}
	rec := &h265.HEVCDecoderConfRecord{}
	if _, err = rec.Unmarshal(hvcC.Data); err != nil {
		return fmt.Errorf("mp4: track %d: %w", s.TrackID, err)
	}
	s.HEVCRecord = rec
	return nil
}

// ParameterSets returns the SPS and PPS of the first sample description.
func (s *Stream) ParameterSets() (sps, pps [][]byte) {
	switch {
	case s.AVCRecord != nil:
		return s.AVCRecord.SPS, s.AVCRecord.PPS
	case s.HEVCRecord != nil:
		return s.HEVCRecord.SPS, s.HEVCRecord.PPS
	}
	return nil, nil
}

// SplitSample splits a video sample into NAL units using the length
// prefix size of the track's decoder configuration.
func (s *Stream) SplitSample(data []byte) ([][]byte, error) {
	switch {
	case s.AVCRecord != nil:
		return s.AVCRecord.SplitSample(data)
	case s.HEVCRecord != nil:
		return s.HEVCRecord.SplitSample(data)
	}
	return nil, fmt.Errorf("mp4: track %d has no AVC or HEVC configuration", s.TrackID)
}

func (s *Stream) readAudioConfig(d *mp4io.AudioSampleEntry, c *mp4io.Cursor) error {
	ref, ok, err := d.ElemStreamDesc(c)
	if err != nil || !ok {
		return err
	}
	esds, err := mp4io.Resolve(ref, c)
	if err != nil {
		return err
	}
	s.AudioConfig = esds.DecConfig
	if esds.ObjectType != esdsObjectTypeAAC || len(esds.DecConfig) == 0 {
		return nil
	}
	var conf mpeg4audio.Config
	if err = conf.Unmarshal(esds.DecConfig); err != nil {
		return fmt.Errorf("mp4: track %d: audio specific config: %w", s.TrackID, err)
	}
	s.AAC = &conf
	return nil
}

// esdsObjectTypeAAC is the MPEG-4 audio objectTypeIndication.
const esdsObjectTypeAAC = 0x40

// StreamInfo is the summary of a stream shown by tools.
type StreamInfo struct {
	TrackID    uint32        `json:"track_id"`
	Handler    string        `json:"handler"`
	Format     string        `json:"format"`
	TimeScale  uint32        `json:"time_scale"`
	Duration   time.Duration `json:"duration"`
	Samples    uint32        `json:"samples"`
	Language   string        `json:"language,omitempty"`
	Width      uint16        `json:"width,omitempty"`
	Height     uint16        `json:"height,omitempty"`
	SampleRate float64       `json:"sample_rate,omitempty"`
	Channels   uint32        `json:"channels,omitempty"`
	SPS        int           `json:"sps,omitempty"`
	PPS        int           `json:"pps,omitempty"`
	AudioType  int           `json:"audio_object_type,omitempty"`
}

func (s *Stream) Info() StreamInfo {
	info := StreamInfo{
		TrackID:    s.TrackID,
		Handler:    s.Handler.String(),
		Format:     s.Format.String(),
		TimeScale:  s.TimeScale,
		Duration:   s.Length(),
		Samples:    s.SampleCount(),
		Language:   s.Language,
		Width:      s.Width,
		Height:     s.Height,
		SampleRate: s.SampleRate,
		Channels:   s.Channels,
	}
	sps, pps := s.ParameterSets()
	info.SPS, info.PPS = len(sps), len(pps)
	if s.AAC != nil {
		info.AudioType = int(s.AAC.Type)
	}
	return info
}
