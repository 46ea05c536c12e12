// Package mp4 drives the atom parser over a movie file: it resolves the
// moov → trak → mdia → minf → stbl chain of every track, builds a sample
// index per track and reads samples out of the media data.
package mp4

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ugparu/mp4atom"
	"github.com/ugparu/mp4atom/format/mp4/mp4io"
	"github.com/ugparu/mp4atom/utils/logger"
)

var (
	ErrNoStreams      = errors.New("mp4: no readable streams")
	ErrStreamNotFound = errors.New("mp4: stream not found")
	ErrSampleTooLarge = errors.New("mp4: sample exceeds size limit")
)

// Option configures a Demuxer.
type Option func(*Demuxer)

// WithMaxSampleSize rejects samples larger than n bytes before reading
// them. Zero means no limit.
func WithMaxSampleSize(n uint32) Option {
	return func(dmx *Demuxer) {
		dmx.maxSampleSize = n
	}
}

// Demuxer reads a movie file. It owns a single Cursor, so its methods must
// not be called concurrently.
type Demuxer struct {
	url    string
	r      io.ReadSeeker
	closer io.Closer
	cur    *mp4io.Cursor

	file    *mp4io.File
	fileTyp *mp4io.FileType
	header  *mp4io.MovieHeader
	mdat    []*mp4io.MediaData
	streams []*Stream
	probed  bool

	maxSampleSize uint32
}

var _ mp4atom.SampleReader = (*Demuxer)(nil)

// NewDemuxer returns a demuxer for the file at url. The file is opened by Demux.
func NewDemuxer(url string, opts ...Option) *Demuxer {
	dmx := &Demuxer{url: url}
	for _, opt := range opts {
		opt(dmx)
	}
	return dmx
}

// NewDemuxerFrom reads from r, which is closed by Close if it is an io.Closer.
func NewDemuxerFrom(r io.ReadSeeker, name string, opts ...Option) *Demuxer {
	dmx := NewDemuxer(name, opts...)
	dmx.r = r
	if c, ok := r.(io.Closer); ok {
		dmx.closer = c
	}
	return dmx
}

func (dmx *Demuxer) String() string {
	return fmt.Sprintf("MP4_DEMUXER %s", dmx.url)
}

// Demux opens the source if needed, parses the movie and returns its streams.
func (dmx *Demuxer) Demux() ([]*Stream, error) {
	if dmx.r == nil {
		f, err := os.Open(dmx.url)
		if err != nil {
			return nil, err
		}
		dmx.r, dmx.closer = f, f
	}
	if err := dmx.probe(); err != nil {
		return nil, err
	}
	return dmx.streams, nil
}

func (dmx *Demuxer) Close() error {
	if dmx.closer == nil {
		return nil
	}
	err := dmx.closer.Close()
	dmx.closer = nil
	return err
}

// Streams returns the streams found by Demux.
func (dmx *Demuxer) Streams() []*Stream {
	return dmx.streams
}

// Stream returns the stream of track id.
func (dmx *Demuxer) Stream(trackID uint32) (*Stream, error) {
	for _, s := range dmx.streams {
		if s.TrackID == trackID {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: track %d", ErrStreamNotFound, trackID)
}

// Header returns the movie header.
func (dmx *Demuxer) Header() *mp4io.MovieHeader {
	return dmx.header
}

// FileType returns the ftyp atom, or nil for files without one.
func (dmx *Demuxer) FileType() *mp4io.FileType {
	return dmx.fileTyp
}

// Duration is the movie duration from the movie header.
func (dmx *Demuxer) Duration() time.Duration {
	if dmx.header == nil {
		return 0
	}
	return dmx.header.Length()
}

// Tree dumps the atom structure of the whole file.
func (dmx *Demuxer) Tree() ([]mp4io.Node, error) {
	if dmx.cur == nil {
		if _, err := dmx.Demux(); err != nil {
			return nil, err
		}
	}
	return mp4io.ReadTree(dmx.cur)
}

func (dmx *Demuxer) probe() (err error) {
	if dmx.probed {
		return nil
	}
	dmx.cur = mp4io.NewCursor(dmx.r)
	c := dmx.cur
	dmx.fileTyp, dmx.header, dmx.mdat, dmx.streams = nil, nil, nil, nil

	if dmx.file, err = mp4io.ReadFile(c); err != nil {
		return err
	}
	if ref, ok, ferr := dmx.file.FileType(c); ferr != nil {
		return ferr
	} else if ok {
		if dmx.fileTyp, err = mp4io.Resolve(ref, c); err != nil {
			return err
		}
	}

	mdats, err := dmx.file.MediaData(c)
	if err != nil {
		return err
	}
	for _, ref := range mdats {
		m, err := mp4io.Resolve(ref, c)
		if err != nil {
			return err
		}
		dmx.mdat = append(dmx.mdat, m)
	}

	moovRef, err := dmx.file.Movie(c)
	if err != nil {
		return err
	}
	moov, err := mp4io.Resolve(moovRef, c)
	if err != nil {
		return err
	}
	hdrRef, err := moov.Header(c)
	if err != nil {
		return err
	}
	if dmx.header, err = mp4io.Resolve(hdrRef, c); err != nil {
		return err
	}

	tracks, err := moov.Tracks(c)
	if err != nil {
		return err
	}
	for i, ref := range tracks {
		s, err := newStream(i, ref, c)
		if err != nil {
			logger.Warningf(dmx, "skipping track %d at offset %d: %v", i, ref.Offset, err)
			continue
		}
		logger.Debugf(dmx, "track %d: %s %s, %d samples", s.TrackID, s.Handler, s.Format, s.SampleCount())
		dmx.streams = append(dmx.streams, s)
	}
	if len(dmx.streams) == 0 {
		return ErrNoStreams
	}
	logger.Infof(dmx, "%d streams, duration %v", len(dmx.streams), dmx.Duration())
	dmx.probed = true
	return nil
}

// Locate resolves time t on track id into a sample location.
func (dmx *Demuxer) Locate(trackID uint32, t time.Duration) (mp4io.SampleLocation, error) {
	s, err := dmx.Stream(trackID)
	if err != nil {
		return mp4io.SampleLocation{}, err
	}
	return s.Locate(t)
}

// ReadSampleAt reads sample n (1-based) of s.
func (dmx *Demuxer) ReadSampleAt(s *Stream, n uint32) (mp4atom.Sample, error) {
	loc, err := s.Index.LocateSample(n)
	if err != nil {
		return mp4atom.Sample{}, err
	}
	if dmx.maxSampleSize > 0 && loc.Size > dmx.maxSampleSize {
		return mp4atom.Sample{}, fmt.Errorf("%w: sample %d of track %d is %d bytes, limit %d",
			ErrSampleTooLarge, n, s.TrackID, loc.Size, dmx.maxSampleSize)
	}
	data, err := dmx.readPayload(loc.Offset, uint64(loc.Size))
	if err != nil {
		return mp4atom.Sample{}, fmt.Errorf("mp4: sample %d of track %d: %w", n, s.TrackID, err)
	}
	return s.sample(loc, data), nil
}

func (dmx *Demuxer) readPayload(off, size uint64) ([]byte, error) {
	for _, m := range dmx.mdat {
		if m.Contains(off, size) {
			return m.ReadAt(dmx.cur, off, size)
		}
	}
	return nil, fmt.Errorf("%w: %d bytes at offset %d are not inside any media data atom",
		mp4io.ErrIndexOutOfRange, size, off)
}

// SeekTime moves every stream to the last sync sample at or before t.
func (dmx *Demuxer) SeekTime(t time.Duration) {
	for _, s := range dmx.streams {
		s.seek(t)
	}
}

// ReadSample returns the next sample in decode order across streams.
func (dmx *Demuxer) ReadSample() (mp4atom.Sample, error) {
	if err := dmx.probe(); err != nil {
		return mp4atom.Sample{}, err
	}
	var (
		chosen *Stream
		best   time.Duration
	)
	for _, s := range dmx.streams {
		dts, ok := s.nextDTS()
		if !ok {
			continue
		}
		if chosen == nil || dts < best {
			chosen, best = s, dts
		}
	}
	if chosen == nil {
		return mp4atom.Sample{}, io.EOF
	}
	smp, err := dmx.ReadSampleAt(chosen, chosen.next)
	if err != nil {
		return smp, err
	}
	chosen.next++
	return smp, nil
}

// Feed hands the parameter sets of every video stream to params, then
// every remaining sample in decode order to samples. Either may be nil.
func (dmx *Demuxer) Feed(samples mp4atom.SampleConsumer, params mp4atom.ParameterSetConsumer) error {
	if err := dmx.probe(); err != nil {
		return err
	}
	if params != nil {
		for _, s := range dmx.streams {
			if sps, pps := s.ParameterSets(); sps != nil || pps != nil {
				params.ConsumeParameterSets(sps, pps)
			}
		}
	}
	for {
		smp, err := dmx.ReadSample()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if samples != nil {
			samples.ConsumeSample(smp)
		}
	}
}
