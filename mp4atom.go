// Package mp4atom defines the values and collaborator contracts shared by
// the MP4/QuickTime parser, its demuxer and the tools built on them.
package mp4atom

import "time"

// Sample is one decodable unit pulled out of a movie's media data.
type Sample struct {
	TrackID      uint32        // Track id from the track header.
	Number       uint32        // 1-based sample number within the track.
	Offset       uint64        // Absolute file offset of the payload.
	DecodeTime   time.Duration // Decode timestamp.
	Presentation time.Duration // Presentation timestamp: decode time plus composition offset.
	Duration     time.Duration // Duration of the sample.
	KeyFrame     bool          // True for random access samples.
	Data         []byte        // Raw payload as stored in the file.
}

// SampleConsumer receives sample payloads in the order they are read.
type SampleConsumer interface {
	ConsumeSample(Sample) // Called once per sample; the consumer owns Data afterwards.
}

// ParameterSetConsumer receives the codec parameter sets embedded in a
// video sample description.
type ParameterSetConsumer interface {
	ConsumeParameterSets(sps, pps [][]byte) // Raw NAL units without length prefixes.
}

// SampleConsumerFunc adapts a function to SampleConsumer.
type SampleConsumerFunc func(Sample)

func (f SampleConsumerFunc) ConsumeSample(s Sample) {
	f(s)
}

// SampleReader yields samples of a movie in decode order across tracks.
type SampleReader interface {
	ReadSample() (Sample, error) // Returns io.EOF after the last sample.
	Close() error                // Releases the underlying source.
}
