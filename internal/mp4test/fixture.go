package mp4test

import (
	"github.com/ugparu/mp4atom/codec/h264"
	"github.com/ugparu/mp4atom/codec/h265"
)

var (
	SPS = []byte{0x67, 0x42, 0xc0, 0x1e, 0xda, 0x02, 0x80, 0xbf, 0xe5}
	PPS = []byte{0x68, 0xce, 0x3c, 0x80}
)

// AVCRecord is the avcC payload of the fixture video track.
func AVCRecord() *h264.AVCDecoderConfRecord {
	return &h264.AVCDecoderConfRecord{
		AVCProfileIndication: 0x42,
		ProfileCompatibility: 0xc0,
		AVCLevelIndication:   0x1e,
		LengthSizeMinusOne:   3,
		SPS:                  [][]byte{SPS},
		PPS:                  [][]byte{PPS},
	}
}

// LengthPrefixed frames NAL units with 4-byte lengths, as stored in samples.
func LengthPrefixed(nalus ...[]byte) []byte {
	b := New("nalu")
	for _, n := range nalus {
		b.U32(uint32(len(n))).Raw(n) //nolint:gosec
	}
	return b.body
}

// VideoTrack has three samples of 1000 units at time scale 1000, stored as
// two samples in chunk 1 and one in chunk 2. Only sample 1 is a sync sample.
func VideoTrack() *Track {
	return &Track{
		ID:        1,
		Handler:   "vide",
		Format:    "avc1",
		TimeScale: 1000,
		Language:  0x55c4,
		Times:     []Run{{Count: 3, Duration: 1000}},
		Chunks:    []ChunkRun{{FirstChunk: 1, SamplesPerChunk: 2, SampleDescId: 1}},
		Sync:      []uint32{1},
		Samples: [][]byte{
			LengthPrefixed([]byte{0x65, 0x88, 0x84, 0x00, 0x21}),
			LengthPrefixed([]byte{0x41, 0x9a, 0x02}, []byte{0x06, 0x05}),
			LengthPrefixed([]byte{0x41, 0x9a, 0x04, 0x10}),
		},
		Width:  320,
		Height: 240,
		AVC:    AVCRecord(),
		Edit:   true,
	}
}

// AudioTrack has four AAC frames of 1024 units at 44100 Hz in one chunk.
func AudioTrack() *Track {
	return &Track{
		ID:          2,
		Handler:     "soun",
		Format:      "mp4a",
		TimeScale:   44100,
		Language:    0x15c7, // eng
		Times:       []Run{{Count: 4, Duration: 1024}},
		Chunks:      []ChunkRun{{FirstChunk: 1, SamplesPerChunk: 4, SampleDescId: 1}},
		Samples:     [][]byte{{0x21, 0x10}, {0x21, 0x11, 0x12}, {0x21, 0x13}, {0x21, 0x14, 0x15, 0x16}},
		Channels:    2,
		SampleRate:  44100,
		AudioConfig: []byte{0x12, 0x10},
	}
}

// VideoMovie is a movie with VideoTrack only.
func VideoMovie() *Movie {
	return &Movie{TimeScale: 1000, Tracks: []*Track{VideoTrack()}}
}

// AVMovie is a movie with VideoTrack and AudioTrack.
func AVMovie() *Movie {
	return &Movie{TimeScale: 1000, Tracks: []*Track{VideoTrack(), AudioTrack()}}
}

var (
	HEVCVPS = []byte{0x40, 0x01, 0x0c, 0x01, 0xff, 0xff}
	HEVCSPS = []byte{0x42, 0x01, 0x01, 0x01, 0x60, 0x00}
	HEVCPPS = []byte{0x44, 0x01, 0xc1, 0x72}
)

// HEVCTrack has two hvc1 samples of 512 units at time scale 12800: an IDR
// and a trailing picture, both in chunk 1.
func HEVCTrack() *Track {
	return &Track{
		ID:        3,
		Handler:   "vide",
		Format:    "hvc1",
		TimeScale: 12800,
		Language:  0x55c4,
		Times:     []Run{{Count: 2, Duration: 512}},
		Chunks:    []ChunkRun{{FirstChunk: 1, SamplesPerChunk: 2, SampleDescId: 1}},
		Sync:      []uint32{1},
		Samples: [][]byte{
			LengthPrefixed([]byte{0x26, 0x01, 0xaf, 0x10}),
			LengthPrefixed([]byte{0x02, 0x01, 0xd0}),
		},
		Width:  640,
		Height: 360,
		HEVC: &h265.HEVCDecoderConfRecord{
			ProfileIdc:         1,
			LevelIdc:           90,
			ChromaFormat:       1,
			LengthSizeMinusOne: 3,
			VPS:                [][]byte{HEVCVPS},
			SPS:                [][]byte{HEVCSPS},
			PPS:                [][]byte{HEVCPPS},
		},
	}
}
