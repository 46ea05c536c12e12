package h264

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	testSPS = []byte{0x67, 0x64, 0x00, 0x1f, 0xac, 0xd9}
	testPPS = []byte{0x68, 0xeb, 0xe3, 0xcb}
)

func TestAVCDecoderConfRecordRoundTrip(t *testing.T) {
	t.Parallel()

	rec := AVCDecoderConfRecord{
		AVCProfileIndication: 0x64,
		AVCLevelIndication:   0x1f,
		LengthSizeMinusOne:   3,
		SPS:                  [][]byte{testSPS},
		PPS:                  [][]byte{testPPS},
	}
	b := make([]byte, rec.Len())
	require.Equal(t, len(b), rec.Marshal(b))
	require.Equal(t, byte(0xff), b[4])
	require.Equal(t, byte(0xe1), b[5])

	var got AVCDecoderConfRecord
	n, err := got.Unmarshal(b)
	require.NoError(t, err)
	require.Equal(t, len(b), n)
	require.Equal(t, rec, got)
	require.Equal(t, 4, got.NALULengthSize())
}

func TestAVCDecoderConfRecordInvalid(t *testing.T) {
	t.Parallel()

	rec := AVCDecoderConfRecord{LengthSizeMinusOne: 3, SPS: [][]byte{testSPS}, PPS: [][]byte{testPPS}}
	valid := make([]byte, rec.Len())
	rec.Marshal(valid)

	badVersion := append([]byte(nil), valid...)
	badVersion[0] = 2

	tests := []struct {
		name string
		in   []byte
	}{
		{"short", valid[:5]},
		{"version", badVersion},
		{"sps body cut", valid[:10]},
		{"pps count missing", valid[:8+len(testSPS)]},
		{"pps body cut", valid[:len(valid)-1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got AVCDecoderConfRecord
			_, err := got.Unmarshal(tt.in)
			require.ErrorIs(t, err, ErrDecconfInvalid)
		})
	}
}

func TestSplitSample(t *testing.T) {
	t.Parallel()

	rec := AVCDecoderConfRecord{LengthSizeMinusOne: 1}
	nalus, err := rec.SplitSample([]byte{0, 2, 0x65, 0x88, 0, 1, 0x06})
	require.NoError(t, err)
	require.Equal(t, [][]byte{{0x65, 0x88}, {0x06}}, nalus)
	require.True(t, IsKeyFrame(nalus))
	require.Equal(t, uint8(NaluSPS), NALUType(testSPS))
	require.False(t, IsKeyFrame([][]byte{{0x41, 0x9a}}))
	require.Equal(t, uint8(0), NALUType(nil))
}
