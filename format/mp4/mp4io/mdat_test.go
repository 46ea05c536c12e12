package mp4io

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/mp4atom/internal/mp4test"
)

func TestMediaDataReadAt(t *testing.T) {
	t.Parallel()

	in := append([]byte{0xee, 0xee}, mp4test.New("mdat").Raw([]byte("0123456789")).Encode()...)
	c := newTestCursor(in)
	m, err := Resolve(NewReference[MediaData](2, 18), c)
	require.NoError(t, err)
	require.Equal(t, uint64(10), m.DataOffset)
	require.Equal(t, uint64(10), m.DataSize)

	tests := []struct {
		name      string
		off, size uint64
		want      string
	}{
		{name: "start", off: 10, size: 3, want: "012"},
		{name: "whole payload", off: 10, size: 10, want: "0123456789"},
		{name: "tail", off: 18, size: 2, want: "89"},
		{name: "before payload", off: 9, size: 2},
		{name: "past payload", off: 19, size: 2},
		{name: "larger than payload", off: 10, size: 11},
	}
	for _, tt := range tests {
		b, err := m.ReadAt(c, tt.off, tt.size)
		if tt.want == "" {
			require.ErrorIs(t, err, ErrIndexOutOfRange, tt.name)
			require.False(t, m.Contains(tt.off, tt.size), tt.name)
			continue
		}
		require.NoError(t, err, tt.name)
		require.Equal(t, tt.want, string(b), tt.name)
	}
}

func TestScaleConversions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ticks uint64
		scale uint32
		want  time.Duration
	}{
		{ticks: 2500, scale: 1000, want: 2500 * time.Millisecond},
		{ticks: 1024, scale: 44100, want: 23219954 * time.Nanosecond},
		{ticks: 90000 * 3600 * 30, scale: 90000, want: 30 * time.Hour},
		{ticks: 5, scale: 0, want: 0},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ScaleToDuration(tt.ticks, tt.scale))
	}

	require.Equal(t, uint64(2500), DurationToScale(2500*time.Millisecond, 1000))
	require.Equal(t, uint64(44100), DurationToScale(time.Second, 44100))
	require.Equal(t, uint64(0), DurationToScale(-time.Second, 1000))
}

func TestMediaHeaderLanguage(t *testing.T) {
	t.Parallel()

	for lang, want := range map[uint16]string{0x55c4: "und", 0x15c7: "eng", 0: ""} {
		m := &MediaHeader{Language: lang}
		require.Equal(t, want, m.LanguageCode())
	}
}
