package mp4io

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadFrame(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      []byte
		want    Frame
		wantErr error
	}{
		{name: "header only", in: []byte{0, 0, 0, 8, 'f', 'r', 'e', 'e'}, want: Frame{Offset: 0, Length: 8}},
		{name: "with body", in: []byte{0, 0, 0x01, 0x00, 'f', 'r', 'e', 'e'}, want: Frame{Offset: 0, Length: 256}},
		{name: "to end of file", in: []byte{0, 0, 0, 0, 'm', 'd', 'a', 't'}, wantErr: ErrUnsupportedExtendedSize},
		{name: "extended size", in: []byte{0, 0, 0, 1, 'm', 'd', 'a', 't'}, wantErr: ErrUnsupportedExtendedSize},
		{name: "shorter than header", in: []byte{0, 0, 0, 7, 'f', 'r', 'e', 'e'}, wantErr: ErrFramingViolation},
		{name: "truncated length", in: []byte{0, 0}, wantErr: ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, err := ReadFrame(newTestCursor(tt.in))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, f)
			require.Equal(t, tt.want.Offset+tt.want.Length, f.End())
		})
	}
}

func TestPeekHeaderKeepsPosition(t *testing.T) {
	t.Parallel()

	c := newTestCursor([]byte{0xaa, 0, 0, 0, 12, 's', 't', 's', 'z', 1, 2, 3, 4})
	require.NoError(t, c.SeekAbsolute(1))

	f, tag, err := PeekHeader(c)
	require.NoError(t, err)
	require.Equal(t, Frame{Offset: 1, Length: 12}, f)
	require.Equal(t, STSZ, tag)
	require.Equal(t, uint64(1), c.Position())

	f, tag, err = ReadHeader(c)
	require.NoError(t, err)
	require.Equal(t, uint64(13), f.End())
	require.Equal(t, "stsz", tag.String())
	require.Equal(t, uint64(9), c.Position())
}
