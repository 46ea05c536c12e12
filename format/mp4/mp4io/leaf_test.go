package mp4io

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/mp4atom/internal/mp4test"
)

func resolveBytes[T any, PT atomPtr[T]](b []byte) (*T, error) {
	return Resolve[T, PT](NewReference[T](0, uint64(len(b))), newTestCursor(b))
}

func TestLeafTrailingFill(t *testing.T) {
	t.Parallel()

	// 8 header + 24 fixed bytes + 8 name bytes
	b := mp4test.Full("hdlr", 0, 0).Tag("mhlr").Tag("vide").Zeros(12).Raw([]byte("Handler\x00")).Encode()
	require.Len(t, b, 40)

	h, err := resolveBytes[HandlerRefer](b)
	require.NoError(t, err)
	require.Equal(t, VIDE, h.SubType)
	require.Len(t, h.Name, 8)
	require.Equal(t, "Handler", h.DisplayName())
	off, size := h.Pos()
	require.Equal(t, uint64(0), off)
	require.Equal(t, uint64(40), size)
}

func TestLeafErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      []byte
		parse   func([]byte) error
		wantErr error
	}{
		{
			name: "count larger than body",
			in:   mp4test.Full("stts", 0, 0).U32(2).U32(3).U32(1000).Encode(),
			parse: func(b []byte) error {
				_, err := resolveBytes[TimeToSample](b)
				return err
			},
			wantErr: ErrFramingViolation,
		},
		{
			name: "partial element",
			in:   mp4test.Full("stts", 0, 0).U32(1).U32(3).U32(1000).U32(7).Encode(),
			parse: func(b []byte) error {
				_, err := resolveBytes[TimeToSample](b)
				return err
			},
			wantErr: ErrTruncated,
		},
		{
			name: "field past declared end",
			in:   mp4test.Full("mdhd", 0, 0).U32(0).U32(0).U32(1000).Encode(),
			parse: func(b []byte) error {
				_, err := resolveBytes[MediaHeader](b)
				return err
			},
			wantErr: ErrTruncated,
		},
		{
			name: "unread bytes before end",
			in:   mp4test.Full("smhd", 0, 0).U16(0).U16(0).U32(0).Encode(),
			parse: func(b []byte) error {
				_, err := resolveBytes[SoundMediaInfo](b)
				return err
			},
			wantErr: ErrFramingViolation,
		},
		{
			name: "wrong tag",
			in:   mp4test.Full("stsc", 0, 0).U32(0).Encode(),
			parse: func(b []byte) error {
				_, err := resolveBytes[TimeToSample](b)
				return err
			},
			wantErr: ErrHeaderMismatch,
		},
		{
			name: "invalid utf-8",
			in:   mp4test.Full("elng", 0, 0).Raw([]byte{'e', 0xff, 0}).Encode(),
			parse: func(b []byte) error {
				_, err := resolveBytes[ExtendedLanguage](b)
				return err
			},
			wantErr: ErrInvalidEncoding,
		},
		{
			name: "unterminated c string",
			in:   append(mp4test.Full("elng", 0, 0).Raw([]byte("en")).Encode(), 'x', 0),
			parse: func(b []byte) error {
				_, err := Resolve(NewReference[ExtendedLanguage](0, 14), newTestCursor(b))
				return err
			},
			wantErr: ErrTruncated,
		},
		{
			name: "source ends early",
			in:   mp4test.Full("stsz", 0, 0).U32(0).U32(2).U32(10).U32(20).Encode()[:20],
			parse: func(b []byte) error {
				_, err := Resolve(NewReference[SampleSize](0, 28), newTestCursor(b))
				return err
			},
			wantErr: ErrTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.parse(tt.in)
			require.ErrorIs(t, err, tt.wantErr)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			require.Equal(t, uint64(0), pe.Offset)
		})
	}
}

func TestResolveLengthMismatch(t *testing.T) {
	t.Parallel()

	b := mp4test.Full("stss", 0, 0).U32(1).U32(1).Encode()
	_, err := Resolve(NewReference[SyncSample](0, uint64(len(b))+4), newTestCursor(append(b, 0, 0, 0, 0)))
	require.ErrorIs(t, err, ErrFramingViolation)
}

func TestResolveIsPure(t *testing.T) {
	t.Parallel()

	b := mp4test.Full("stts", 0, 0).U32(2).U32(3).U32(1000).U32(1).U32(500).Encode()
	c := newTestCursor(b)
	ref := NewReference[TimeToSample](0, uint64(len(b)))

	first, err := Resolve(ref, c)
	require.NoError(t, err)
	second, err := Resolve(ref, c)
	require.NoError(t, err)
	require.Equal(t, first, second)

	other, err := Resolve(ref, newTestCursor(b))
	require.NoError(t, err)
	require.Equal(t, first, other)
	require.Equal(t, []TimeToSampleEntry{{Count: 3, Duration: 1000}, {Count: 1, Duration: 500}}, first.Entries)
}

func TestSampleSizeFixed(t *testing.T) {
	t.Parallel()

	stsz, err := resolveBytes[SampleSize](mp4test.Full("stsz", 0, 0).U32(64).U32(5).Encode())
	require.NoError(t, err)
	require.Empty(t, stsz.Entries)

	for _, n := range []uint32{1, 5, 6, 100} {
		size, ok := stsz.Size(n)
		require.True(t, ok)
		require.Equal(t, uint32(64), size)
	}

	empty := &SampleSize{SampleSize: 64}
	size, ok := empty.Size(1)
	require.True(t, ok)
	require.Equal(t, uint32(64), size)
}

func TestLeafPascalString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      []byte
		want    string
		wantErr error
	}{
		{
			name: "valid",
			in:   mp4test.New("name").U32(5).Raw([]byte("hello")).Encode(),
			want: "hello",
		},
		{
			name: "empty",
			in:   mp4test.New("name").U32(0).Encode(),
		},
		{
			name:    "invalid utf-8",
			in:      mp4test.New("name").U32(2).Raw([]byte{'a', 0xff}).Encode(),
			wantErr: ErrInvalidEncoding,
		},
		{
			name:    "length past atom end",
			in:      mp4test.New("name").U32(9).Raw([]byte("hello")).Encode(),
			wantErr: ErrTruncated,
		},
		{
			name:    "prefix past atom end",
			in:      mp4test.New("name").U16(0).Encode(),
			wantErr: ErrTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var pos AtomPos
			l, tag := beginLeafAny(newTestCursor(tt.in), &pos)
			require.Equal(t, "name", tag.String())
			got := l.pString()
			if tt.wantErr != nil {
				require.ErrorIs(t, l.err, tt.wantErr)
				return
			}
			require.NoError(t, l.finish())
			require.Equal(t, tt.want, got)
		})
	}
}

func TestChunkOffset64(t *testing.T) {
	t.Parallel()

	co64, err := resolveBytes[ChunkOffset64](mp4test.Full("co64", 0, 0).U32(2).U64(1<<33).U64(1<<34).Encode())
	require.NoError(t, err)
	require.Equal(t, CO64, co64.Tag())
	off, ok := co64.Offset(1)
	require.True(t, ok)
	require.Equal(t, uint64(1<<34), off)
}

func TestEditList(t *testing.T) {
	t.Parallel()

	v0 := mp4test.Full("elst", 0, 0).U32(2).U32(500).I32(-1).U32(0x10000).U32(2000).I32(0).U32(0x10000).Encode()
	v1 := mp4test.Full("elst", 1, 0).U32(1).U64(1<<32).I32(0).U32(250).U32(0x10000).Encode()

	e0, err := resolveBytes[EditList](v0)
	require.NoError(t, err)
	require.Len(t, e0.Entries, 2)
	require.Equal(t, int64(-1), e0.Entries[0].MediaTime)
	require.Equal(t, uint64(2000), e0.Entries[1].SegmentDuration)
	require.InDelta(t, 1.0, e0.Entries[1].MediaRate.Float(), 1e-9)

	e1, err := resolveBytes[EditList](v1)
	require.NoError(t, err)
	require.Equal(t, uint64(1<<32), e1.Entries[0].SegmentDuration)
	require.Equal(t, int64(250), e1.Entries[0].MediaTime)
}
