package mp4io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/mp4atom/internal/mp4test"
)

func unresolvedTags(ct *Container) []string {
	var tags []string
	for _, u := range ct.Unresolved() {
		tags = append(tags, u.Tag.String())
	}
	return tags
}

func TestReadFileClaimsRoles(t *testing.T) {
	t.Parallel()

	b, lay := mp4test.AVMovie().Build()
	c := newTestCursor(b)

	f, err := ReadFile(c)
	require.NoError(t, err)
	require.Equal(t, []string{"ftyp", "moov", "mdat"}, unresolvedTags(&f.Container))

	ftypRef, ok, err := f.FileType(c)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(0), ftypRef.Offset)
	require.Equal(t, []string{"moov", "mdat"}, unresolvedTags(&f.Container))

	moovRef, err := f.Movie(c)
	require.NoError(t, err)
	require.Equal(t, lay.MoovOffset, moovRef.Offset)
	require.Equal(t, lay.MdatOffset, moovRef.End())

	again, err := f.Movie(c)
	require.NoError(t, err)
	require.Equal(t, moovRef, again)
	require.Equal(t, []string{"mdat"}, unresolvedTags(&f.Container))

	mdats, err := f.MediaData(c)
	require.NoError(t, err)
	require.Len(t, mdats, 1)
	require.Empty(t, f.Unresolved())

	free, err := f.Free(c)
	require.NoError(t, err)
	require.Empty(t, free)

	ftyp, err := Resolve(ftypRef, c)
	require.NoError(t, err)
	require.Equal(t, "isom", ftyp.MajorBrand.String())
	require.True(t, ftyp.Compatible(StringToTag("avc1")))
	require.False(t, ftyp.Compatible(StringToTag("qt  ")))
}

func TestMovieChildrenTileBody(t *testing.T) {
	t.Parallel()

	b, _ := mp4test.AVMovie().Build()
	c := newTestCursor(b)
	f, err := ReadFile(c)
	require.NoError(t, err)
	moovRef, err := f.Movie(c)
	require.NoError(t, err)
	moov, err := Resolve(moovRef, c)
	require.NoError(t, err)

	var sum uint64
	for _, u := range moov.Unresolved() {
		sum += u.Length
	}
	require.Equal(t, moovRef.Length-HeaderSize, sum)
	require.Equal(t, []string{"mvhd", "trak", "trak"}, unresolvedTags(&moov.Container))

	tracks, err := moov.Tracks(c)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	require.Less(t, tracks[0].Offset, tracks[1].Offset)

	_, ok, err := moov.Extends(c)
	require.NoError(t, err)
	require.False(t, ok)

	hdrRef, err := moov.Header(c)
	require.NoError(t, err)
	mvhd, err := Resolve(hdrRef, c)
	require.NoError(t, err)
	require.Equal(t, uint32(1000), mvhd.TimeScale)
	require.Equal(t, uint64(3000), mvhd.Duration)
	require.Equal(t, uint32(3), mvhd.NextTrackId)
	require.InDelta(t, 1.0, mvhd.PreferredRate.Float(), 1e-9)
}

func TestContainerFraming(t *testing.T) {
	t.Parallel()

	mvhd := mp4test.MovieHeader(600, 0, 1).Encode()

	tests := []struct {
		name    string
		moov    *mp4test.Box
		wantErr error
		want    []string
	}{
		{
			name: "zero terminator",
			moov: mp4test.New("moov").Raw(mvhd).Zeros(4),
			want: []string{"mvhd"},
		},
		{
			name:    "non-zero terminator",
			moov:    mp4test.New("moov").Raw(mvhd).U32(7),
			wantErr: ErrFramingViolation,
		},
		{
			name:    "stray bytes",
			moov:    mp4test.New("moov").Raw(mvhd).Zeros(3),
			wantErr: ErrFramingViolation,
		},
		{
			name:    "child past parent end",
			moov:    mp4test.New("moov").Add(mp4test.New("udta").Zeros(4).Size(100)),
			wantErr: ErrFramingViolation,
		},
		{
			name:    "child extended size",
			moov:    mp4test.New("moov").Raw([]byte{0, 0, 0, 1, 'u', 'd', 't', 'a'}).Zeros(8),
			wantErr: ErrUnsupportedExtendedSize,
		},
		{
			name: "unknown children are kept",
			moov: mp4test.New("moov").Add(mp4test.New("abcd").Zeros(3)).Add(mp4test.New("udta")),
			want: []string{"abcd", "udta"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := tt.moov.Encode()
			moov, err := Resolve(NewReference[Movie](0, uint64(len(in))), newTestCursor(in))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, unresolvedTags(&moov.Container))
		})
	}
}

func TestRequiredChildMissing(t *testing.T) {
	t.Parallel()

	in := mp4test.New("moov").Add(mp4test.New("udta")).Encode()
	c := newTestCursor(in)
	moov, err := Resolve(NewReference[Movie](0, uint64(len(in))), c)
	require.NoError(t, err)

	_, err = moov.Header(c)
	require.ErrorIs(t, err, ErrMissingRequiredChild)
	require.Contains(t, err.Error(), "mvhd")

	udta, ok, err := moov.UserData(c)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(8), udta.Offset)
}

func TestClaimDetectsChangedBytes(t *testing.T) {
	t.Parallel()

	in := mp4test.New("moov").Add(mp4test.MovieHeader(600, 0, 1)).Encode()
	moov, err := Resolve(NewReference[Movie](0, uint64(len(in))), newTestCursor(in))
	require.NoError(t, err)

	changed := bytes.Clone(in)
	copy(changed[12:16], "free")
	_, err = moov.Header(newTestCursor(changed))
	require.ErrorIs(t, err, ErrHeaderMismatch)
}

func TestReadFileAtomsIsLenient(t *testing.T) {
	t.Parallel()

	b, _ := mp4test.VideoMovie().Build()
	b = append(b, 0, 0, 0, 3, 'j', 'u', 'n', 'k')

	atoms, err := ReadFileAtoms(newTestCursor(b))
	require.ErrorIs(t, err, ErrFramingViolation)
	require.Len(t, atoms, 3)
	require.Equal(t, MDAT, atoms[2].Tag)

	_, err = ReadFile(newTestCursor(b))
	require.ErrorIs(t, err, ErrFramingViolation)
}

func TestReadTree(t *testing.T) {
	t.Parallel()

	b, lay := mp4test.AVMovie().Build()
	nodes, err := ReadTree(newTestCursor(b))
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	require.Equal(t, "moov", nodes[1].Type)
	require.Equal(t, lay.MdatSize, nodes[2].Size)

	var out strings.Builder
	FprintAtoms(&out, nodes)
	listing := out.String()
	require.Contains(t, listing, "ftyp offset=0")
	require.Contains(t, listing, "\n        stbl offset=")
	require.Contains(t, listing, "avc1 offset=")
	require.Contains(t, listing, "mp4a offset=")
	require.Contains(t, listing, "url  offset=")
}
