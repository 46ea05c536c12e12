package mp4io

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/mp4atom/internal/mp4test"
)

func TestDescribeVideo(t *testing.T) {
	t.Parallel()

	rec := mp4test.AVCRecord()
	avcC := make([]byte, rec.Len())
	rec.Marshal(avcC)
	entry := mp4test.VideoEntry("avc1", 320, 240).Add(
		mp4test.New("avcC").Raw(avcC),
		mp4test.New("pasp").U32(1).U32(1),
	)
	in := mp4test.Full("stsd", 0, 0).U32(1).Add(entry).Encode()
	c := newTestCursor(in)

	stsd, err := Resolve(NewReference[SampleDesc](0, uint64(len(in))), c)
	require.NoError(t, err)
	require.Len(t, stsd.Entries, 1)
	require.Equal(t, AVC1, stsd.Entries[0].Format)
	require.Equal(t, Frame{Offset: 16, Length: uint64(entry.Len())}, stsd.Entries[0].Frame)

	d, err := stsd.Describe(0, VIDE, c)
	require.NoError(t, err)
	require.Equal(t, AVC1, d.Tag())
	require.Equal(t, uint16(1), d.DataReferenceIndex())

	v, ok := d.(*VideoSampleEntry)
	require.True(t, ok)
	require.Equal(t, uint16(320), v.Width)
	require.Equal(t, uint16(240), v.Height)
	require.Equal(t, "mp4test", v.Compressor())

	ref, ok, err := v.AVCConfig(c)
	require.NoError(t, err)
	require.True(t, ok)
	conf, err := Resolve(ref, c)
	require.NoError(t, err)
	require.Equal(t, avcC, conf.Data)

	paspRef, ok, err := v.PixelAspect(c)
	require.NoError(t, err)
	require.True(t, ok)
	pasp, err := Resolve(paspRef, c)
	require.NoError(t, err)
	require.Equal(t, uint32(1), pasp.HSpacing)

	_, ok, err = v.HEVCConfig(c)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDescribeAudio(t *testing.T) {
	t.Parallel()

	entry := mp4test.AudioEntry("mp4a", 2, 48000).Add(mp4test.ElemStreamDesc(7, []byte{0x11, 0x90}))
	in := mp4test.Full("stsd", 0, 0).U32(1).Add(entry).Encode()
	c := newTestCursor(in)

	stsd, err := Resolve(NewReference[SampleDesc](0, uint64(len(in))), c)
	require.NoError(t, err)
	d, err := stsd.Describe(0, SOUN, c)
	require.NoError(t, err)
	a, ok := d.(*AudioSampleEntry)
	require.True(t, ok)
	require.Equal(t, uint32(2), a.Channels())
	require.InDelta(t, 48000.0, a.Rate(), 1e-9)

	ref, ok, err := a.ElemStreamDesc(c)
	require.NoError(t, err)
	require.True(t, ok)
	esds, err := Resolve(ref, c)
	require.NoError(t, err)
	require.Equal(t, uint16(7), esds.TrackId)
	require.Equal(t, uint8(0x40), esds.ObjectType)
	require.Equal(t, uint8(5), esds.StreamType)
	require.Equal(t, uint32(128000), esds.AvgBitrate)
	require.Equal(t, []byte{0x11, 0x90}, esds.DecConfig)
}

func TestDescribeErrors(t *testing.T) {
	t.Parallel()

	in := mp4test.Full("stsd", 0, 0).U32(1).Add(mp4test.New("tx3g").Zeros(8)).Encode()
	c := newTestCursor(in)
	stsd, err := Resolve(NewReference[SampleDesc](0, uint64(len(in))), c)
	require.NoError(t, err)

	_, err = stsd.Describe(0, TEXT, c)
	require.ErrorIs(t, err, ErrUnknownVariant)
	var uv *UnknownVariantError
	require.ErrorAs(t, err, &uv)
	require.Equal(t, TEXT, uv.Tag)
	require.Equal(t, uint64(16), uv.Offset)

	_, err = stsd.Describe(1, VIDE, c)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = stsd.Describe(0, VIDE, c)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestAudioEntryUnknownVersion(t *testing.T) {
	t.Parallel()

	in := mp4test.New("mp4a").Zeros(6).U16(1).U16(3).Zeros(18).Encode()
	_, err := Resolve(NewReference[AudioSampleEntry](0, uint64(len(in))), newTestCursor(in))
	require.ErrorIs(t, err, ErrUnknownVariant)
}

func TestDataRefer(t *testing.T) {
	t.Parallel()

	in := mp4test.Full("dref", 0, 0).U32(2).Add(
		mp4test.Full("url ", 0, 1),
		mp4test.Full("url ", 0, 0).Raw([]byte("http://example.com/a.mov\x00")),
	).Encode()
	c := newTestCursor(in)

	dref, err := Resolve(NewReference[DataRefer](0, uint64(len(in))), c)
	require.NoError(t, err)
	require.Len(t, dref.Entries, 2)
	require.Equal(t, URL, dref.Entries[0].Kind)

	self, err := dref.Entries[0].Resolve(c)
	require.NoError(t, err)
	require.True(t, self.SelfContained())

	ext, err := dref.Entries[1].Resolve(c)
	require.NoError(t, err)
	require.False(t, ext.SelfContained())
	require.Equal(t, "http://example.com/a.mov", ext.Location)

	bad := mp4test.Full("dref", 0, 0).U32(1).Add(mp4test.Full("cios", 0, 0)).Encode()
	_, err = Resolve(NewReference[DataRefer](0, uint64(len(bad))), newTestCursor(bad))
	require.ErrorIs(t, err, ErrUnknownVariant)
	var uv *UnknownVariantError
	require.ErrorAs(t, err, &uv)
	require.Equal(t, "cios", uv.Tag.String())
}
