package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/mp4atom/format/mp4"
	"github.com/ugparu/mp4atom/format/mp4/mp4io"
	"github.com/ugparu/mp4atom/internal/mp4test"
)

func writeFixture(t *testing.T) (string, mp4test.Layout) {
	t.Helper()

	b, lay := mp4test.AVMovie().Build()
	path := filepath.Join(t.TempDir(), "av.mp4")
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path, lay
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level=error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	t.Parallel()

	path, lay := writeFixture(t)
	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name:     "tree",
			args:     []string{"tree", path},
			contains: []string{"ftyp offset=0", "moov offset=" + strconv.FormatUint(lay.MoovOffset, 10), "        stbl", "avc1", "mp4a"},
		},
		{
			name:     "tracks",
			args:     []string{"tracks", path},
			contains: []string{"duration 3s", "track 1: vide avc1, 3 samples, 3s, scale 1000, 320x240, und", "track 2: soun mp4a, 4 samples", "2 ch 44100 Hz, eng"},
		},
		{
			name:     "locate",
			args:     []string{"locate", path, "--track=1", "--time=2500ms"},
			contains: []string{"sample 3: chunk 2", "offset " + strconv.FormatUint(lay.SampleOffsets[1][2], 10), "size 8"},
		},
		{
			name:     "sample bytes",
			args:     []string{"sample", path, "--track=2", "--sample=2"},
			contains: []string{"sample 2 of track 2: 3 bytes", "21 11 12"},
		},
		{
			name:     "sample nalus",
			args:     []string{"sample", path, "--sample=2", "--nalus"},
			contains: []string{"key false", "nalu 0: type 1, 3 bytes", "nalu 1: type 6, 2 bytes"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := run(t, tt.args...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				require.Contains(t, out, s)
			}
		})
	}
}

func TestJSONOutput(t *testing.T) {
	t.Parallel()

	path, lay := writeFixture(t)

	out, err := run(t, "tracks", path, "--json")
	require.NoError(t, err)
	var infos []mp4.StreamInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 2)
	require.Equal(t, uint32(44100), infos[1].TimeScale)

	out, err = run(t, "locate", path, "--json", "--track=2", "--time=30ms")
	require.NoError(t, err)
	var loc mp4io.SampleLocation
	require.NoError(t, json.Unmarshal([]byte(out), &loc))
	require.Equal(t, uint32(2), loc.Sample)
	require.Equal(t, lay.SampleOffsets[2][1], loc.Offset)
}

func TestCommandErrors(t *testing.T) {
	t.Parallel()

	path, _ := writeFixture(t)
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"tracks", filepath.Join(t.TempDir(), "none.mp4")}},
		{"no file argument", []string{"tree"}},
		{"unknown track", []string{"locate", path, "--track=7"}},
		{"sample out of range", []string{"sample", path, "--sample=9"}},
		{"sample too large", []string{"sample", path, "--max-sample-bytes=4"}},
		{"nalus of audio", []string{"sample", path, "--track=2", "--nalus"}},
		{"bad log level", []string{"tracks", path, "--log-level=loud"}},
		{"missing config", []string{"tracks", path, "--config", filepath.Join(t.TempDir(), "none.yaml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := run(t, tt.args...)
			require.Error(t, err)
		})
	}
}
