package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type named struct{}

func (*named) String() string { return "NAMED" }

type plain struct{}

func TestObjToString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		obj  any
		want string
	}{
		{"nil", nil, "NIL"},
		{"stringer", &named{}, "NAMED"},
		{"string", "demuxer", "demuxer"},
		{"pointer type name", &plain{}, "plain"},
		{"truncated", strings.Repeat("x", 30), strings.Repeat("x", objWidth)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, objToString(tt.obj))
		})
	}
}

func TestFormatPadsColumns(t *testing.T) {
	t.Parallel()

	line := format("obj", "msg")
	require.True(t, strings.HasPrefix(line, "|"+strings.Repeat(" ", objWidth-3)+"obj|msg"))
	require.Len(t, line, objWidth+lineWidth+2)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, lvl)

	lvl, err = ParseLevel("loud")
	require.Error(t, err)
	require.Equal(t, logrus.InfoLevel, lvl)
}

// Not parallel: the level and output are global.
func TestLevelsAndFlush(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	logrus.SetLevel(logrus.WarnLevel)
	Infof("test", "hidden %d", 1)
	Warningf("test", "shown %d", 2)
	Flush()
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown 2")

	Init(logrus.DebugLevel)
	Debugf(&named{}, "queued %s", "line")
	Flush()
	require.Contains(t, buf.String(), "queued line")
	require.Contains(t, buf.String(), "NAMED")
}
