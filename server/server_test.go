package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/ugparu/mp4atom/format/mp4"
	"github.com/ugparu/mp4atom/format/mp4/mp4io"
	"github.com/ugparu/mp4atom/internal/config"
	"github.com/ugparu/mp4atom/internal/mp4test"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Listen:         "127.0.0.1:0",
		MaxSampleBytes: config.DefaultMaxSampleBytes,
		MaxSessions:    4,
	}
}

func writeFixture(t *testing.T) (string, mp4test.Layout) {
	t.Helper()

	b, lay := mp4test.AVMovie().Build()
	path := filepath.Join(t.TempDir(), "av.mp4")
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path, lay
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func open(t *testing.T, s *Server, path string) openResponse {
	t.Helper()

	w := do(t, s.Handler(), http.MethodPost, "/files", openRequest{Path: path})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp openResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestOpenAndBrowse(t *testing.T) {
	t.Parallel()

	path, lay := writeFixture(t)
	s := New(testConfig())
	t.Cleanup(s.Close)

	resp := open(t, s, path)
	_, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	require.Equal(t, path, resp.Path)
	require.Len(t, resp.Streams, 2)
	require.Equal(t, "vide", resp.Streams[0].Handler)
	require.Equal(t, 2, int(resp.Streams[1].Channels))

	h := s.Handler()
	base := "/files/" + resp.ID

	w := do(t, h, http.MethodGet, base+"/tracks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var infos []mp4.StreamInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &infos))
	require.Len(t, infos, 2)
	require.Equal(t, "avc1", infos[0].Format)
	require.Equal(t, 1, infos[0].SPS)
	require.Equal(t, uint32(4), infos[1].Samples)

	w = do(t, h, http.MethodGet, base+"/atoms", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var nodes []mp4io.Node
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nodes))
	require.Len(t, nodes, 3)
	require.Equal(t, "moov", nodes[1].Type)
	require.Equal(t, lay.MoovOffset, nodes[1].Offset)

	w = do(t, h, http.MethodGet, base+"/tracks/1/locate?t=1500ms", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var loc mp4io.SampleLocation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loc))
	require.Equal(t, uint32(2), loc.Sample)
	require.Equal(t, lay.SampleOffsets[1][1], loc.Offset)

	w = do(t, h, http.MethodGet, base+"/tracks/1/samples/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, mp4test.VideoTrack().Samples[0], w.Body.Bytes())
	require.Equal(t, strconv.FormatUint(lay.SampleOffsets[1][0], 10), w.Header().Get("X-Sample-Offset"))
	require.Equal(t, "true", w.Header().Get("X-Key-Frame"))
	require.Equal(t, "0s", w.Header().Get("X-Decode-Time"))

	w = do(t, h, http.MethodGet, base+"/tracks/2/samples/4", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, mp4test.AudioTrack().Samples[3], w.Body.Bytes())

	w = do(t, h, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, http.MethodGet, base+"/tracks", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestErrors(t *testing.T) {
	t.Parallel()

	path, _ := writeFixture(t)
	cfg := testConfig()
	cfg.MaxSampleBytes = 10
	s := New(cfg)
	t.Cleanup(s.Close)

	base := "/files/" + open(t, s, path).ID
	tests := []struct {
		name   string
		target string
		status int
	}{
		{"bad session id", "/files/nope/tracks", http.StatusBadRequest},
		{"unknown session", "/files/" + uuid.NewString() + "/tracks", http.StatusNotFound},
		{"bad track id", base + "/tracks/x/samples/1", http.StatusBadRequest},
		{"unknown track", base + "/tracks/9/samples/1", http.StatusNotFound},
		{"bad sample number", base + "/tracks/1/samples/-1", http.StatusBadRequest},
		{"sample out of range", base + "/tracks/1/samples/4", http.StatusNotFound},
		{"sample zero", base + "/tracks/1/samples/0", http.StatusNotFound},
		{"sample too large", base + "/tracks/1/samples/2", http.StatusRequestEntityTooLarge},
		{"bad time", base + "/tracks/1/locate?t=soon", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := do(t, s.Handler(), http.MethodGet, tt.target, nil)
			require.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestOpenErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	junk := filepath.Join(dir, "junk.mp4")
	require.NoError(t, os.WriteFile(junk, mp4test.New("free").Zeros(8).Encode(), 0o600))

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"no path", map[string]string{}, http.StatusBadRequest},
		{"missing file", openRequest{Path: filepath.Join(dir, "none.mp4")}, http.StatusUnprocessableEntity},
		{"no movie", openRequest{Path: junk}, http.StatusUnprocessableEntity},
	}
	s := New(testConfig())
	t.Cleanup(s.Close)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := do(t, s.Handler(), http.MethodPost, "/files", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestSessionLimit(t *testing.T) {
	t.Parallel()

	path, _ := writeFixture(t)
	cfg := testConfig()
	cfg.MaxSessions = 1
	s := New(cfg)

	open(t, s, path)
	w := do(t, s.Handler(), http.MethodPost, "/files", openRequest{Path: path})
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	s.Close()
	s.mu.RLock()
	require.Empty(t, s.sessions)
	s.mu.RUnlock()
}

func TestConcurrentOpensRespectLimit(t *testing.T) {
	t.Parallel()

	path, _ := writeFixture(t)
	cfg := testConfig()
	cfg.MaxSessions = 2
	s := New(cfg)
	t.Cleanup(s.Close)

	body, err := json.Marshal(openRequest{Path: path})
	require.NoError(t, err)

	const n = 8
	codes := make(chan int, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/files", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, req)
			codes <- w.Code
		}()
	}
	wg.Wait()
	close(codes)

	created := 0
	for code := range codes {
		if code == http.StatusCreated {
			created++
			continue
		}
		require.Equal(t, http.StatusServiceUnavailable, code)
	}
	require.Equal(t, cfg.MaxSessions, created)
	s.mu.RLock()
	require.Len(t, s.sessions, cfg.MaxSessions)
	s.mu.RUnlock()
}

func TestClosedSessionIsGone(t *testing.T) {
	t.Parallel()

	path, _ := writeFixture(t)
	s := New(testConfig())
	t.Cleanup(s.Close)

	resp := open(t, s, path)
	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)

	// a request that found the session before DELETE took it out of the map
	s.mu.RLock()
	sess := s.sessions[id]
	s.mu.RUnlock()
	sess.mu.Lock()
	sess.closed = true
	require.NoError(t, sess.dmx.Close())
	sess.mu.Unlock()

	w := do(t, s.Handler(), http.MethodGet, "/files/"+resp.ID+"/tracks/1/samples/1", nil)
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

	w = do(t, s.Handler(), http.MethodDelete, "/files/"+resp.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestAbortWithError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
	}{
		{mp4io.ErrTruncated, http.StatusUnprocessableEntity},
		{mp4io.ErrUnsupportedExtendedSize, http.StatusUnprocessableEntity},
		{mp4io.ErrHeaderMismatch, http.StatusUnprocessableEntity},
		{mp4io.ErrMissingRequiredChild, http.StatusUnprocessableEntity},
		{mp4io.ErrFramingViolation, http.StatusUnprocessableEntity},
		{mp4io.ErrInvalidEncoding, http.StatusUnprocessableEntity},
		{mp4io.ErrUnknownVariant, http.StatusUnprocessableEntity},
		{mp4io.ErrIndexOutOfRange, http.StatusNotFound},
		{mp4.ErrStreamNotFound, http.StatusNotFound},
		{mp4.ErrSampleTooLarge, http.StatusRequestEntityTooLarge},
		{os.ErrClosed, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			abortWithError(c, fmt.Errorf("reading atom: %w", tt.err))
			require.Equal(t, tt.status, w.Code)
			require.Contains(t, w.Body.String(), tt.err.Error())
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	s := New(testConfig())
	t.Cleanup(s.Close)

	w := do(t, s.Handler(), http.MethodOptions, "/files", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
