// Package server exposes the atom parser over HTTP. A client opens a movie
// file by path and then browses its atoms, tracks and samples.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ugparu/mp4atom/format/mp4"
	"github.com/ugparu/mp4atom/format/mp4/mp4io"
	"github.com/ugparu/mp4atom/internal/config"
	"github.com/ugparu/mp4atom/utils/logger"
)

var ErrTooManySessions = errors.New("server: too many open files")

// session is one opened file. Its demuxer owns a cursor, so requests on the
// same session are serialized by mu.
type session struct {
	mu     sync.Mutex
	id     uuid.UUID
	path   string
	opened time.Time
	dmx    *mp4.Demuxer
	closed bool
}

type Server struct {
	server    *http.Server
	router    *gin.Engine
	startOnce *sync.Once
	closeOnce *sync.Once
	deadChan  chan any

	cfg      *config.Config
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

func (s *Server) String() string {
	return fmt.Sprintf("MP4INSPECT_SERVER %s", s.server.Addr)
}

// New builds the router for cfg. Nothing listens until Start.
func New(cfg *config.Config) *Server {
	router := gin.New()
	router.Use(cors, gin.Recovery())
	if cfg.Pprof {
		pprof.Register(router)
	}

	s := &Server{
		server: &http.Server{
			Addr:              cfg.Listen,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second, //nolint:mnd
		},
		router:    router,
		deadChan:  make(chan any),
		startOnce: &sync.Once{},
		closeOnce: &sync.Once{},
		cfg:       cfg,
		sessions:  map[uuid.UUID]*session{},
	}

	router.POST("/files", s.openFile)
	files := router.Group("/files/:id", s.withSession)
	files.GET("/atoms", s.getAtoms)
	files.GET("/tracks", s.getTracks)
	files.GET("/tracks/:track/locate", s.locate)
	files.GET("/tracks/:track/samples/:n", s.getSample)
	files.DELETE("", s.closeFile)

	logger.Debug(s, "Initialized and set up")
	return s
}

func cors(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusOK)
		return
	}
	c.Next()
}

// Handler is the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Close. It returns once the listener stops.
func (s *Server) Start() {
	err := errors.New("HTTP server has been started already")
	s.startOnce.Do(func() {
		defer close(s.deadChan)

		logger.Info(s, "Starting listening")
		if err = s.server.ListenAndServe(); err != nil {
			logger.Warning(s, err.Error())
			err = nil
		}
	})
	if err != nil {
		logger.Error(s, err.Error())
	}
}

// Close stops the listener and closes every open file.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		logger.Warning(s, "Stopping and closing")
		if err := s.server.Close(); err != nil {
			logger.Error(s, err.Error())
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for id, sess := range s.sessions {
			sess.mu.Lock()
			sess.closed = true
			if err := sess.dmx.Close(); err != nil {
				logger.Warningf(s, "closing %s: %v", sess.path, err)
			}
			sess.mu.Unlock()
			delete(s.sessions, id)
		}
	})
}

func (s *Server) Dead() <-chan any {
	return s.deadChan
}

type openRequest struct {
	Path string `json:"path" binding:"required"`
}

type openResponse struct {
	ID       string           `json:"id"`
	Path     string           `json:"path"`
	Duration time.Duration    `json:"duration"`
	Streams  []mp4.StreamInfo `json:"streams"`
}

func (s *Server) openFile(c *gin.Context) {
	var req openRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.RLock()
	full := s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions
	s.mu.RUnlock()
	if full {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ErrTooManySessions.Error()})
		return
	}

	dmx := mp4.NewDemuxer(req.Path, mp4.WithMaxSampleSize(s.cfg.MaxSampleBytes))
	streams, err := dmx.Demux()
	if err != nil {
		_ = dmx.Close()
		logger.Warningf(s, "opening %s: %v", req.Path, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	sess := &session{id: uuid.New(), path: req.Path, opened: time.Now(), dmx: dmx}
	s.mu.Lock()
	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		_ = dmx.Close()
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ErrTooManySessions.Error()})
		return
	}
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	logger.Infof(s, "opened %s as %s", req.Path, sess.id)

	resp := openResponse{ID: sess.id.String(), Path: req.Path, Duration: dmx.Duration()}
	for _, st := range streams {
		resp.Streams = append(resp.Streams, st.Info())
	}
	c.JSON(http.StatusCreated, resp)
}

const sessionKey = "session"

// withSession looks up the file named by :id and holds its lock for the
// rest of the request.
func (s *Server) withSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown file " + id.String()})
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown file " + id.String()})
		return
	}
	c.Set(sessionKey, sess)
	c.Next()
}

func sessionOf(c *gin.Context) *session {
	return c.MustGet(sessionKey).(*session) //nolint:forcetypeassert
}

func (s *Server) closeFile(c *gin.Context) {
	sess := sessionOf(c)
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	sess.closed = true
	if err := sess.dmx.Close(); err != nil {
		logger.Warningf(s, "closing %s: %v", sess.path, err)
	}
	logger.Infof(s, "closed %s after %v", sess.id, time.Since(sess.opened).Round(time.Millisecond))
	c.Status(http.StatusNoContent)
}

func (s *Server) getAtoms(c *gin.Context) {
	nodes, err := sessionOf(c).dmx.Tree()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, nodes)
}

func (s *Server) getTracks(c *gin.Context) {
	var infos []mp4.StreamInfo
	for _, st := range sessionOf(c).dmx.Streams() {
		infos = append(infos, st.Info())
	}
	c.JSON(http.StatusOK, infos)
}

func (s *Server) stream(c *gin.Context) (*mp4.Stream, bool) {
	track, err := strconv.ParseUint(c.Param("track"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad track id: " + err.Error()})
		return nil, false
	}
	st, err := sessionOf(c).dmx.Stream(uint32(track))
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	return st, true
}

func (s *Server) locate(c *gin.Context) {
	st, ok := s.stream(c)
	if !ok {
		return
	}
	t, err := time.ParseDuration(c.DefaultQuery("t", "0s"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	loc, err := st.Locate(t)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (s *Server) getSample(c *gin.Context) {
	st, ok := s.stream(c)
	if !ok {
		return
	}
	n, err := strconv.ParseUint(c.Param("n"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad sample number: " + err.Error()})
		return
	}
	smp, err := sessionOf(c).dmx.ReadSampleAt(st, uint32(n))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("X-Sample-Offset", strconv.FormatUint(smp.Offset, 10))
	c.Header("X-Decode-Time", smp.DecodeTime.String())
	c.Header("X-Presentation-Time", smp.Presentation.String())
	c.Header("X-Key-Frame", strconv.FormatBool(smp.KeyFrame))
	c.Data(http.StatusOK, "application/octet-stream", smp.Data)
}

func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, mp4.ErrStreamNotFound), errors.Is(err, mp4io.ErrIndexOutOfRange):
		status = http.StatusNotFound
	case errors.Is(err, mp4.ErrSampleTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, mp4io.ErrTruncated), errors.Is(err, mp4io.ErrFramingViolation),
		errors.Is(err, mp4io.ErrHeaderMismatch), errors.Is(err, mp4io.ErrUnknownVariant),
		errors.Is(err, mp4io.ErrUnsupportedExtendedSize), errors.Is(err, mp4io.ErrMissingRequiredChild),
		errors.Is(err, mp4io.ErrInvalidEncoding):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
