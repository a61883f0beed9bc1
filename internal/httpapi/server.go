package httpapi

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/park285/hotseat-chess/internal/obslog"
	"github.com/park285/hotseat-chess/internal/presenter"
	"github.com/park285/hotseat-chess/internal/session"
)

const (
	maxJSONBodyBytes int64 = 1 << 16
	apiCSP                 = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
)

// Server exposes the session manager over HTTP and websocket.
type Server struct {
	games    *session.Manager
	view     *presenter.Presenter
	renderer presenter.BoardRenderer

	// streams is cancelled by Close; hijacked websocket connections are not
	// tracked by http.Server.Shutdown.
	streams     context.Context
	stopStreams context.CancelFunc

	srvMu sync.Mutex
	srv   *http.Server
}

func NewServer(games *session.Manager, view *presenter.Presenter, renderer presenter.BoardRenderer) *Server {
	streams, stop := context.WithCancel(context.Background())
	return &Server{games: games, view: view, renderer: renderer, streams: streams, stopStreams: stop}
}

// Listen serves until Close is called.
func (s *Server) Listen(addr string) error {
	// No read/write timeouts: websocket streams outlive a single request deadline.
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	obslog.L().Info("http_listen", zap.String("addr", addr))
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close ends open websocket streams and gracefully shuts the listener down.
func (s *Server) Close(ctx context.Context) error {
	s.stopStreams()
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/games", s.withJSON(s.handleCreate))
	mux.HandleFunc("GET /api/games/{id}", s.withJSON(s.handleGet))
	mux.HandleFunc("POST /api/games/{id}/moves", s.withJSON(s.handleMove))
	mux.HandleFunc("POST /api/games/{id}/goto", s.withJSON(s.handleGoTo))
	mux.HandleFunc("GET /api/games/{id}/legal", s.withJSON(s.handleLegal))
	mux.HandleFunc("GET /api/games/{id}/board.png", s.handleBoardPNG)
	mux.HandleFunc("GET /api/games/{id}/ws", s.handleWatch)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return accessLog(mux)
}

func (s *Server) withJSON(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", apiCSP)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		obslog.L().Debug("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
