package server

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/edgeknife/pkg/knife"
	"github.com/matzehuels/edgeknife/pkg/store"
)

const (
	defaultMaxBodyBytes = 4 << 20
	shutdownTimeout     = 10 * time.Second
)

// Server serves graph documents from a store.
type Server struct {
	cfg   Config
	store store.Store
	log   *log.Logger
	knife knife.Options

	mu    sync.Mutex
	locks map[string]*graphLock
}

// graphLock is a per-graph mutex shared by the requests holding or waiting
// for it. The entry is dropped when the last of them unlocks.
type graphLock struct {
	sync.Mutex
	refs int
}

// New returns a server over st. A nil logger discards. knifeOpts configures
// every gesture the server runs; its Logger defaults to the server's.
func New(cfg Config, st store.Store, logger *log.Logger, knifeOpts knife.Options) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if knifeOpts.Logger == nil {
		knifeOpts.Logger = logger
	}
	return &Server{
		cfg:   cfg,
		store: st,
		log:   logger,
		knife: knifeOpts,
		locks: make(map[string]*graphLock),
	}
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))

	r.Get("/health", s.health)
	r.Route("/graphs", func(r chi.Router) {
		r.Get("/", s.listGraphs)
		r.Post("/", s.createGraph)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getGraph)
			r.Put("/", s.putGraph)
			r.Delete("/", s.deleteGraph)
			r.Post("/gestures", s.applyGestures)
			r.Get("/svg", s.renderSVG)
			r.Get("/live", s.live)
		})
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully. Live
// websocket sessions see the cancellation through their request context.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("server starting", "addr", s.cfg.Addr, "store", s.cfg.Store)

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// flavor returns requested, or the configured default when it is empty.
func (s *Server) flavor(requested string) string {
	if requested != "" {
		return requested
	}
	return s.cfg.Flavor
}

// lock serializes read-modify-write cycles on one graph. Callers validate id
// first.
func (s *Server) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &graphLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

func requestLogger(l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			l.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
