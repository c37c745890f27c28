package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nluthra2001/cpusched/internal/config"
)

// Server exposes simulations over a JSON API for timeline renderers.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.Config
	startTime time.Time
	sessions  *sessionStore
	seed      func() int64
}

// Option configures optional Server settings.
type Option func(*Server)

// WithSeedSource sets the seed source for random scenarios.
func WithSeedSource(fn func() int64) Option {
	return func(s *Server) {
		s.seed = fn
	}
}

// New creates a Server with all routes registered.
func New(cfg config.Config, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		sessions:  newSessionStore(),
		seed:      func() int64 { return time.Now().UnixNano() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/algorithms", s.handleAlgorithms)

		r.Route("/simulations", func(r chi.Router) {
			r.Post("/", s.handleCreateSimulation)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.withSession(s.handleGetSimulation))
				r.Delete("/", s.handleDeleteSimulation)
				r.Put("/config", s.withSession(s.handleSetConfig))
				r.Post("/step", s.withSession(s.handleStep))
				r.Post("/run", s.withSession(s.handleRun))
				r.Post("/undo", s.withSession(s.handleUndo))
				r.Post("/reset", s.withSession(s.handleReset))
				r.Post("/processes", s.withSession(s.handleAddProcess))
				r.Delete("/processes/{pid}", s.withSession(s.handleRemoveProcess))
				r.Get("/report", s.withSession(s.handleReport))
			})
		})
	})
}
