package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/quicksearch/internal/answer"
	"github.com/hyperifyio/quicksearch/internal/config"
	"github.com/hyperifyio/quicksearch/internal/fetch"
)

// Server wires the router, middleware, and search handlers for one deployed
// variant of the service.
type Server struct {
	router *chi.Mux
	server *http.Server
	cfg    config.Config
}

// Deps carries the external collaborators the handlers delegate to. Only the
// one matching the configured mode needs to be set.
type Deps struct {
	Answerer *answer.Answerer
	Fetcher  *fetch.Client
}

// New builds the server for cfg.Mode. The /search endpoint is bound to the
// completion path in answer mode and to the fetch-and-extract path in scrape
// mode; the rest of the surface is shared.
func New(cfg config.Config, deps Deps) *Server {
	h := &handler{cfg: cfg, answerer: deps.Answerer, fetcher: deps.Fetcher}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(recoverer)

	r.Get("/", h.index)
	r.Get("/health", h.health)
	switch cfg.Mode {
	case config.ModeScrape:
		r.Post("/search", h.scrapeSearch)
	default:
		r.Post("/search", h.answerSearch)
	}
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, "not found", time.Now())
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", time.Now())
	})

	return &Server{router: r, cfg: cfg}
}

// Start blocks serving requests until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	// The write timeout has to outlast the longest bounded task, with some
	// margin for response encoding.
	deadline := s.cfg.AnswerDeadline
	if s.cfg.Mode == config.ModeScrape {
		deadline = s.cfg.ScrapeDeadline
	}
	s.server = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: deadline + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Info().
		Str("addr", s.cfg.Addr).
		Str("mode", string(s.cfg.Mode)).
		Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down HTTP server")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
