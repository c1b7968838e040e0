// Package server exposes the render pipeline over HTTP.
//
// Routes:
//
//	POST /v1/render/{format}  render a mapping; format is svg, dot, html or any Graphviz -T value
//	GET  /healthz             engine probe
//	GET  /metrics             Prometheus metrics, when a handler is configured
//
// The render body is a JSON (or YAML) document:
//
//	{
//	  "modules":  {"a.js": ["b.js"], "b.js": []},
//	  "circular": [["a.js", "b.js"]],
//	  "config":   {"rankdir": "TB", "groups": [{"name": "cluster_lib", "patterns": ["lib/*"]}]}
//	}
//
// "circular" and "config" are optional. Passing detect_cycles=true in the
// query computes the cycle list when none is given.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/modgraph/pkg/config"
	"github.com/matzehuels/modgraph/pkg/output"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Renderer *output.Renderer
	Config   *config.Config
	Logger   *log.Logger

	// Metrics serves GET /metrics when set.
	Metrics http.Handler
}

// Server is the HTTP render API.
type Server struct {
	renderer *output.Renderer
	cfg      *config.Config
	logger   *log.Logger
	router   chi.Router
}

// New builds the router. A nil Config uses config.Default and a nil Logger
// discards output.
func New(opts Options) *Server {
	s := &Server{
		renderer: opts.Renderer,
		cfg:      opts.Config,
		logger:   opts.Logger,
	}
	if s.cfg == nil {
		s.cfg = config.Default()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Post("/v1/render/{format}", s.handleRender)
	r.Get("/healthz", s.handleHealth)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
