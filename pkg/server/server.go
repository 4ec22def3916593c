// Package server exposes the layout pipeline over HTTP.
//
// # Routes
//
//	GET    /healthz                                liveness and build info
//	POST   /v1/layouts                             lay out a chart document, store the result
//	GET    /v1/layouts                             list stored layouts, newest first
//	GET    /v1/layouts/{id}                        fetch a stored layout
//	DELETE /v1/layouts/{id}                        remove a stored layout
//	GET    /v1/layouts/{id}/render.{format}        render a stored layout (svg, png, json)
//	POST   /v1/render.{format}                     lay out and render in one step
//	POST   /v1/batch                               lay out several documents concurrently
//
// Chart documents may be posted as JSON, YAML or TOML; the format is taken
// from the Content-Type header or the ?format= query parameter. Stored
// layouts must carry their rows inline, since the server cannot read the
// client's files.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/chartlayout/pkg/pipeline"
	"github.com/matzehuels/chartlayout/pkg/store"
)

// Server defaults.
const (
	DefaultAddr       = ":8080"
	DefaultBatchLimit = 4

	maxBodyBytes    = 10 << 20
	shutdownTimeout = 10 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router

	// BatchLimit bounds concurrent layout passes per batch request.
	BatchLimit int
}

// New builds a server over runner and st.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:     runner,
		store:      st,
		logger:     logger,
		BatchLimit: DefaultBatchLimit,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/render.{format}", s.handleRender)
		r.Post("/batch", s.handleBatch)

		r.Route("/layouts", func(r chi.Router) {
			r.Post("/", s.handleCreateLayout)
			r.Get("/", s.handleListLayouts)
			r.Get("/{id}", s.handleGetLayout)
			r.Delete("/{id}", s.handleDeleteLayout)
			r.Get("/{id}/render.{format}", s.handleRenderLayout)
		})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
