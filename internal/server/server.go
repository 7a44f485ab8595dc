// Package server exposes the QA document over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/huangsam/qapulse/core"
	"github.com/huangsam/qapulse/internal/contract"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server serves one workbook. All requests share a single loader so that concurrent
// regenerations are collapsed into one transform.
type Server struct {
	cfg     *contract.Config
	loader  *core.Loader
	history contract.HistoryStore
	router  chi.Router
}

// New builds a server for the configured workbook.
func New(cfg *contract.Config, mgr contract.CacheManager) *Server {
	s := &Server{
		cfg:    cfg,
		loader: core.NewLoader(cfg, mgr, core.GeneratedBy),
	}
	if mgr != nil {
		s.history = mgr.GetHistoryStore()
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(middleware.NoCache)

		r.Get("/health", s.handleHealth)
		r.Get("/qa-data", s.handleQAData)
		r.Get("/recommendations", s.handleRecommendations)
		r.Get("/data-source", s.handleDataSource)
		r.Post("/refresh", s.handleRefresh)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		_, _ = fmt.Fprintf(os.Stderr, "🌐 Serving %s on %s\n", s.cfg.WorkbookPath, s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}
