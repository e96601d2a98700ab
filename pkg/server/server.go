// Package server exposes clip generation over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/haivivi/clipgen/pkg/jobs"
)

// Config wires the server to its collaborators.
type Config struct {
	Addr      string
	Runner    *jobs.Runner
	Metrics   http.Handler
	Logger    *slog.Logger
	StartTime time.Time
	Version   string
	// SaveAssets persists every generated clip to the runner's store.
	SaveAssets bool
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.StartTime.IsZero() {
		cfg.StartTime = time.Now()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:        cfg.Addr,
			Handler:     NewRouter(cfg),
			ReadTimeout: 15 * time.Second,
			// Runs poll for minutes; no write deadline.
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
