// Package server provides the HTTP API for roadrag.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/trafficlens/roadrag"
	"github.com/trafficlens/roadrag/config"
)

// Server is the HTTP server for the roadrag API.
type Server struct {
	pipeline *roadrag.Pipeline
	config   *config.ServerConfig
	logger   *slog.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(pipeline *roadrag.Pipeline, cfg *config.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		pipeline: pipeline,
		config:   cfg,
		logger:   logger.With("component", "server"),
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Post("/api/chat", s.handleChat)
	r.Get("/api/health", s.handleHealth)
	r.Get("/api/chat-history", s.handleHistory)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
