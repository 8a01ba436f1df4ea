// Package api exposes the processing pipeline over HTTP. The batch contract
// mirrors the CLI: {success, clips, errors}. No authentication or rate
// limiting; the server is meant to sit behind a front end that provides both.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/clipsmith/shortclips/internal/config"
)

type ServerConfig struct {
	App    config.Config
	Logger *slog.Logger

	// Run and Info default to the real pipeline and downloader; tests
	// substitute fakes.
	Run  Runner
	Info InfoFetcher
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

func NewServer(cfg ServerConfig) *Server {
	router := NewRouter(cfg)
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0, // batches run long; let the handler finish
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
