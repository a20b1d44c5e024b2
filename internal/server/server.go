package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pelicanmedia/pelican/internal/config"
	"github.com/pelicanmedia/pelican/pkg/interfaces"
)

// Server wraps the HTTP server with a graceful lifecycle.
type Server struct {
	httpServer *http.Server
	logger     interfaces.Logger
}

// New creates a server listening on the configured port.
func New(cfg *config.Config, handler http.Handler, logger interfaces.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		logger: logger,
	}
}

// Start blocks serving requests until Shutdown is called or the listener
// fails.
func (s *Server) Start() error {
	s.logger.Info("http server listening", interfaces.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
