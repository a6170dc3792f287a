package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"grocery-manager/internal/config"

	"github.com/labstack/echo/v4"
)

const shutdownTimeout = 10 * time.Second

// Server runs the list backend until its context is cancelled
type Server struct {
	echo   *echo.Echo
	cfg    *config.ServerConfig
	logger *slog.Logger
}

// New wraps a router built by NewRouter
func New(e *echo.Echo, cfg *config.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout
	return &Server{echo: e, cfg: cfg, logger: logger}
}

// Run listens on the configured address and shuts down gracefully once ctx
// is done.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("list backend listening", slog.String("address", s.cfg.Address()))
		if err := s.echo.Start(s.cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down list backend")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
