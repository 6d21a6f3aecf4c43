package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ShutdownTimeout bounds how long in-flight requests may run after a
// shutdown signal.
const ShutdownTimeout = 30 * time.Second

// Server wraps http.Server with graceful shutdown. Handlers get no read or
// write deadline; uploads and the quote proxy run as long as they need.
type Server struct {
	*http.Server

	logger *zap.Logger
}

// NewServer creates a Server for handler on addr.
func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Server: &http.Server{
			Addr:    addr,
			Handler: handler,
		},
		logger: logger,
	}
}

// ListenAndServe serves on tcp until SIGINT or SIGTERM, then drains.
func (srv *Server) ListenAndServe() error {
	addr := srv.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("net.Listen error: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.ServeContext(ctx, ln)
}

// ServeContext serves on ln until ctx is done, then shuts down gracefully.
// A clean shutdown returns nil.
func (srv *Server) ServeContext(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	srv.logger.Info("shutdown requested, draining HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		srv.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	srv.logger.Info("HTTP server shutdown success")
	return nil
}

// GraceServer starts an HTTP server with graceful shutdown.
func GraceServer(addr string, handler http.Handler) error {
	return NewServer(addr, handler, Logger).ListenAndServe()
}
