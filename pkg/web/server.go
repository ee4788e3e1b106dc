package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/encyclopedia/internal/logging"
)

const (
	defaultReadHeaderTimeout = 5 * time.Second
	defaultShutdownTimeout   = 3 * time.Second
)

// Server runs an http.Server until its context is cancelled.
type Server struct {
	addr            string
	shutdownTimeout time.Duration
	logger          *slog.Logger
	srv             *http.Server
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithReadHeaderTimeout overrides the default 5s header read timeout.
func WithReadHeaderTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.srv.ReadHeaderTimeout = d
		}
	}
}

// WithShutdownTimeout bounds the graceful shutdown (default 3s).
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithServerLogger sets the logger for lifecycle messages.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer builds a Server listening on addr.
func NewServer(addr string, handler http.Handler, opts ...ServerOption) *Server {
	s := &Server{
		addr:            addr,
		shutdownTimeout: defaultShutdownTimeout,
		logger:          logging.Discard(),
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: defaultReadHeaderTimeout,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down http server")
		return s.srv.Shutdown(shutdownCtx)
	})

	eg.Go(func() error {
		s.logger.Info("listen and serve", "addr", ln.Addr().String())

		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	return eg.Wait()
}
