// Package server provides the HTTP server hosting the samples handler.
//
// It owns the process-level HTTP concerns: system routes (/health, /ready,
// /metrics), request ids, rate limiting, panic recovery, access logging and
// graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Option is a functional option for configuring Server instances.
type Option func(*Server)

// WithName sets the server name used in logs.
func WithName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// WithVersion sets the server version used in logs.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithHandler registers application handlers by path. They are wrapped with
// the request id and rate limiting middleware.
func WithHandler(handlers map[string]http.HandlerFunc) Option {
	return func(s *Server) {
		for path, h := range handlers {
			s.handlers[path] = h
		}
	}
}

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// Server is the HTTP server.
type Server struct {
	name     string
	version  string
	config   *Config
	handlers map[string]http.HandlerFunc

	rateLimiter *rate.Limiter

	mu       sync.RWMutex
	ready    bool
	stopping bool
	addr     net.Addr
}

// New creates a Server with the provided options.
func New(opts ...Option) *Server {
	s := &Server{
		name:     "server",
		version:  "dev",
		config:   DefaultConfig(),
		handlers: map[string]http.HandlerFunc{},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.rateLimiter = rate.NewLimiter(s.config.RateLimit, s.config.RateLimitBurst)

	return s
}

// Handler returns the fully wired HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// Addr returns the bound listen address once Run is serving, or nil.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// readiness returns whether the server accepts requests and, when it does
// not, why.
func (s *Server) readiness() (bool, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.ready:
		return true, ""
	case s.stopping:
		return false, "service is shutting down"
	default:
		return false, "service is initializing"
	}
}

func (s *Server) setReady(ready bool, addr net.Addr) {
	s.mu.Lock()
	s.ready = ready
	s.addr = addr
	s.mu.Unlock()
}

func (s *Server) markStopping() {
	s.mu.Lock()
	s.ready = false
	s.stopping = true
	s.addr = nil
	s.mu.Unlock()
}

// Run serves until ctx is canceled or SIGINT/SIGTERM is received, then shuts
// down gracefully within ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.config.ListenAddress())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress(), err)
	}

	httpServer := &http.Server{
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server listening", "name", s.name, "version", s.version, "address", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	s.setReady(true, ln.Addr())
	notifySystemd(daemon.SdNotifyReady)

	g.Go(func() error {
		<-gctx.Done()
		s.markStopping()
		notifySystemd(daemon.SdNotifyStopping)

		slog.Info("shutting down server", "timeout", s.config.ShutdownTimeout.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// notifySystemd reports state to systemd. It is a no-op when not running
// under a notify-type unit.
func notifySystemd(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		slog.Warn("systemd notification failed", "state", state, "error", err)
		return
	}
	if sent {
		slog.Debug("systemd notified", "state", state)
	}
}
