package server

import (
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// System endpoints (no rate limiting)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	// Application endpoints with middleware
	for _, path := range s.handlerPaths() {
		mux.HandleFunc(path, s.withMiddleware(s.handlers[path]))
	}

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelError)),
		handlers.PrintRecoveryStack(false),
	)

	return handlers.CustomLoggingHandler(io.Discard, recovery(mux), logAccess)
}

func (s *Server) handlerPaths() []string {
	paths := make([]string, 0, len(s.handlers))
	for p := range s.handlers {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// logAccess writes one structured line per request.
func logAccess(_ io.Writer, p handlers.LogFormatterParams) {
	slog.Debug("request served",
		"method", p.Request.Method,
		"path", p.URL.Path,
		"status", p.StatusCode,
		"size", p.Size,
		"remote_addr", p.Request.RemoteAddr,
		"user_agent", p.Request.UserAgent(),
		"duration", time.Since(p.TimeStamp).String(),
	)
}
