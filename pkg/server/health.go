package server

import (
	"net/http"
	"time"

	sserrors "github.com/sentilo/sentilo-samples/pkg/errors"
	"github.com/sentilo/sentilo-samples/pkg/serializer"
)

const (
	statusHealthy  = "healthy"
	statusReady    = "ready"
	statusNotReady = "not_ready"
)

// handleHealth reports liveness. It never depends on the platform: a sample
// failing against Sentilo does not make the process unhealthy.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.allowGetOrHead(w, r) {
		return
	}
	serializer.RespondJSON(w, http.StatusOK, s.healthResponse(statusHealthy, ""))
}

// handleReady reports whether the listener is accepting sample requests.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.allowGetOrHead(w, r) {
		return
	}

	if ready, reason := s.readiness(); !ready {
		serializer.RespondJSON(w, http.StatusServiceUnavailable, s.healthResponse(statusNotReady, reason))
		return
	}
	serializer.RespondJSON(w, http.StatusOK, s.healthResponse(statusReady, ""))
}

func (s *Server) allowGetOrHead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	WriteError(w, r, http.StatusMethodNotAllowed, sserrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{"method": r.Method, "path": r.URL.Path})
	return false
}

func (s *Server) healthResponse(status, reason string) HealthResponse {
	return HealthResponse{
		Status:    status,
		Service:   s.name,
		Version:   s.version,
		Timestamp: time.Now().UTC(),
		Reason:    reason,
	}
}
