package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	sserrors "github.com/sentilo/sentilo-samples/pkg/errors"
)

// withMiddleware wraps application handlers with request id and rate limiting.
func (s *Server) withMiddleware(h http.HandlerFunc) http.HandlerFunc {
	return s.withRequestID(s.withRateLimit(h))
}

// withRequestID propagates a valid incoming X-Request-Id or assigns a new one.
func (s *Server) withRequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) withRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow() {
			w.Header().Set("Retry-After", "1")
			WriteError(w, r, http.StatusTooManyRequests, sserrors.ErrCodeRateLimitExceeded,
				"Rate limit exceeded", true, map[string]any{
					"limit": float64(s.config.RateLimit),
					"burst": s.config.RateLimitBurst,
				})
			return
		}
		next(w, r)
	}
}

// RequestID returns the request id assigned by the server middleware, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}
