package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	sserrors "github.com/sentilo/sentilo-samples/pkg/errors"
)

// Error is a non-2xx platform response. Body holds the raw response payload,
// which the platform usually sends as a JSON document {"code":..,"message":..}.
type Error struct {
	StatusCode int
	Body       string
}

// Error returns the raw response body, or the status text when the body is empty.
func (e *Error) Error() string {
	if b := strings.TrimSpace(e.Body); b != "" {
		return b
	}
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Message returns the text to display for err: the platform response body when
// err carries a platform Error, err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Error()
	}
	return err.Error()
}

func codeFromStatus(status int) sserrors.ErrorCode {
	switch {
	case status == http.StatusBadRequest:
		return sserrors.ErrCodeInvalidRequest
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return sserrors.ErrCodeUnauthorized
	case status == http.StatusNotFound:
		return sserrors.ErrCodeNotFound
	case status == http.StatusMethodNotAllowed:
		return sserrors.ErrCodeMethodNotAllowed
	case status == http.StatusTooManyRequests:
		return sserrors.ErrCodeRateLimitExceeded
	case status == http.StatusGatewayTimeout, status == http.StatusRequestTimeout:
		return sserrors.ErrCodeTimeout
	case status == http.StatusServiceUnavailable, status == http.StatusBadGateway:
		return sserrors.ErrCodeUnavailable
	default:
		return sserrors.ErrCodeInternal
	}
}

func codeFromTransport(err error) sserrors.ErrorCode {
	if errors.Is(err, context.DeadlineExceeded) {
		return sserrors.ErrCodeTimeout
	}
	return sserrors.ErrCodeUnavailable
}
