package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	sserrors "github.com/sentilo/sentilo-samples/pkg/errors"
	"github.com/sentilo/sentilo-samples/pkg/serializer"
)

// HTTPStatusFromCode maps a structured error code to an HTTP status.
func HTTPStatusFromCode(code sserrors.ErrorCode) int {
	switch code {
	case sserrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case sserrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case sserrors.ErrCodeNotFound:
		return http.StatusNotFound
	case sserrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case sserrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case sserrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case sserrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func retryableFromCode(code sserrors.ErrorCode) bool {
	switch code {
	case sserrors.ErrCodeTimeout, sserrors.ErrCodeUnavailable, sserrors.ErrCodeRateLimitExceeded, sserrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

// mergeDetails merges b into a copy of a. Returns nil when both are empty.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// WriteError writes error response
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code sserrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	errResp := ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	}

	serializer.RespondJSON(w, statusCode, errResp)
}

// WriteErrorFromErr writes err as an error response. Structured errors keep
// their code, message and context; anything else is reported as INTERNAL with
// fallbackMessage.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string, extraDetails map[string]any) {
	var se *sserrors.StructuredError
	if errors.As(err, &se) {
		details := mergeDetails(se.Context, extraDetails)
		if se.Cause != nil {
			details = mergeDetails(details, map[string]any{"error": se.Cause.Error()})
		}
		WriteError(w, r, HTTPStatusFromCode(se.Code), se.Code, se.Message, retryableFromCode(se.Code), details)
		return
	}

	details := extraDetails
	if err != nil {
		details = mergeDetails(extraDetails, map[string]any{"error": err.Error()})
	}
	WriteError(w, r, http.StatusInternalServerError, sserrors.ErrCodeInternal, fallbackMessage,
		retryableFromCode(sserrors.ErrCodeInternal), details)
}
