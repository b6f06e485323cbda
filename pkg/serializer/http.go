package serializer

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"gopkg.in/yaml.v3"
)

// RespondJSON writes a JSON response with the given status code and data.
// It buffers the JSON encoding before writing headers to prevent partial responses.
func RespondJSON(w http.ResponseWriter, statusCode int, data any) {
	// Serialize first to detect errors before writing headers
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		slog.Error("json encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	respond(w, statusCode, "application/json", buf.Bytes())
}

// RespondYAML is RespondJSON for YAML.
func RespondYAML(w http.ResponseWriter, statusCode int, data any) {
	buf, err := marshalYAML(data)
	if err != nil {
		slog.Error("yaml encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	respond(w, statusCode, "application/yaml", buf)
}

func respond(w http.ResponseWriter, statusCode int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		// Connection is broken, log but can't recover
		slog.Warn("response write failed", "error", err)
	}
}

// marshalYAML encodes data, recovering from the panics yaml.v3 raises on
// unsupported types such as channels and functions.
func marshalYAML(data any) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, &yamlPanicError{value: r}
		}
	}()

	buf := &bytes.Buffer{}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type yamlPanicError struct {
	value any
}

func (e *yamlPanicError) Error() string {
	return "yaml encoding failed: " + toString(e.value)
}

func toString(v any) string {
	switch tv := v.(type) {
	case error:
		return tv.Error()
	case string:
		return tv
	default:
		return "unsupported value"
	}
}
