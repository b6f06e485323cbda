package samples

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	sserrors "github.com/sentilo/sentilo-samples/pkg/errors"
	"github.com/sentilo/sentilo-samples/pkg/serializer"
	"github.com/sentilo/sentilo-samples/pkg/server"
)

var (
	//go:embed templates/samples.html
	templateFS embed.FS

	samplesTemplate = template.Must(template.ParseFS(templateFS, "templates/samples.html"))
)

// Response formats accepted by HandleSamples.
const (
	formatHTML = "html"
	formatJSON = "json"
	formatYAML = "yaml"
)

// Routes returns the paths served by HandleSamples.
func (r *Runner) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/":     r.HandleSamples,
		"/home": r.HandleSamples,
	}
}

// HandleSamples runs the sample and renders the outcome. The page is rendered
// with 200 OK whether or not the platform calls succeeded.
func (r *Runner) HandleSamples(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		server.WriteErrorFromErr(w, req, sserrors.WrapWithContext(sserrors.ErrCodeMethodNotAllowed,
			"Method not allowed", nil, map[string]any{"method": req.Method}), "", nil)
		return
	}

	if req.URL.Path != "/" && req.URL.Path != "/home" {
		server.WriteErrorFromErr(w, req, sserrors.WrapWithContext(sserrors.ErrCodeNotFound,
			"Resource not found", nil, map[string]any{"path": req.URL.Path}), "", nil)
		return
	}

	format := negotiateFormat(req)
	if format == "" {
		server.WriteErrorFromErr(w, req, sserrors.WrapWithContext(sserrors.ErrCodeInvalidRequest,
			"Unsupported format, valid formats are: html, json, yaml", nil,
			map[string]any{"format": req.URL.Query().Get("format")}), "", nil)
		return
	}

	outcome := r.Run(req.Context())

	w.Header().Set("Cache-Control", "no-store")

	switch format {
	case formatJSON:
		serializer.RespondJSON(w, http.StatusOK, outcome)
	case formatYAML:
		serializer.RespondYAML(w, http.StatusOK, outcome)
	default:
		respondHTML(w, http.StatusOK, outcome)
	}
}

// negotiateFormat picks the response format from ?format= or the Accept
// header. It returns "" for an unsupported ?format= value.
func negotiateFormat(req *http.Request) string {
	if f := strings.ToLower(strings.TrimSpace(req.URL.Query().Get("format"))); f != "" {
		switch f {
		case formatHTML, formatJSON, formatYAML:
			return f
		default:
			return ""
		}
	}

	accept := strings.ToLower(req.Header.Get("Accept"))
	switch {
	case strings.Contains(accept, "text/html"):
		return formatHTML
	case strings.Contains(accept, "application/json"):
		return formatJSON
	case strings.Contains(accept, "yaml"):
		return formatYAML
	default:
		return formatHTML
	}
}

func respondHTML(w http.ResponseWriter, statusCode int, outcome *Outcome) {
	buf := &bytes.Buffer{}
	if err := samplesTemplate.Execute(buf, outcome); err != nil {
		slog.Error("template rendering failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("response write failed", "error", err)
	}
}
