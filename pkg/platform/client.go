// Package platform is a minimal REST client for the Sentilo platform API.
//
// It implements the three operations used by the samples runner: querying the
// provider catalog, registering sensors and sending observations. Requests
// authenticate with the IDENTITY_KEY header. Non-2xx responses are returned as
// *Error (wrapped in a structured error) so callers can show the platform's
// own error payload.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sentilo/sentilo-samples/pkg/defaults"
	sserrors "github.com/sentilo/sentilo-samples/pkg/errors"
)

const (
	// IdentityKeyHeader carries the caller's identity token.
	IdentityKeyHeader = "IDENTITY_KEY"

	defaultUserAgent = "sentilo-samples"

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 64 << 10

	opGetSensors       = "get_sensors"
	opRegisterSensors  = "register_sensors"
	opSendObservations = "send_observations"
)

// CatalogOps queries and updates the provider catalog.
type CatalogOps interface {
	GetSensors(ctx context.Context, msg *CatalogInputMessage) (*CatalogOutputMessage, error)
	RegisterSensors(ctx context.Context, msg *CatalogInputMessage) error
}

// DataOps publishes sensor observations.
type DataOps interface {
	SendObservations(ctx context.Context, msg *DataInputMessage) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// Client talks to one platform API endpoint. It is safe for concurrent use.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a Client for the platform at host (e.g. http://127.0.0.1:8081).
func NewClient(host string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(host))
	if err != nil {
		return nil, fmt.Errorf("invalid platform host %q: %w", host, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid platform host %q: scheme must be http or https", host)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid platform host %q: missing host", host)
	}

	c := &Client{
		base:       u,
		httpClient: &http.Client{Timeout: defaults.PlatformRequestTimeout},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Catalog returns the catalog operations.
func (c *Client) Catalog() CatalogOps {
	return c
}

// Data returns the data operations.
func (c *Client) Data() DataOps {
	return c
}

// GetSensors returns the catalog of msg.ProviderID as seen by msg.IdentityToken.
func (c *Client) GetSensors(ctx context.Context, msg *CatalogInputMessage) (*CatalogOutputMessage, error) {
	if msg == nil {
		return nil, sserrors.New(sserrors.ErrCodeInvalidRequest, "catalog message cannot be nil")
	}

	q := url.Values{}
	for _, comp := range msg.Components {
		if comp.Component != "" {
			q.Add("component", comp.Component)
		}
	}
	for _, s := range msg.Sensors {
		if s.Sensor != "" {
			q.Add("sensor", s.Sensor)
		}
	}

	var out CatalogOutputMessage
	if err := c.do(ctx, opGetSensors, http.MethodGet, q, msg.IdentityToken, nil, &out, "catalog", msg.ProviderID); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterSensors registers msg.Sensors (and msg.Components) under msg.ProviderID.
func (c *Client) RegisterSensors(ctx context.Context, msg *CatalogInputMessage) error {
	if msg == nil {
		return sserrors.New(sserrors.ErrCodeInvalidRequest, "catalog message cannot be nil")
	}
	return c.do(ctx, opRegisterSensors, http.MethodPost, nil, msg.IdentityToken, msg, nil, "catalog", msg.ProviderID)
}

// SendObservations publishes msg's observations for msg.SensorID.
func (c *Client) SendObservations(ctx context.Context, msg *DataInputMessage) error {
	if msg == nil {
		return sserrors.New(sserrors.ErrCodeInvalidRequest, "data message cannot be nil")
	}
	return c.do(ctx, opSendObservations, http.MethodPut, nil, msg.IdentityToken, msg.SensorObservations, nil, "data", msg.ProviderID, msg.SensorID)
}

func (c *Client) do(ctx context.Context, op, method string, query url.Values, token string, in, out any, segments ...string) (err error) {
	start := time.Now()
	defer func() {
		platformRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		status := "success"
		if err != nil {
			status = "error"
		}
		platformRequestTotal.WithLabelValues(op, status).Inc()
	}()

	escaped := make([]string, len(segments))
	for i, s := range segments {
		if s == "." || s == ".." {
			return sserrors.WrapWithContext(sserrors.ErrCodeInvalidRequest, "invalid path segment", nil,
				map[string]any{"operation": op, "segment": s})
		}
		escaped[i] = url.PathEscape(s)
	}
	u := c.base.JoinPath(escaped...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if encErr := json.NewEncoder(buf).Encode(in); encErr != nil {
			return sserrors.Wrap(sserrors.ErrCodeInternal, "failed to encode request body", encErr)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return sserrors.Wrap(sserrors.ErrCodeInternal, "failed to create request", err)
	}
	req.Header.Set(IdentityKeyHeader, token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("platform request", "operation", op, "method", method, "url", u.Redacted())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return sserrors.WrapWithContext(codeFromTransport(err), fmt.Sprintf("%s %s failed", method, u.Path), err,
			map[string]any{"operation": op})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		pe := &Error{StatusCode: resp.StatusCode, Body: string(raw)}
		return sserrors.WrapWithContext(codeFromStatus(resp.StatusCode), fmt.Sprintf("%s %s failed", method, u.Path), pe,
			map[string]any{"operation": op, "status": resp.StatusCode})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return sserrors.Wrap(sserrors.ErrCodeUnavailable, "failed to read response body", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return sserrors.Wrap(sserrors.ErrCodeInternal, "failed to decode response body", err)
	}
	return nil
}
