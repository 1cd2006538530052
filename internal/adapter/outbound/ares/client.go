// Package ares provides the HTTP adapter for the ARES business registry API.
package ares

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ares-mcp/ares-mcp-server/internal/domain/ratelimit"
	"github.com/ares-mcp/ares-mcp-server/internal/domain/registry"
	"github.com/ares-mcp/ares-mcp-server/internal/port/outbound"
	"github.com/ares-mcp/ares-mcp-server/internal/telemetry"
)

const (
	// DefaultBaseURL is the public ARES REST endpoint.
	DefaultBaseURL = "https://ares.gov.cz/ekonomicke-subjekty-v-be/rest"

	// RequestTimeout bounds every registry call.
	RequestTimeout = 30 * time.Second

	// maxResponseBodySize caps how much of a response body is read.
	maxResponseBodySize = 10 * 1024 * 1024 // 10MB

	// maxErrorBodySize caps the raw body echoed into an error message.
	maxErrorBodySize = 512
)

// Client calls the registry API. Every request first acquires a slot from the
// rate limiter. It implements the outbound.RegistryRequester interface and is
// safe for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	authToken  string
	httpClient *http.Client
	limiter    ratelimit.Limiter
	logger     *slog.Logger
	metrics    *telemetry.Metrics
	tracer     trace.Tracer
}

// ClientOption is a functional option for configuring Client.
type ClientOption func(*Client)

// WithBaseURL overrides the registry endpoint.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithAuthToken adds an "Authorization: Bearer" header when token is non-empty.
func WithAuthToken(token string) ClientOption {
	return func(c *Client) {
		c.authToken = token
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records request counts and latencies.
func WithMetrics(m *telemetry.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTracer sets the tracer used for request spans.
func WithTracer(t trace.Tracer) ClientOption {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// NewClient creates a registry client that admits requests through limiter.
func NewClient(limiter ratelimit.Limiter, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: "ARES-MCP-Server",
		httpClient: &http.Client{
			Timeout: RequestTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: limiter,
		logger:  slog.Default(),
		tracer:  telemetry.Tracer(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Do waits for rate-limit quota, then issues one registry request.
// Non-2xx statuses and transport failures are returned as
// *registry.TransportError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (any, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, &registry.TransportError{Cause: err}
	}

	ctx, span := c.tracer.Start(ctx, "registry "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	start := time.Now()
	result, status, err := c.do(ctx, method, path, query, body)

	code := "transport"
	if status != 0 {
		code = strconv.Itoa(status)
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	c.metrics.ObserveRegistryRequest(method, code, time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("registry request failed",
			"method", method,
			"path", path,
			"status", status,
			"error", err,
		)
		return nil, err
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (any, int, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, 0, &registry.TransportError{Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &registry.TransportError{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, resp.StatusCode, &registry.TransportError{Cause: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, &registry.TransportError{
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(raw),
		}
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return map[string]any{"text": string(raw)}, resp.StatusCode, nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, resp.StatusCode, nil
	}

	var result any
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, resp.StatusCode, &registry.TransportError{Cause: fmt.Errorf("invalid JSON response: %w", err)}
	}
	return result, resp.StatusCode, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	return req, nil
}

// errorDetail extracts the "detail" field from a JSON error body, falling
// back to the trimmed raw body.
func errorDetail(raw []byte) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != nil {
		if s, ok := payload.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(payload.Detail); err == nil {
			return string(b)
		}
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > maxErrorBodySize {
		cut := maxErrorBodySize
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

var _ outbound.RegistryRequester = (*Client)(nil)
