package http

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ares-mcp/ares-mcp-server/internal/adapter/inbound/mcpserver"
	"github.com/ares-mcp/ares-mcp-server/internal/ctxkey"
	"github.com/ares-mcp/ares-mcp-server/internal/telemetry"
)

// newTestTransport creates an HTTPTransport backed by the real dispatcher
// with a registry that always fails.
func newTestTransport(t *testing.T, opts ...Option) *HTTPTransport {
	t.Helper()
	srv := mcpserver.New(newDispatcher(), "test", discardLogger())
	opts = append([]Option{WithAddr("127.0.0.1:0"), WithLogger(discardLogger())}, opts...)
	return NewHTTPTransport(srv, opts...)
}

// startTestServer serves the transport's handler on a random port.
func startTestServer(t *testing.T, transport *HTTPTransport) string {
	t.Helper()
	server := httptest.NewServer(transport.Handler())
	t.Cleanup(server.Close)
	return server.URL
}

func TestRouting_HealthRoute(t *testing.T) {
	baseURL := startTestServer(t, newTestTransport(t))

	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestRouting_MetricsRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)
	baseURL := startTestServer(t, newTestTransport(t, WithMetrics(reg, metrics)))

	// One MCP request so the HTTP counters have a sample.
	req, _ := http.NewRequest(http.MethodGet, baseURL+"/mcp", nil)
	if resp, err := http.DefaultClient.Do(req); err == nil {
		resp.Body.Close()
	}

	resp, err := http.Get(baseURL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "ares_mcp_http_requests_total") {
		t.Errorf("GET /metrics body missing ares_mcp_http_requests_total:\n%s", body)
	}
}

func TestRouting_FaviconNoContent(t *testing.T) {
	baseURL := startTestServer(t, newTestTransport(t))

	resp, err := http.Get(baseURL + "/favicon.ico")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("GET /favicon.ico status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
}

func TestRouting_MCPPaths(t *testing.T) {
	baseURL := startTestServer(t, newTestTransport(t))

	for _, path := range []string{"/mcp", "/"} {
		t.Run(path, func(t *testing.T) {
			ctx := context.Background()
			client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
			cs, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: baseURL + path}, nil)
			if err != nil {
				t.Fatalf("Connect(%s) error: %v", path, err)
			}
			defer func() { _ = cs.Close() }()

			res, err := cs.CallTool(ctx, &mcp.CallToolParams{
				Name:      "validovat_ico",
				Arguments: map[string]any{"ico": "123"},
			})
			if err != nil {
				t.Fatalf("CallTool() error: %v", err)
			}
			text := res.Content[0].(*mcp.TextContent).Text
			if !strings.Contains(text, `"validFormat": false`) {
				t.Errorf("text = %q, want validFormat false", text)
			}
		})
	}
}

func TestRouting_RejectsForeignOrigin(t *testing.T) {
	baseURL := startTestServer(t, newTestTransport(t, WithAllowedOrigins([]string{"http://localhost:3000"})))

	tests := []struct {
		origin string
		want   int
	}{
		{"https://evil.example", http.StatusForbidden},
	}
	for _, tt := range tests {
		req, _ := http.NewRequest(http.MethodPost, baseURL+"/mcp", strings.NewReader(`{}`))
		req.Header.Set("Origin", tt.origin)
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.want {
			t.Errorf("Origin %s status = %d, want %d", tt.origin, resp.StatusCode, tt.want)
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var gotID string
	handler := RequestIDMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = ctxkey.RequestID(r.Context())
		LoggerFromContext(r.Context()).Info("handled")
	}))

	t.Run("propagates header", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if gotID != "abc-123" {
			t.Errorf("request ID = %q, want abc-123", gotID)
		}
		if rec.Header().Get("X-Request-ID") != "abc-123" {
			t.Errorf("X-Request-ID = %q, want abc-123", rec.Header().Get("X-Request-ID"))
		}
		if !strings.Contains(buf.String(), "request_id=abc-123") {
			t.Errorf("log = %q, want request_id=abc-123", buf.String())
		}
	})

	t.Run("replaces malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		req.Header.Set("X-Request-ID", "bad id\nlevel=ERROR")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if strings.Contains(gotID, " ") || gotID == "" {
			t.Errorf("request ID = %q, want a generated ID", gotID)
		}
		if rec.Header().Get("X-Request-ID") != gotID {
			t.Errorf("X-Request-ID = %q, want %q", rec.Header().Get("X-Request-ID"), gotID)
		}
	})

	t.Run("generates when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))

		if gotID == "" || gotID == "abc-123" {
			t.Errorf("request ID = %q, want a fresh ID", gotID)
		}
		if rec.Header().Get("X-Request-ID") != gotID {
			t.Errorf("X-Request-ID = %q, want %q", rec.Header().Get("X-Request-ID"), gotID)
		}
	})
}

func TestOriginCheck(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    int
	}{
		{"no origin", nil, "", http.StatusOK},
		{"localhost with empty allowlist", nil, "http://localhost:3000", http.StatusOK},
		{"loopback v4", nil, "http://127.0.0.1:8080", http.StatusOK},
		{"loopback v6", nil, "http://[::1]:8080", http.StatusOK},
		{"foreign with empty allowlist", nil, "https://app.example.cz", http.StatusForbidden},
		{"localhost lookalike", nil, "http://localhost.attacker.test", http.StatusForbidden},
		{"non-http scheme", nil, "file://localhost", http.StatusForbidden},
		{"listed origin", []string{"https://app.example.cz"}, "https://app.example.cz", http.StatusOK},
		{"listed with trailing slash", []string{"https://App.Example.cz/"}, "https://app.example.cz", http.StatusOK},
		{"unlisted origin", []string{"https://app.example.cz"}, "http://attacker.test", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			OriginCheck(tt.allowed)(next).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestTransport_StartAndShutdown(t *testing.T) {
	transport := newTestTransport(t)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- transport.Start(ctx)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for transport.Addr() == "" && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if transport.Addr() == "" {
		t.Fatal("transport did not bind an address")
	}

	resp, err := http.Get("http://" + transport.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Start() returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return within 5 seconds after cancel")
	}
}

func TestTransport_StartInvalidAddr(t *testing.T) {
	transport := newTestTransport(t, WithAddr("256.0.0.1:bad"))
	if err := transport.Start(context.Background()); err == nil {
		t.Error("Start() error = nil, want listen error")
	}
}

func TestTransport_CloseBeforeStart(t *testing.T) {
	if err := newTestTransport(t).Close(); err != nil {
		t.Errorf("Close() error = %v, want nil", err)
	}
}
