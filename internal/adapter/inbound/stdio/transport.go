// Package stdio provides the stdio transport adapter for the MCP server.
package stdio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ares-mcp/ares-mcp-server/internal/adapter/inbound/mcpserver"
	"github.com/ares-mcp/ares-mcp-server/internal/ctxkey"
	"github.com/ares-mcp/ares-mcp-server/internal/port/inbound"
)

// StdioTransport is the inbound adapter that serves the MCP server over
// stdin/stdout. It implements the inbound.Transport interface.
type StdioTransport struct {
	server *mcpserver.Server
	logger *slog.Logger
	reader io.ReadCloser
	writer io.WriteCloser

	mu     sync.Mutex
	cancel context.CancelFunc
}

// Option configures a StdioTransport.
type Option func(*StdioTransport)

// WithIO serves the session over r and w instead of the process stdio.
func WithIO(r io.ReadCloser, w io.WriteCloser) Option {
	return func(t *StdioTransport) {
		t.reader = r
		t.writer = w
	}
}

// WithLogger sets the logger handed to tool calls on this transport.
func WithLogger(logger *slog.Logger) Option {
	return func(t *StdioTransport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewStdioTransport creates a stdio transport adapter wrapping the given server.
func NewStdioTransport(server *mcpserver.Server, opts ...Option) *StdioTransport {
	t := &StdioTransport{
		server: server,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start serves one MCP session. It blocks until the client closes its end,
// the context is cancelled or Close is called.
// Stdout carries the protocol; logs must go to stderr.
func (t *StdioTransport) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()
	defer cancel()

	ctx = context.WithValue(ctx, ctxkey.LoggerKey{}, t.logger.With("transport", "stdio"))

	var transport mcp.Transport = &mcp.StdioTransport{}
	if t.reader != nil && t.writer != nil {
		transport = &mcp.IOTransport{Reader: t.reader, Writer: t.writer}
	}

	t.logger.Info("serving MCP over stdio")
	err := t.server.Run(ctx, transport)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Close stops a running session.
func (t *StdioTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	return nil
}

var _ inbound.Transport = (*StdioTransport)(nil)
