// Package mcpserver binds the tool catalog to an MCP server built on the
// official Go SDK.
package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ares-mcp/ares-mcp-server/internal/domain/tool"
	"github.com/ares-mcp/ares-mcp-server/internal/port/inbound"
)

// Name is the implementation name reported to MCP hosts.
const Name = "ares-mcp-server"

const instructions = "Tools for the Czech ARES business registry: search economic subjects, " +
	"look them up by IČO, query source registers and validate IČO checksums."

// Server exposes a ToolInvoker to MCP hosts.
type Server struct {
	server  *mcp.Server
	invoker inbound.ToolInvoker
	logger  *slog.Logger
}

// New creates a Server registering every tool the invoker offers.
func New(invoker inbound.ToolInvoker, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{Name: Name, Version: version}, &mcp.ServerOptions{
			Instructions: instructions,
		}),
		invoker: invoker,
		logger:  logger,
	}
	for _, t := range invoker.Tools() {
		s.server.AddTool(toMCPTool(t), s.handler(string(t.Name)))
	}
	return s
}

// Run serves a single session over transport until the client disconnects
// or ctx is cancelled.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

// connect starts a session over transport without blocking.
func (s *Server) connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, transport, nil)
}

// HTTPHandler returns a Streamable HTTP handler serving this server.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// handler adapts a tool call into an Invoke. Malformed arguments are
// reported as tool output, never as a protocol error.
func (s *Server) handler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]any{}
		if req.Params != nil && len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				s.logger.Warn("invalid tool arguments", "tool", name, "error", err)
				return textResult("Error: invalid arguments: " + err.Error()), nil
			}
		}
		return textResult(s.invoker.Invoke(ctx, name, args)), nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toMCPTool(t tool.Tool) *mcp.Tool {
	return &mcp.Tool{
		Name:        string(t.Name),
		Title:       t.Title,
		Description: t.Description,
		InputSchema: t.InputSchema,
	}
}
