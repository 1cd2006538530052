// Package inbound defines the inbound port interfaces for the tool core.
// Inbound adapters (MCP stdio, MCP HTTP, CLI) call these interfaces.
package inbound

import (
	"context"

	"github.com/ares-mcp/ares-mcp-server/internal/domain/tool"
)

// ToolInvoker is the inbound port for running registry tools.
type ToolInvoker interface {
	// Tools returns the catalog of callable tools.
	Tools() []tool.Tool

	// Invoke runs the named tool with arguments and returns its textual
	// result. It never fails: every error is rendered into the text.
	Invoke(ctx context.Context, name string, args map[string]any) string
}
