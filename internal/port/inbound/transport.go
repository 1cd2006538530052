package inbound

import "context"

// Transport is the inbound port for a host-facing MCP transport.
// Inbound adapters (stdio, HTTP) implement this interface.
type Transport interface {
	// Start serves MCP hosts until the context is cancelled or an error occurs.
	// Returns nil on graceful shutdown, error on failure.
	Start(ctx context.Context) error

	// Close gracefully shuts down the transport and cleans up resources.
	Close() error
}
