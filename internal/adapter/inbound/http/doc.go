// Package http provides the Streamable HTTP transport for the ARES MCP server.
//
// The MCP protocol handling itself is done by the official Go SDK's
// Streamable HTTP handler; this package adds routing, middleware, health
// and Prometheus endpoints around it.
//
// # Usage
//
//	transport := http.NewHTTPTransport(mcpServer,
//	    http.WithAddr("127.0.0.1:8080"),
//	    http.WithAllowedOrigins([]string{"https://example.com"}),
//	    http.WithHealthChecker(http.NewHealthChecker(limiter, dispatcher, version)),
//	    http.WithMetrics(reg, metrics),
//	    http.WithLogger(logger),
//	)
//	err := transport.Start(ctx)
//
// # Endpoints
//
//	/health  - JSON component health, 503 when unhealthy
//	/metrics - Prometheus exposition
//	/mcp     - Streamable HTTP MCP endpoint (also served on /)
//
// # Middleware Chain
//
// MCP requests pass through, outermost first:
//
//  1. MetricsMiddleware - Records duration and status
//  2. RequestIDMiddleware - Keeps a well-formed X-Request-ID or issues one
//  3. OriginCheck - Allows loopback and configured origins only
//
// The request ID is echoed back in the X-Request-ID response header.
package http
