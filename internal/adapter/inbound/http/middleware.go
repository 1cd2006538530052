// Package http provides the HTTP transport adapter for the MCP server.
package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/ares-mcp/ares-mcp-server/internal/ctxkey"
)

// requestIDHeader carries the correlation ID in both directions.
const requestIDHeader = "X-Request-ID"

// requestIDPattern bounds caller-supplied IDs before they reach logs.
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestIDMiddleware puts a request ID and a logger carrying it into the
// request context, and echoes the ID in the response. A caller's
// X-Request-ID is kept when well-formed; otherwise a UUID is issued.
func RequestIDMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if !requestIDPattern.MatchString(requestID) {
				requestID = uuid.NewString()
			}
			ctx := ctxkey.WithRequestID(r.Context(), requestID, logger)

			w.Header().Set(requestIDHeader, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggerFromContext returns the request logger, or slog.Default.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return ctxkey.Logger(ctx, slog.Default())
}

// OriginCheck blocks browser requests from pages the operator has not
// trusted. Requests without an Origin header pass, as do loopback origins
// and those listed in allowedOrigins (compared case-insensitively, ignoring
// a trailing slash).
func OriginCheck(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[normalizeOrigin(origin)] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || isLoopbackOrigin(origin) || allowed[normalizeOrigin(origin)] {
				next.ServeHTTP(w, r)
				return
			}
			LoggerFromContext(r.Context()).Warn("rejected cross-origin request", "origin", origin)
			http.Error(w, "Forbidden: origin not allowed", http.StatusForbidden)
		})
	}
}

func normalizeOrigin(origin string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(origin), "/"))
}

// isLoopbackOrigin reports whether origin is an http(s) page served from
// localhost or a loopback address.
func isLoopbackOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := u.Hostname()
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
