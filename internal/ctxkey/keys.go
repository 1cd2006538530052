// Package ctxkey defines shared context key types used across multiple packages.
// This package should have no dependencies on other internal packages to avoid import cycles.
package ctxkey

import (
	"context"
	"log/slog"
)

// LoggerKey is the context key type for the enriched logger.
// Used by HTTP middleware to store the logger with its request_id field.
type LoggerKey struct{}

// RequestIDKey is the context key type for the request ID.
type RequestIDKey struct{}

// WithRequestID returns a copy of ctx carrying id and a logger enriched with it.
// A nil logger enriches slog.Default().
func WithRequestID(ctx context.Context, id string, logger *slog.Logger) context.Context {
	if logger == nil {
		logger = slog.Default()
	}
	ctx = context.WithValue(ctx, RequestIDKey{}, id)
	return context.WithValue(ctx, LoggerKey{}, logger.With("request_id", id))
}

// RequestID returns the request ID stored in ctx, if any.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequestIDKey{}).(string)
	return id, ok && id != ""
}

// Logger returns the enriched logger stored in ctx, or fallback.
func Logger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(LoggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return fallback
}
