package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ares-mcp/ares-mcp-server/internal/adapter/outbound/ares"
	"github.com/ares-mcp/ares-mcp-server/internal/adapter/outbound/memory"
	"github.com/ares-mcp/ares-mcp-server/internal/config"
	"github.com/ares-mcp/ares-mcp-server/internal/service"
	"github.com/ares-mcp/ares-mcp-server/internal/telemetry"
)

// components is the assembled application graph.
type components struct {
	registry   *prometheus.Registry
	metrics    *telemetry.Metrics
	limiter    *memory.SlidingWindowLimiter
	service    *service.RegistryService
	dispatcher *service.ToolDispatcher
}

// buildComponents wires limiter, registry client, services and metrics from cfg.
func buildComponents(cfg *config.Config, logger *slog.Logger) *components {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewMetrics(reg)

	limiter := memory.NewRateLimiter(cfg.RateLimit.Limiter(), memory.WithLogger(logger))
	telemetry.RegisterLimiterStats(reg, limiter.Stats)

	client := ares.NewClient(limiter,
		ares.WithBaseURL(cfg.Registry.BaseURL),
		ares.WithUserAgent(cfg.Registry.UserAgent),
		ares.WithAuthToken(cfg.AuthToken),
		ares.WithLogger(logger),
		ares.WithMetrics(metrics),
		ares.WithTracer(telemetry.Tracer()),
	)

	registrySvc := service.NewRegistryService(client, logger)
	dispatcher := service.NewToolDispatcher(registrySvc,
		service.WithDispatcherLogger(logger),
		service.WithDispatcherMetrics(metrics),
	)

	return &components{
		registry:   reg,
		metrics:    metrics,
		limiter:    limiter,
		service:    registrySvc,
		dispatcher: dispatcher,
	}
}

// newLogger creates the process logger on stderr.
// Stdout is reserved for the MCP stream in stdio mode.
func newLogger(cfg *config.Config) *slog.Logger {
	level := parseLogLevel(cfg.Server.LogLevel)
	if cfg.DevMode {
		level = slog.LevelDebug // DevMode always forces debug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// parseLogLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
