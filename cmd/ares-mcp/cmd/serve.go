package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ares-mcp/ares-mcp-server/internal/adapter/inbound/http"
	"github.com/ares-mcp/ares-mcp-server/internal/adapter/inbound/mcpserver"
	"github.com/ares-mcp/ares-mcp-server/internal/adapter/inbound/stdio"
	"github.com/ares-mcp/ares-mcp-server/internal/config"
	"github.com/ares-mcp/ares-mcp-server/internal/port/inbound"
	"github.com/ares-mcp/ares-mcp-server/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the ARES MCP server.

Transports:

1. stdio (default): the MCP host launches ares-mcp and talks over
   stdin/stdout. Logs go to stderr.

2. http: Streamable HTTP on server.http_addr, with /health and /metrics.

Examples:
  # Serve a desktop MCP host
  ares-mcp serve

  # Serve over HTTP on all interfaces
  ares-mcp serve --transport http --http-addr 0.0.0.0:8080`,
	RunE: runServe,
}

var (
	serveTransport string
	serveHTTPAddr  string
	serveDevMode   bool
)

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "MCP transport: stdio or http (overrides server.transport)")
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http-addr", "", "listen address in http mode (overrides server.http_addr)")
	serveCmd.Flags().BoolVar(&serveDevMode, "dev", false, "Enable development mode (debug logging, span export)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration without validation so CLI flags can override first
	cfg, err := config.LoadConfigRaw(Version)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if serveTransport != "" {
		cfg.Server.Transport = serveTransport
	}
	if serveHTTPAddr != "" {
		cfg.Server.HTTPAddr = serveHTTPAddr
	}
	if serveDevMode {
		cfg.DevMode = true
	}
	cfg.SetDevDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// stop() restores default signal handling so a second Ctrl+C does a hard kill.
	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals()...)
	go func() {
		<-ctx.Done()
		stop()
	}()

	logger := newLogger(cfg)
	if configFile := config.ConfigFileUsed(); configFile != "" {
		logger.Info("loaded config", "file", configFile)
	}

	if cfg.Tracing.Enabled {
		shutdown, err := telemetry.SetupTracing(os.Stderr, Version)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("failed to flush traces", "error", err)
			}
		}()
	}

	app := buildComponents(cfg, logger)
	mcpSrv := mcpserver.New(app.dispatcher, Version, logger)

	var transport inbound.Transport
	switch cfg.Server.Transport {
	case "http":
		opts := []http.Option{
			http.WithAddr(cfg.Server.HTTPAddr),
			http.WithAllowedOrigins(cfg.Server.AllowedOrigins),
			http.WithLogger(logger),
			http.WithHealthChecker(http.NewHealthChecker(app.limiter, app.dispatcher, Version)),
		}
		if cfg.Server.Metrics {
			opts = append(opts, http.WithMetrics(app.registry, app.metrics))
		}
		transport = http.NewHTTPTransport(mcpSrv, opts...)

		// PID file lets "ares-mcp stop" find us.
		pidPath := pidFilePath()
		if err := writePIDFile(pidPath); err != nil {
			logger.Warn("failed to write PID file", "path", pidPath, "error", err)
		} else {
			defer os.Remove(pidPath)
		}
	default:
		transport = stdio.NewStdioTransport(mcpSrv, stdio.WithLogger(logger))
	}
	defer transport.Close()

	logger.Info("ARES MCP server starting",
		"version", Version,
		"transport", cfg.Server.Transport,
		"registry", cfg.Registry.BaseURL,
		"rate_limit", fmt.Sprintf("%d/%gs", cfg.RateLimit.Requests, cfg.RateLimit.Window),
		"tools", len(app.dispatcher.Tools()),
	)

	if err := transport.Start(ctx); err != nil {
		return fmt.Errorf("transport failed: %w", err)
	}
	logger.Info("ARES MCP server stopped", "stats", app.dispatcher.Stats())
	return nil
}

// pidFilePath returns the standard location for the server PID file.
func pidFilePath() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".ares-mcp", "server.pid")
	}
	return filepath.Join(os.TempDir(), "ares-mcp-server.pid")
}

// writePIDFile writes the current process PID to the given path, creating
// parent directories as needed.
func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644)
}

// readPIDFile returns the PID stored at path, or 0 when absent or malformed.
func readPIDFile(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	var pid int
	if _, err := fmt.Sscanf(string(data), "%d", &pid); err != nil {
		return 0
	}
	return pid
}
