// Package cmd provides the CLI commands for the ARES MCP server.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ares-mcp/ares-mcp-server/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ares-mcp",
	Short: "ARES MCP Server - Czech business registry tools for MCP hosts",
	Long: `ARES MCP Server exposes the Czech ARES business registry
(Administrativní registr ekonomických subjektů) as Model Context Protocol tools.

Quick start:
  ares-mcp serve                     # stdio, for desktop MCP hosts
  ares-mcp serve --transport http    # Streamable HTTP on 127.0.0.1:8080

Configuration:
  Config is loaded from ares-mcp.yaml in the current directory,
  $HOME/.ares-mcp/, or /etc/ares-mcp/.

  Environment variables override config values with the ARES_ prefix.
  Example: ARES_RATE_LIMIT_REQUESTS=50 ARES_AUTH_TOKEN=...

Commands:
  serve         Start the MCP server
  tools         List the tool catalog
  registries    List source register codes
  validate-ico  Check an IČO checksum, optionally against the registry
  stop          Stop a running HTTP server
  version       Print version information`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./ares-mcp.yaml)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
