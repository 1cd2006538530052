package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// These tests mutate the global viper instance and must not run in parallel.

func TestLoadConfig_FileAndEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "ares-mcp.yaml")
	content := "server:\n  transport: http\n  http_addr: 127.0.0.1:9191\nrate_limit:\n  requests: 10\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ARES_AUTH_TOKEN", "secret-token")
	t.Setenv("ARES_RATE_LIMIT_WINDOW", "2.5")

	InitViper(path)
	cfg, err := LoadConfig("9.9.9")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Server.Transport != "http" || cfg.Server.HTTPAddr != "127.0.0.1:9191" {
		t.Errorf("Server = %+v, want http on 127.0.0.1:9191", cfg.Server)
	}
	if cfg.AuthToken != "secret-token" {
		t.Errorf("AuthToken = %q, want secret-token", cfg.AuthToken)
	}
	if cfg.RateLimit.Requests != 10 || cfg.RateLimit.Window != 2.5 {
		t.Errorf("RateLimit = %+v, want 10 per 2.5s", cfg.RateLimit)
	}
	if cfg.Registry.UserAgent != "ARES-MCP-Server/9.9.9" {
		t.Errorf("UserAgent = %q", cfg.Registry.UserAgent)
	}
	if ConfigFileUsed() != path {
		t.Errorf("ConfigFileUsed() = %q, want %q", ConfigFileUsed(), path)
	}
}

func TestLoadConfig_EnvZeroRequestsRejected(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("ARES_RATE_LIMIT_REQUESTS", "0")

	InitViper(filepath.Join(t.TempDir(), "missing.yaml"))
	viper.SetConfigFile("")
	viper.SetConfigName("ares-mcp-test-nonexistent")
	viper.SetConfigType("yaml")

	if _, err := LoadConfig("test"); err == nil {
		t.Error("LoadConfig() expected error for zero requests, got nil")
	}
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "ares-mcp.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	InitViper(path)
	if _, err := LoadConfig("test"); err == nil {
		t.Error("LoadConfig() expected error for malformed YAML, got nil")
	}
}
