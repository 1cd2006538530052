// Package config provides configuration types for the ARES MCP server.
//
// Configuration comes from an optional ares-mcp.yaml file and ARES_*
// environment variables. The variables of earlier releases keep working:
//
//   - ARES_AUTH_TOKEN: bearer credential for the registry API
//   - ARES_RATE_LIMIT_REQUESTS: requests admitted per window
//   - ARES_RATE_LIMIT_WINDOW: window length in seconds
package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/ares-mcp/ares-mcp-server/internal/domain/ratelimit"
)

// DefaultBaseURL is the public ARES REST API origin.
const DefaultBaseURL = "https://ares.gov.cz/ekonomicke-subjekty-v-be/rest"

// Config is the top-level configuration for the ARES MCP server.
type Config struct {
	// Server configures the MCP transport and process-level settings.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Registry configures the outbound ARES API client.
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`

	// AuthToken is an optional bearer credential sent to the registry.
	AuthToken string `yaml:"auth_token" mapstructure:"auth_token"`

	// RateLimit configures the client-side sliding-window limiter.
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`

	// Tracing configures OpenTelemetry span export.
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`

	// DevMode enables development features (debug logging, span export).
	DevMode bool `yaml:"dev_mode" mapstructure:"dev_mode"`
}

// ServerConfig configures how MCP hosts reach the server.
type ServerConfig struct {
	// Transport selects the MCP transport: "stdio" or "http".
	// Defaults to "stdio".
	Transport string `yaml:"transport" mapstructure:"transport" validate:"omitempty,oneof=stdio http"`

	// HTTPAddr is the address to listen on in http mode.
	// Defaults to "127.0.0.1:8080" (localhost only) if empty.
	HTTPAddr string `yaml:"http_addr" mapstructure:"http_addr" validate:"omitempty,hostname_port"`

	// AllowedOrigins lists browser origins accepted in http mode.
	// Empty means requests carrying an Origin header are rejected.
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins" validate:"omitempty,dive,url"`

	// LogLevel sets the minimum log level.
	// Valid values: "debug", "info", "warn", "error".
	// Defaults to "info" if empty. DevMode=true overrides to "debug".
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// Metrics exposes /metrics in http mode. Defaults to true.
	Metrics bool `yaml:"metrics" mapstructure:"metrics"`
}

// RegistryConfig configures the ARES API client.
type RegistryConfig struct {
	// BaseURL is the registry API origin.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// UserAgent identifies this client to the registry.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent" validate:"required"`
}

// RateLimitConfig configures the sliding-window limiter.
type RateLimitConfig struct {
	// Requests is the maximum number of requests per window. Defaults to 100.
	Requests int `yaml:"requests" mapstructure:"requests" validate:"min=1"`

	// Window is the window length in seconds. Defaults to 60.
	Window float64 `yaml:"window" mapstructure:"window" validate:"gt=0"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	// Enabled exports one span per registry request to stderr.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// Limiter converts the rate limit settings into a limiter policy.
func (c RateLimitConfig) Limiter() ratelimit.Config {
	return ratelimit.Config{
		MaxRequests: c.Requests,
		Window:      ratelimit.WindowFromSeconds(c.Window),
	}
}

// SetDevDefaults applies development defaults.
// These are applied BEFORE validation.
func (c *Config) SetDevDefaults() {
	if !c.DevMode {
		return
	}
	c.Server.LogLevel = "debug"
	c.Tracing.Enabled = true
}

// SetDefaults applies default values to the configuration.
// version is embedded in the default User-Agent.
func (c *Config) SetDefaults(version string) {
	if c.Server.Transport == "" {
		c.Server.Transport = "stdio"
	}
	// Bind to localhost only; network access must be configured explicitly.
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = "127.0.0.1:8080"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	// viper.IsSet distinguishes "not set" from "explicitly false".
	if !viper.IsSet("server.metrics") {
		c.Server.Metrics = true
	}

	if c.Registry.BaseURL == "" {
		c.Registry.BaseURL = DefaultBaseURL
	}
	if c.Registry.UserAgent == "" {
		c.Registry.UserAgent = "ARES-MCP-Server/" + version
	}

	if !viper.IsSet("rate_limit.requests") && c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 100
	}
	if !viper.IsSet("rate_limit.window") && c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Minute.Seconds()
	}
}
