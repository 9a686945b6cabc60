// Package config loads the runtime configuration from .env files and
// environment variables, and renders a printable summary.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable name, so the
// server port is read from RIVET_SERVER_PORT.
const EnvPrefix = "RIVET_"

// Config holds the runtime settings.
type Config struct {
	ServerHost  string `env:"SERVER_HOST" envDefault:"localhost"`
	ServerPort  int    `env:"SERVER_PORT" envDefault:"8080"`
	ContextPath string `env:"CONTEXT_PATH"`
	CORSEnabled bool   `env:"CORS_ENABLED" envDefault:"true"`
	DevMode     bool   `env:"DEV_MODE"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"INFO"`
}

// Default returns the built-in defaults without consulting the
// environment.
func Default() *Config {
	return &Config{
		ServerHost: "localhost",
		ServerPort: 8080,
		LogLevel:   "INFO",
	}
}

// Load reads configuration: named .env files first (the default ".env" is
// optional and silently skipped when absent), then environment variables
// with the RIVET_ prefix, which win over file values already exported.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		// Best effort - a missing default file is fine.
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Host sets the server host.
func (c *Config) Host(host string) *Config {
	c.ServerHost = host
	return c
}

// Port sets the server port.
func (c *Config) Port(port int) *Config {
	c.ServerPort = port
	return c
}

// CORS enables or disables CORS handling.
func (c *Config) CORS(enabled bool) *Config {
	c.CORSEnabled = enabled
	return c
}

// Dev enables or disables development mode.
func (c *Config) Dev(enabled bool) *Config {
	c.DevMode = enabled
	return c
}

// Level sets the log level name (DEBUG, INFO, WARN, ERROR).
func (c *Config) Level(level string) *Config {
	c.LogLevel = level
	return c
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// BaseURL returns the http base URL including the context path.
func (c *Config) BaseURL() string {
	return "http://" + c.Addr() + c.ContextPath
}

// SlogLevel maps the configured level name onto a slog.Level. Unknown
// names fall back to Info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogSummary writes the configuration summary.
func (c *Config) LogSummary(log *slog.Logger) {
	log.Info("configuration",
		"server", c.BaseURL(),
		"cors", c.CORSEnabled,
		"dev_mode", c.DevMode,
		"log_level", strings.ToUpper(c.LogLevel))
}
