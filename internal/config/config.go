// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings for cmd/server.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `env:"SPLITLEDGER_ADDR" envDefault:":8080"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"SPLITLEDGER_LOG_LEVEL" envDefault:"info"`

	// CurrencySymbol prefixes every amount in rendered reports.
	CurrencySymbol string `env:"SPLITLEDGER_CURRENCY_SYMBOL" envDefault:"₹"`

	// MetricsPath is where Prometheus metrics are served. Empty disables it.
	MetricsPath string `env:"SPLITLEDGER_METRICS_PATH" envDefault:"/metrics"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `env:"SPLITLEDGER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses Config from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration and returns every problem found.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("listen address cannot be empty"))
	}
	if c.CurrencySymbol == "" {
		errs = append(errs, errors.New("currency symbol cannot be empty"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level %q: must be debug, info, warn or error", c.LogLevel))
	}
	if c.MetricsPath != "" && !strings.HasPrefix(c.MetricsPath, "/") {
		errs = append(errs, fmt.Errorf("invalid metrics path %q: must start with /", c.MetricsPath))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid shutdown timeout %s: must be positive", c.ShutdownTimeout))
	}

	return errors.Join(errs...)
}
