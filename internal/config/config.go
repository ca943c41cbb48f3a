// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds settings shared by the CLI and the service.
type Config struct {
	DBPath         string        `env:"OKINOKO_DB_PATH" envDefault:"okinoko.db"`
	DefaultRuleSet string        `env:"OKINOKO_DEFAULT_RULESET" envDefault:"standard"`
	MoveTimeout    time.Duration `env:"OKINOKO_MOVE_TIMEOUT" envDefault:"168h"`
	OTelEndpoint   string        `env:"OKINOKO_OTEL_ENDPOINT"`
	OTelEnabled    bool          `env:"OKINOKO_OTEL_ENABLED" envDefault:"true"`
}

// Load parses Config from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.MoveTimeout < 0 {
		return Config{}, fmt.Errorf("OKINOKO_MOVE_TIMEOUT must not be negative")
	}
	return cfg, nil
}

// TracingEnabled reports whether an exporter should be installed.
func (c Config) TracingEnabled() bool {
	return c.OTelEnabled && c.OTelEndpoint != ""
}
