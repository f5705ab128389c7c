// Package config loads provider settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment-driven settings of the provider. Everything
// event-specific arrives in the lifecycle event itself.
type Config struct {
	// LogLevel is the fallback level when the event carries no LogLevel
	// property.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// ResponseTimeout bounds the HTTP delivery of the lifecycle result.
	ResponseTimeout time.Duration `env:"RESPONSE_TIMEOUT" envDefault:"30s"`

	// Route53RoleARN, when set, is assumed before any hosted-zone call so
	// validation records can live in another account's zone.
	Route53RoleARN string `env:"ROUTE53_ROLE_ARN"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
