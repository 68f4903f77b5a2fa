package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// FromEnv fills target, a pointer to a struct with `env` tags, from
// environment variables. All variable names are prefixed with prefix:
//
//	type Settings struct {
//	    PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"100ms"`
//	}
//
//	var s Settings
//	err := config.FromEnv("SUGARCH_", &s) // reads SUGARCH_POLL_INTERVAL
func FromEnv(prefix string, target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
