/*
Package config loads runtime settings from the environment.

PURPOSE:
  One flat struct, populated by envconfig under the RETURNS_ prefix. A
  .env file (loaded by the server entrypoint when present) feeds the same
  variables during local development. Defaults are chosen so the demo runs
  with zero configuration.
*/
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr     string `envconfig:"ADDR" default:":8080"`
	DBPath   string `envconfig:"DB" default:":memory:"`
	Seed     int64  `envconfig:"SEED" default:"0"`
	Year     int    `envconfig:"YEAR" default:"2024"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads RETURNS_* environment variables into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("RETURNS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &cfg, nil
}
