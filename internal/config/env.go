// Package config reads emshower defaults from the environment. Command-line
// flags override every value.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Config holds environment defaults.
type Config struct {
	// DB is the run history database. Empty disables recording.
	DB string `env:"EMSHOWER_DB"`

	// Workers bounds concurrent runs; 0 selects the number of CPUs.
	Workers int `env:"EMSHOWER_WORKERS" envDefault:"0"`

	// Seed is the base seed, used only when SeedSet is true. Otherwise each
	// command draws a fresh random seed.
	Seed    int64 `env:"EMSHOWER_SEED"`
	SeedSet bool

	// MaxGenerations caps a single shower; 0 disables the cap.
	MaxGenerations int `env:"EMSHOWER_MAX_GENERATIONS" envDefault:"1000000"`

	// Catalog is a directory of CUE material files merged over the
	// built-in materials.
	Catalog string `env:"EMSHOWER_CATALOG"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates a Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.SeedSet = os.Getenv("EMSHOWER_SEED") != ""
	if cfg.Workers < 0 {
		return Config{}, fmt.Errorf("EMSHOWER_WORKERS must be non-negative, got %d", cfg.Workers)
	}
	if cfg.MaxGenerations < 0 {
		return Config{}, fmt.Errorf("EMSHOWER_MAX_GENERATIONS must be non-negative, got %d", cfg.MaxGenerations)
	}
	return cfg, nil
}
