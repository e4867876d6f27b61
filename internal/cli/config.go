package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds flag defaults read from the environment. Explicit flags win.
type Config struct {
	Database string `env:"LOCKSTEP_DB"`
	Format   string `env:"LOCKSTEP_FORMAT"  envDefault:"text"`
	Verbose  bool   `env:"LOCKSTEP_VERBOSE"`
}

// LoadConfig parses Config from the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
