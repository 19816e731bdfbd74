// Package config loads CLI configuration from the environment, with a
// best-effort .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the runtime configuration of the CLI.
type Config struct {
	// GatewayURL is the ClosetMate API gateway base, including the /api
	// mount.
	GatewayURL string `env:"CLOSET_GATEWAY_URL" env-default:"http://localhost:3000/api"`

	// RequestTimeout bounds every gateway call; the processing endpoint is
	// the slow path and sets the default.
	RequestTimeout time.Duration `env:"CLOSET_REQUEST_TIMEOUT" env-default:"60s"`

	// PreviewDir roots the local preview files. Empty means a fresh
	// temporary directory per run.
	PreviewDir string `env:"CLOSET_PREVIEW_DIR"`

	// LogLevel is debug, info, warn, or error.
	LogLevel string `env:"CLOSET_LOG_LEVEL" env-default:"info"`
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &cfg, nil
}
