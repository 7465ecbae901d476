// Package config handles application configuration loading from environment
// variables. It provides a centralized, immutable Config struct that is
// passed explicitly to every component at construction.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"APP_PORT" envDefault:"8080"`
	Env  string `env:"APP_ENV" envDefault:"development"` // "development", "production", "testing"

	// SQLite database file
	DBPath string `env:"DB_PATH" envDefault:"lexcms.db"`

	// Upload storage root. Class subfolders (images, videos, documents,
	// profile, qrcodes, others, temp, thumbnails) are created beneath it.
	UploadDir string `env:"UPLOAD_DIR" envDefault:"uploads"`

	// Size ceilings, in bytes.
	MaxImageBytes int64 `env:"MAX_IMAGE_BYTES" envDefault:"10485760"`  // 10 MB
	MaxVideoBytes int64 `env:"MAX_VIDEO_BYTES" envDefault:"104857600"` // 100 MB
	MaxOtherBytes int64 `env:"MAX_OTHER_BYTES" envDefault:"26214400"`  // 25 MB
	MaxBodyBytes  int64 `env:"MAX_BODY_BYTES" envDefault:"104857600"`  // 100 MB request cap

	// Lifetime of issued bearer tokens.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config parse: %w", err)
	}
	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
