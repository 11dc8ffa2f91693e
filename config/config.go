package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config aggregates all runtime settings.
type Config struct {
	Env      string `env:"ENV" envDefault:"development"`
	Port     int    `env:"PORT" envDefault:"8080"`
	DBPath   string `env:"DB_PATH" envDefault:"honeypot.db"`
	UseHTTPS bool   `env:"USE_HTTPS" envDefault:"false"`

	// SessionLifetime is the inactivity window for admin sessions, in seconds.
	SessionLifetime int64 `env:"SESSION_LIFETIME" envDefault:"900"`

	// Login surface limiter: how many submissions a single IP gets per window.
	LoginRateMax    int           `env:"LOGIN_RATE_MAX" envDefault:"5"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`

	// Admin surface limiter, independent from the login one and much stricter.
	AdminRateMax    int           `env:"ADMIN_RATE_MAX" envDefault:"3"`
	AdminRateWindow time.Duration `env:"ADMIN_RATE_WINDOW" envDefault:"1h"`

	// IngestBuffer bounds how many capture records may be queued for writing.
	IngestBuffer int `env:"INGEST_BUFFER" envDefault:"256"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.LoginRateMax <= 0 || cfg.AdminRateMax <= 0 {
		return nil, fmt.Errorf("rate limit maxima must be positive")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production hardening.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
