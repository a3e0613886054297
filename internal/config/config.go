// Package config loads process configuration from the environment.
// A .env file in the working directory is read first when present;
// real environment variables win over it.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config is the full runtime configuration of the server.
type Config struct {
	Port     string `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`

	ClientOrigin   string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`

	StoreDriver  string `env:"STORE_DRIVER" envDefault:"memory"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/hangman.db"`

	SessionSecret string        `env:"SESSION_SECRET" envDefault:"dev_secret_change_me"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieName    string        `env:"COOKIE_NAME" envDefault:"hangman_session"`

	CatalogFile string `env:"WORDS_CATALOG_FILE"`
	DailySalt   string `env:"DAILY_SALT" envDefault:"local_dev_salt"`

	// bcrypt hash guarding /debug routes; unset disables them.
	DebugPasswordHash string `env:"DEBUG_PASSWORD_HASH"`
}

// Production reports whether cookies should be issued Secure/SameSite=None.
func (c Config) Production() bool { return c.AppEnv == "production" }

// Load reads .env (if any) and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.SessionSecret == "" {
		return errors.New("config: SESSION_SECRET must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}
