// Package config loads portal settings from the environment and an optional .env file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the portal.
type Config struct {
	Addr          string        `env:"PORTAL_ADDR" envDefault:":8080"`
	APIBaseURL    string        `env:"PORTAL_API_BASE_URL" envDefault:"http://localhost:8000"`
	Env           string        `env:"PORTAL_ENV" envDefault:"development"`
	CSRFKey       string        `env:"PORTAL_CSRF_KEY"`
	LogFormat     string        `env:"PORTAL_LOG_FORMAT" envDefault:"auto"`
	SlowRequestMS int           `env:"PORTAL_SLOW_REQUEST_MS" envDefault:"200"`
	RateLimit     int           `env:"PORTAL_RATE_LIMIT" envDefault:"10"`
	SessionTTL    time.Duration `env:"PORTAL_SESSION_TTL" envDefault:"24h"`
	ResendKey     string        `env:"PORTAL_RESEND_KEY"`
	EmailFrom     string        `env:"PORTAL_EMAIL_FROM" envDefault:"Mergington Activities <activities@mergington.edu>"`
	ReplyTo       string        `env:"PORTAL_REPLY_TO"`
}

// ErrMissingCSRFKey is returned in production when no CSRF key is configured.
var ErrMissingCSRFKey = errors.New("PORTAL_CSRF_KEY is required in production")

// Load reads envFiles (missing files are skipped), then parses the environment.
// Variables already set in the environment win over .env values.
// PRE: none
// POST: Returns a validated Config or an error
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProduction reports whether the portal runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// SlowRequest is the threshold above which requests are logged at WARN.
func (c Config) SlowRequest() time.Duration {
	return time.Duration(c.SlowRequestMS) * time.Millisecond
}

// Validate checks value ranges.
// PRE: none
// POST: Returns nil if the config can start a server
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("PORTAL_ADDR must not be empty")
	}
	if c.APIBaseURL == "" {
		return errors.New("PORTAL_API_BASE_URL must not be empty")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("PORTAL_RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	if c.SlowRequestMS < 0 {
		return fmt.Errorf("PORTAL_SLOW_REQUEST_MS must not be negative, got %d", c.SlowRequestMS)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("PORTAL_SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.CSRFKey == "" && c.IsProduction() {
		return ErrMissingCSRFKey
	}
	if c.CSRFKey != "" {
		if _, err := c.decodeCSRFKey(); err != nil {
			return err
		}
	}
	return nil
}

// CSRFAuthKey returns the 32-byte CSRF key. Outside production a missing key is replaced by a
// random one, which invalidates forms across restarts.
func (c Config) CSRFAuthKey() ([]byte, error) {
	if c.CSRFKey != "" {
		return c.decodeCSRFKey()
	}
	if c.IsProduction() {
		return nil, ErrMissingCSRFKey
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	return key, nil
}

func (c Config) decodeCSRFKey() ([]byte, error) {
	key, err := hex.DecodeString(c.CSRFKey)
	if err != nil {
		return nil, fmt.Errorf("PORTAL_CSRF_KEY must be hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("PORTAL_CSRF_KEY must be 64 hex chars, got %d", len(c.CSRFKey))
	}
	return key, nil
}
