// Package config loads the service configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// MinSecretLength is the shortest accepted token signing key.
const MinSecretLength = 32

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is read once at startup and treated as read-only afterwards.
type Config struct {
	Port int `env:"PORT" envDefault:"4000"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabasePath   string `env:"DATABASE_PATH"   envDefault:"usergraph.db"`
	DatabaseURL    string `env:"DATABASE_URL"`

	// JWTSecret is removed from the process environment once read.
	JWTSecret    string        `env:"JWT_SECRET,unset"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"4h"`
	SaltRounds   int           `env:"SALT_ROUNDS"    envDefault:"10"`

	// TrustUserIDHeader accepts the caller id from the user-id header set by
	// the gateway in front of this service. Only enable it behind a gateway
	// that strips the header from client requests.
	TrustUserIDHeader bool `env:"TRUST_USER_ID_HEADER" envDefault:"false"`

	LoginRate  float64 `env:"LOGIN_RATE"  envDefault:"0.2"`
	LoginBurst int     `env:"LOGIN_BURST" envDefault:"5"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	S3 S3
}

// S3 configures avatar uploads. Uploads are disabled when Bucket is empty.
type S3 struct {
	Bucket        string        `env:"S3_BUCKET"`
	Region        string        `env:"S3_REGION"          envDefault:"us-east-1"`
	Endpoint      string        `env:"S3_ENDPOINT"`
	AccessKey     string        `env:"S3_ACCESS_KEY"`
	SecretKey     string        `env:"S3_SECRET_KEY,unset"`
	PublicBaseURL string        `env:"S3_PUBLIC_BASE_URL"`
	UploadTTL     time.Duration `env:"AVATAR_UPLOAD_TTL"  envDefault:"15m"`
}

// Enabled reports whether avatar storage is configured.
func (s S3) Enabled() bool {
	return s.Bucket != ""
}

// Load parses and validates the process environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFrom parses and validates an explicit set of variables instead of the
// process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(c.JWTSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters", MinSecretLength))
	}
	if c.JWTExpiresIn <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}
	if c.SaltRounds < bcrypt.MinCost || c.SaltRounds > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("SALT_ROUNDS must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabasePath == "" {
			errs = append(errs, errors.New("DATABASE_PATH is required for sqlite"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER %q is not one of sqlite, postgres", c.DatabaseDriver))
	}

	if c.LoginRate < 0 || c.LoginBurst < 1 {
		errs = append(errs, errors.New("LOGIN_RATE must be >= 0 and LOGIN_BURST >= 1"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.S3.Enabled() && c.S3.UploadTTL <= 0 {
		errs = append(errs, errors.New("AVATAR_UPLOAD_TTL must be positive"))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SlogLevel maps LOG_LEVEL onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return level, nil
}
