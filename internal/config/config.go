// Package config loads runtime settings for the bookshelf server.
//
// Values are resolved in three layers: built-in defaults, an optional YAML file
// (path taken from CONFIG_FILE), and finally environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Database describes how to reach the relational store.
type Database struct {
	Driver string
	DSN    string
}

// Config holds runtime settings for the server.
//
// Fields:
//   - Port: TCP port the HTTP server listens on.
//   - Database: driver name ("postgres" or "sqlite") and DSN.
//   - JWTSecret: HMAC secret used to sign session tokens.
//   - SessionTTL: validity window of a session token and its cookie.
//   - Production: enables the Secure cookie flag and quieter SQL logging.
//   - AllowedOrigins: CORS allow-list for credentialed browser requests.
//   - Seed: insert the fixed seed rows at startup.
//   - AuthRateLimit / AuthRateBurst: per-client limit on login and register (0 disables).
//   - TrustProxy: take the client address from X-Forwarded-For / X-Real-IP. Only
//     enable behind a proxy that overwrites those headers; otherwise clients can
//     pick their own rate-limit key.
type Config struct {
	Port           string
	Database       Database
	JWTSecret      string
	SessionTTL     time.Duration
	Production     bool
	AllowedOrigins []string
	Seed           bool
	AuthRateLimit  float64
	AuthRateBurst  int
	TrustProxy     bool
}

// fileConfig is the YAML shape of the config file. Durations are strings such as "24h".
type fileConfig struct {
	Port           string   `yaml:"port"`
	DBDriver       string   `yaml:"db_driver"`
	DatabaseURL    string   `yaml:"database_url"`
	JWTSecret      string   `yaml:"jwt_secret"`
	SessionTTL     string   `yaml:"session_ttl"`
	Environment    string   `yaml:"environment"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	Seed           *bool    `yaml:"seed"`
	AuthRateLimit  *float64 `yaml:"auth_rate_limit"`
	AuthRateBurst  *int     `yaml:"auth_rate_burst"`
	TrustProxy     *bool    `yaml:"trust_proxy"`
}

const devSecret = "dev-secret-change-me"

// LoadDefaults populates c with development defaults.
// NOTE: the secret is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.Port = "3001"
	c.Database = Database{Driver: DriverSQLite, DSN: "books.db"}
	c.JWTSecret = devSecret
	c.SessionTTL = 24 * time.Hour
	c.Production = false
	c.AllowedOrigins = []string{"http://localhost:5173"}
	c.Seed = false
	c.AuthRateLimit = 5
	c.AuthRateBurst = 10
	c.TrustProxy = false
}

// Load builds a Config from defaults, the optional YAML file and the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Port != "" {
		c.Port = fc.Port
	}
	if fc.DBDriver != "" {
		c.Database.Driver = strings.ToLower(fc.DBDriver)
	}
	if fc.DatabaseURL != "" {
		c.Database.DSN = fc.DatabaseURL
	}
	if fc.JWTSecret != "" {
		c.JWTSecret = fc.JWTSecret
	}
	if fc.SessionTTL != "" {
		ttl, err := time.ParseDuration(fc.SessionTTL)
		if err != nil {
			return fmt.Errorf("session_ttl: %w", err)
		}
		c.SessionTTL = ttl
	}
	if fc.Environment != "" {
		c.Production = strings.EqualFold(fc.Environment, "production")
	}
	if len(fc.AllowedOrigins) > 0 {
		c.AllowedOrigins = fc.AllowedOrigins
	}
	if fc.Seed != nil {
		c.Seed = *fc.Seed
	}
	if fc.AuthRateLimit != nil {
		c.AuthRateLimit = *fc.AuthRateLimit
	}
	if fc.AuthRateBurst != nil {
		c.AuthRateBurst = *fc.AuthRateBurst
	}
	if fc.TrustProxy != nil {
		c.TrustProxy = *fc.TrustProxy
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		c.Port = v
	}
	if v := strings.TrimSpace(getenv("DB_DRIVER")); v != "" {
		c.Database.Driver = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv("DATABASE_URL")); v != "" {
		c.Database.DSN = v
	}
	if v := getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := strings.TrimSpace(getenv("SESSION_TTL")); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		c.SessionTTL = ttl
	}
	if v := strings.TrimSpace(getenv("APP_ENV")); v != "" {
		c.Production = strings.EqualFold(v, "production")
	}
	if v := strings.TrimSpace(getenv("CORS_ORIGINS")); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.AllowedOrigins = origins
	}
	if v := strings.TrimSpace(getenv("SEED_DATA")); v != "" {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SEED_DATA: %w", err)
		}
		c.Seed = seed
	}
	if v := strings.TrimSpace(getenv("AUTH_RATE_LIMIT")); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("AUTH_RATE_LIMIT: %w", err)
		}
		c.AuthRateLimit = limit
	}
	if v := strings.TrimSpace(getenv("AUTH_RATE_BURST")); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AUTH_RATE_BURST: %w", err)
		}
		c.AuthRateBurst = burst
	}
	if v := strings.TrimSpace(getenv("TRUST_PROXY")); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRUST_PROXY: %w", err)
		}
		c.TrustProxy = trust
	}
	return nil
}

var (
	ErrUnknownDriver   = errors.New("unknown database driver")
	ErrMissingDSN      = errors.New("database DSN is empty")
	ErrInsecureSecret  = errors.New("JWT_SECRET must be set in production")
	ErrInvalidTTL      = errors.New("session TTL must be positive")
	ErrInvalidRateSpec = errors.New("auth rate limit and burst must not be negative")
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return ErrMissingDSN
	}
	if c.Production && (c.JWTSecret == "" || c.JWTSecret == devSecret) {
		return ErrInsecureSecret
	}
	if c.JWTSecret == "" {
		return ErrInsecureSecret
	}
	if c.SessionTTL <= 0 {
		return ErrInvalidTTL
	}
	if c.AuthRateLimit < 0 || c.AuthRateBurst < 0 {
		return ErrInvalidRateSpec
	}
	return nil
}
