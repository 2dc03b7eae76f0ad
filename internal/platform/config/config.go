// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, upstream clients) via constructors.
  - Fail Fast: The news API key and the reference store credential are required;
    a missing secret is a startup failure, never a per-request error. The API
    server additionally requires the session secret (see RequireServerSecrets).
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Fetch cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// # Configuration Schema

// Config holds all runtime configuration for the newsbridge server and CLI.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// CORSAllowedOrigins lists the browser origins accepted outside development.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// Reference store (PostgreSQL document collections)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Optional key-value cache (Redis). Empty keeps every cache process-local.
	RedisURL string `env:"REDIS_URL"`

	// Upstream APIs
	NewsAPIKey  string `env:"NEWS_API_KEY,required,notEmpty"`
	NewsAPIURL  string `env:"NEWS_API_URL"  envDefault:"https://newsapi.org"`
	StatsAPIURL string `env:"STATS_API_URL" envDefault:"https://corona-api.com"`

	// Remote fetcher tuning
	FetchTimeout      time.Duration `env:"FETCH_TIMEOUT"       envDefault:"10s"`
	FetchCacheTTL     time.Duration `env:"FETCH_CACHE_TTL"     envDefault:"1h"`
	FetchCacheBackend string        `env:"FETCH_CACHE_BACKEND" envDefault:"memory"`
	FetchRateLimit    float64       `env:"FETCH_RATE_LIMIT"    envDefault:"5"`
	FetchMaxRetries   int           `env:"FETCH_MAX_RETRIES"   envDefault:"2"`

	// Reference data freshness
	ReferenceTTL  time.Duration `env:"REFERENCE_TTL"   envDefault:"6h"`
	SyncInterval  time.Duration `env:"SYNC_INTERVAL"   envDefault:"24h"`
	SyncOnStartup bool          `env:"SYNC_ON_STARTUP" envDefault:"false"`

	// Operator access (sync endpoints). The API server refuses to start
	// without a session secret; the CLI never issues tokens and ignores it.
	SessionSecret   string `env:"SESSION_SECRET"`
	OperatorKeyHash string `env:"OPERATOR_KEY_HASH"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate enforces cross-field rules the env tags cannot express.
func (c *Config) validate() error {
	switch c.FetchCacheBackend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: FETCH_CACHE_BACKEND=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("config: unknown FETCH_CACHE_BACKEND %q", c.FetchCacheBackend)
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("config: FETCH_TIMEOUT must be positive")
	}

	if c.FetchMaxRetries < 0 {
		return fmt.Errorf("config: FETCH_MAX_RETRIES must not be negative")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOrigins returns the CORS allow-list.
func (c *Config) AllowedOrigins() []string {
	return c.CORSAllowedOrigins
}

// RequireServerSecrets checks the settings only the API server needs.
func (c *Config) RequireServerSecrets() error {
	if strings.TrimSpace(c.SessionSecret) == "" {
		return fmt.Errorf("config: SESSION_SECRET is required to serve the API")
	}
	return nil
}

// HasSessionSecret reports whether operator tokens can be signed.
func (c *Config) HasSessionSecret() bool {
	return c.SessionSecret != ""
}

// HasRedis reports whether a Redis URL was configured.
func (c *Config) HasRedis() bool {
	return c.RedisURL != ""
}
