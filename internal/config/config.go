// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Cache backend selectors.
const (
	CacheBackendMemory = "memory"
	CacheBackendFile   = "file"
	CacheBackendSQLite = "sqlite"
)

// Config is the full runtime configuration of the storefront service.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"TECHSTORE_ADDR" envDefault:":8080"`

	// DBPath is the SQLite file holding catalog, users, carts, reviews.
	DBPath string `env:"TECHSTORE_DB" envDefault:"techstore.db"`

	// CacheBackend picks the response-cache store: memory, file, sqlite.
	CacheBackend string `env:"TECHSTORE_CACHE_BACKEND" envDefault:"memory"`

	// CacheDir backs the file cache store.
	CacheDir string `env:"TECHSTORE_CACHE_DIR" envDefault:".techstore-cache"`

	// CacheDBPath backs the sqlite cache store.
	CacheDBPath string `env:"TECHSTORE_CACHE_DB" envDefault:"techstore-cache.db"`

	// CacheTTL is the default freshness window for cached responses.
	CacheTTL time.Duration `env:"TECHSTORE_CACHE_TTL" envDefault:"5m"`

	// CacheEnabled turns response caching off entirely when false.
	CacheEnabled bool `env:"TECHSTORE_CACHE_ENABLED" envDefault:"true"`

	// LogLevel is the minimum level to emit (debug, info, warn, error).
	LogLevel string `env:"TECHSTORE_LOG" envDefault:"info"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.CacheBackend {
	case CacheBackendMemory, CacheBackendFile, CacheBackendSQLite:
	default:
		return Config{}, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
	return cfg, nil
}
