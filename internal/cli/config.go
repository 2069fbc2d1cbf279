package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// Config File
// =============================================================================

// Config holds user preferences read from ~/.config/mapscript/config.toml.
// Every field has a working default; the file is optional.
type Config struct {
	// Format is the default output format for compile (dot, svg, png, pdf).
	Format string `toml:"format"`

	// Scale is the default raster scale factor for PNG output.
	Scale float64 `toml:"scale"`

	Cache     CacheConfig     `toml:"cache"`
	Serve     ServeConfig     `toml:"serve"`
	Documents DocumentsConfig `toml:"documents"`
}

// CacheConfig controls the render cache.
type CacheConfig struct {
	// Disabled turns caching off entirely.
	Disabled bool `toml:"disabled"`

	// Redis is an optional redis address (host:port). When set, rendered
	// output is cached in Redis instead of the local file cache.
	Redis string `toml:"redis"`

	// TTLHours is how long cached renders are kept.
	TTLHours int `toml:"ttl_hours"`
}

// ServeConfig controls the editor server.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`

	// Mongo is an optional MongoDB connection URI. When set, saved
	// documents live in MongoDB instead of the local documents directory.
	Mongo string `toml:"mongo"`

	// SessionTTLHours is how long idle editing sessions are kept.
	SessionTTLHours int `toml:"session_ttl_hours"`
}

// DocumentsConfig controls the file-backed document store.
type DocumentsConfig struct {
	// Dir overrides the default documents directory.
	Dir string `toml:"dir"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Format: "svg",
		Scale:  1.0,
		Cache: CacheConfig{
			TTLHours: 24,
		},
		Serve: ServeConfig{
			Addr:            ":8519",
			SessionTTLHours: 4,
		},
	}
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing file is not an error; defaults are returned.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 1.0
	}
	if cfg.Cache.TTLHours <= 0 {
		cfg.Cache.TTLHours = 24
	}
	if cfg.Serve.SessionTTLHours <= 0 {
		cfg.Serve.SessionTTLHours = 4
	}
	return cfg, nil
}
