package kura

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/hyperjump/kura/cache"
	"github.com/hyperjump/kura/search"
)

// Config holds all configuration for a Store.
type Config struct {
	// ProjectName names the store. Required; the database file and cache
	// namespace are derived from it.
	ProjectName string `yaml:"project_name" env:"KURA_PROJECT_NAME"`
	// DataDir is the directory for on-disk state. Defaults to "./data".
	DataDir string `yaml:"data_dir" env:"KURA_DATA_DIR"`
	// Debug switches the default logger helpers to development output.
	Debug bool `yaml:"debug" env:"KURA_DEBUG"`

	Cache  CacheConfig  `yaml:"cache"`
	Search SearchConfig `yaml:"search"`
	Server ServerConfig `yaml:"server"`
	Watch  WatchConfig  `yaml:"watch"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is "memory" (default) or "redis".
	Backend string `yaml:"backend" env:"KURA_CACHE_BACKEND"`
	// DefaultTTL is a Go duration string (e.g. "30m").
	// Default: 1h
	DefaultTTL string `yaml:"default_ttl" env:"KURA_CACHE_TTL"`
	// RedisURL is the connection string for the redis backend.
	RedisURL string `yaml:"redis_url" env:"KURA_REDIS_URL"`
}

// TTL parses DefaultTTL and returns it as a duration.
// Returns cache.DefaultTTL when unset or invalid.
func (c *CacheConfig) TTL() time.Duration {
	if c == nil || c.DefaultTTL == "" {
		return cache.DefaultTTL
	}
	d, err := time.ParseDuration(c.DefaultTTL)
	if err != nil {
		return cache.DefaultTTL
	}
	return d
}

// SearchConfig selects and configures the search backend.
type SearchConfig struct {
	// Backend is "memory" (default) or "bleve".
	Backend string `yaml:"backend" env:"KURA_SEARCH_BACKEND"`
	// BlevePath overrides the bleve index location.
	// Default: <data_dir>/<project_name>.bleve
	BlevePath string `yaml:"bleve_path" env:"KURA_BLEVE_PATH"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host string `yaml:"host" env:"KURA_SERVER_HOST"`
	Port int    `yaml:"port" env:"KURA_SERVER_PORT"`
}

// WatchConfig configures directory ingestion. Watched files are stored as
// records in Collection, keyed by a hash of their absolute path.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	// Extensions filters which files are ingested. Default: .txt, .md
	Extensions []string `yaml:"extensions"`
	// Collection receives ingested file records. Default: "files".
	Collection string `yaml:"collection" env:"KURA_WATCH_COLLECTION"`
	// Recursive descends into subdirectories. Default: true.
	Recursive *bool `yaml:"recursive"`
}

// RecursiveOrDefault returns the recursive flag, defaulting to true when the
// config leaves it unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	return w.Recursive == nil || *w.Recursive
}

// LoadConfig reads and parses the YAML config file at path, overlays KURA_*
// environment variables, and applies defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ConfigFromEnv builds a Config from KURA_* environment variables alone.
func ConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// Save writes cfg to path as YAML. Used to persist watch directory changes
// made through the API.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ApplyDefaults sets default values for any zero values in cfg. ProjectName
// has no default; Validate rejects a config without one.
func (c *Config) ApplyDefaults() {
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = string(cache.BackendMemory)
	}
	if c.Search.Backend == "" {
		c.Search.Backend = string(search.BackendMemory)
	}
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if len(c.Watch.Extensions) == 0 {
		c.Watch.Extensions = []string{".txt", ".md"}
	}
	if c.Watch.Collection == "" {
		c.Watch.Collection = "files"
	}
}

// Validate checks that the config can construct a Store.
func (c *Config) Validate() error {
	if c.ProjectName == "" {
		return fmt.Errorf("%w: project_name is required", ErrInvalidConfig)
	}
	return nil
}

// DatabasePath returns the SQLite file path for this store.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, c.ProjectName+".db")
}

// BleveIndexPath returns the bleve index path for this store.
func (c *Config) BleveIndexPath() string {
	if c.Search.BlevePath != "" {
		return c.Search.BlevePath
	}
	return filepath.Join(c.DataDir, c.ProjectName+".bleve")
}
