// Package internal holds the application configuration.
package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/granola-tools/granola/internal/timeutil"
)

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Cache CacheConfig       `yaml:"cache"`
	Index IndexConfig       `yaml:"index"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	return c.Cache.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return nil
}

// CacheConfig locates the Granola cache file and sets the reference timezone
// all timestamps are normalized into.
type CacheConfig struct {
	Path     string `yaml:"path"`
	Timezone string `yaml:"timezone"`
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// IndexConfig holds the optional SQLite search index location. An empty path
// disables the index; searches fall back to a linear scan.
type IndexConfig struct {
	Path string `yaml:"path"`
}

// Enabled reports whether the search index is configured.
func (c *IndexConfig) Enabled() bool {
	return c.Path != ""
}

// defaultCachePath is where the Granola desktop app keeps its cache.
func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cache-v3.json"
	}
	return filepath.Join(home, "Library", "Application Support", "Granola", "cache-v3.json")
}

// DefaultConfigFile is where configuration is looked for when no --config
// flag is given. A missing file is fine; defaults and GRANOLA_* environment
// variables carry a config-file-less setup.
func DefaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "granola.yaml"
	}
	return filepath.Join(dir, "granola", "config.yaml")
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelWarn,
		},
		Cache: CacheConfig{
			Path:     defaultCachePath(),
			Timezone: timeutil.DefaultZone,
		},
	}
}

// ApplyEnv overlays GRANOLA_* environment variables onto the config. Called
// after file loading so the environment wins.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GRANOLA_CACHE_PATH"); v != "" {
		c.Cache.Path = expandHome(v)
	}
	if v := os.Getenv("GRANOLA_TIMEZONE"); v != "" {
		c.Cache.Timezone = v
	}
	if v := os.Getenv("GRANOLA_INDEX_PATH"); v != "" {
		c.Index.Path = expandHome(v)
	}
	if v := os.Getenv("GRANOLA_LOG_LEVEL"); v != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(v)); err == nil {
			c.App.LogLevel = level
		}
	}
}

// expandHome handles a leading ~/ in user-supplied paths.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
