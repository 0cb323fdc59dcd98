package internal

import (
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/granola-tools/granola/internal/timeutil"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Cache.Path == "" {
		t.Error("default cache path should be set")
	}
	if cfg.Cache.Timezone != timeutil.DefaultZone {
		t.Errorf("timezone = %q, want %q", cfg.Cache.Timezone, timeutil.DefaultZone)
	}
	if cfg.App.LogLevel != slog.LevelWarn {
		t.Errorf("log level = %v, want warn", cfg.App.LogLevel)
	}
	if cfg.Index.Enabled() {
		t.Error("index should be disabled by default")
	}
}

func TestCacheConfig_PathRequired(t *testing.T) {
	cfg := CacheConfig{Path: ""}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty cache path should fail validation")
	}
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestApplyEnv_Overrides(t *testing.T) {
	t.Setenv("GRANOLA_CACHE_PATH", "/tmp/other-cache.json")
	t.Setenv("GRANOLA_TIMEZONE", "UTC")
	t.Setenv("GRANOLA_INDEX_PATH", "/tmp/index.db")
	t.Setenv("GRANOLA_LOG_LEVEL", "debug")

	cfg := NewDefaultConfig()
	cfg.ApplyEnv()

	if cfg.Cache.Path != "/tmp/other-cache.json" {
		t.Errorf("cache path = %q", cfg.Cache.Path)
	}
	if cfg.Cache.Timezone != "UTC" {
		t.Errorf("timezone = %q", cfg.Cache.Timezone)
	}
	if !cfg.Index.Enabled() || cfg.Index.Path != "/tmp/index.db" {
		t.Errorf("index path = %q", cfg.Index.Path)
	}
	if cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", cfg.App.LogLevel)
	}
}

func TestApplyEnv_BadLogLevelIgnored(t *testing.T) {
	t.Setenv("GRANOLA_LOG_LEVEL", "shout")
	cfg := NewDefaultConfig()
	cfg.ApplyEnv()
	if cfg.App.LogLevel != slog.LevelWarn {
		t.Errorf("log level = %v, want unchanged warn", cfg.App.LogLevel)
	}
}

func TestDefaultConfigFile(t *testing.T) {
	got := DefaultConfigFile()
	want := filepath.Join("granola", "config.yaml")
	if !strings.HasSuffix(got, want) {
		t.Errorf("DefaultConfigFile() = %q, want suffix %q", got, want)
	}
}

func TestExpandHome(t *testing.T) {
	got := expandHome("~/cache.json")
	if got == "~/cache.json" {
		t.Errorf("expected expansion, got %q", got)
	}
	if p := expandHome("/abs/path"); p != "/abs/path" {
		t.Errorf("absolute path must pass through, got %q", p)
	}
}
