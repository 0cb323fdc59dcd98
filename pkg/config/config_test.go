package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

type validatedConfig struct {
	Name string `yaml:"name"`
}

func (c *validatedConfig) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Basic(t *testing.T) {
	path := writeFile(t, "name: granola\npath: /tmp/cache.json\n")
	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "granola" || cfg.Path != "/tmp/cache.json" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_CACHE_DIR", "/data")
	path := writeFile(t, "path: ${TEST_CACHE_DIR}/cache.json\n")
	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Path != "/data/cache.json" {
		t.Errorf("path = %q", cfg.Path)
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeFile(t, "name: \"\"\n")
	var cfg validatedConfig
	if err := Load(path, &cfg); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var cfg testConfig
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadIfExists_MissingFileIsNoop(t *testing.T) {
	cfg := testConfig{Name: "keep"}
	if err := LoadIfExists(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "keep" {
		t.Errorf("name = %q, defaults must survive", cfg.Name)
	}
}
