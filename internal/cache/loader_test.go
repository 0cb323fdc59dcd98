package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/granola-tools/granola/internal/apperr"
)

// writeCache builds a cache file with the double-encoded layout: the state
// document serialized to a JSON string stored under the outer "cache" key.
func writeCache(t *testing.T, state map[string]any) string {
	t.Helper()

	inner, err := json.Marshal(map[string]any{"state": state})
	if err != nil {
		t.Fatal(err)
	}
	outer, err := json.Marshal(map[string]any{"cache": string(inner)})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "cache-v3.json")
	if err := os.WriteFile(path, outer, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeRaw(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache-v3.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_TwoStageDecode(t *testing.T) {
	path := writeCache(t, map[string]any{
		"documents": map[string]any{
			"doc-1": map[string]any{"title": "Standup"},
		},
	})

	store, err := NewLoader(path).Load(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state, ok := store["state"].(map[string]any)
	if !ok {
		t.Fatalf("missing state object in %v", store)
	}
	docs, ok := state["documents"].(map[string]any)
	if !ok || len(docs) != 1 {
		t.Errorf("documents = %v, want one entry", state["documents"])
	}
}

func TestLoad_MissingFile(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "nope.json"))
	_, err := l.Load(false)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLoad_PathIsDirectory(t *testing.T) {
	_, err := NewLoader(t.TempDir()).Load(false)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLoad_InvalidOuterJSON(t *testing.T) {
	path := writeRaw(t, "{not json")
	_, err := NewLoader(path).Load(false)
	if !errors.Is(err, apperr.ErrMalformedCache) {
		t.Fatalf("err = %v, want ErrMalformedCache", err)
	}
	if !strings.Contains(err.Error(), "cache file") {
		t.Errorf("outer failure should name the cache file, got %q", err)
	}
}

func TestLoad_OuterNotObject(t *testing.T) {
	path := writeRaw(t, `[1, 2, 3]`)
	_, err := NewLoader(path).Load(false)
	if !errors.Is(err, apperr.ErrMalformedCache) {
		t.Errorf("err = %v, want ErrMalformedCache", err)
	}
}

func TestLoad_MissingCacheField(t *testing.T) {
	path := writeRaw(t, `{"other": 1}`)
	_, err := NewLoader(path).Load(false)
	if !errors.Is(err, apperr.ErrMalformedCache) {
		t.Fatalf("err = %v, want ErrMalformedCache", err)
	}
	if !strings.Contains(err.Error(), "cache") {
		t.Errorf("err = %q", err)
	}
}

func TestLoad_CacheFieldNotString(t *testing.T) {
	path := writeRaw(t, `{"cache": {"state": {}}}`)
	_, err := NewLoader(path).Load(false)
	if !errors.Is(err, apperr.ErrMalformedCache) {
		t.Errorf("err = %v, want ErrMalformedCache", err)
	}
}

func TestLoad_InvalidInnerJSON(t *testing.T) {
	path := writeRaw(t, `{"cache": "{broken"}`)
	_, err := NewLoader(path).Load(false)
	if !errors.Is(err, apperr.ErrMalformedCache) {
		t.Fatalf("err = %v, want ErrMalformedCache", err)
	}
	// Inner failure is distinguishable from an outer one.
	if !strings.Contains(err.Error(), "cache content") {
		t.Errorf("inner failure should name the cache content, got %q", err)
	}
}

func TestLoad_InnerNotObject(t *testing.T) {
	path := writeRaw(t, `{"cache": "[1,2]"}`)
	_, err := NewLoader(path).Load(false)
	if !errors.Is(err, apperr.ErrMalformedCache) {
		t.Errorf("err = %v, want ErrMalformedCache", err)
	}
}

func TestLoad_Memoized(t *testing.T) {
	path := writeCache(t, map[string]any{"documents": map[string]any{}})
	l := NewLoader(path)

	first, err := l.Load(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Corrupt the file; the memoized store must still be served.
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	second, err := l.Load(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first["probe"] = true
	if _, ok := second["probe"]; !ok {
		t.Error("expected memoized Load to return the same store")
	}

	// A forced reload re-reads the (now broken) file.
	if _, err := l.Load(true); !errors.Is(err, apperr.ErrMalformedCache) {
		t.Errorf("forced reload err = %v, want ErrMalformedCache", err)
	}
}

func TestInfo_ValidCache(t *testing.T) {
	path := writeCache(t, map[string]any{
		"documents": map[string]any{
			"a": map[string]any{"title": "One"},
			"b": map[string]any{"title": "Two"},
		},
	})

	info := NewLoader(path).Info()
	if !info.Exists {
		t.Fatal("expected Exists")
	}
	if !info.ValidStructure {
		t.Error("expected ValidStructure")
	}
	if info.MeetingCount != 2 {
		t.Errorf("MeetingCount = %d, want 2", info.MeetingCount)
	}
	if info.SizeBytes == 0 {
		t.Error("expected non-zero SizeBytes")
	}
}

func TestInfo_MissingFile(t *testing.T) {
	info := NewLoader(filepath.Join(t.TempDir(), "nope.json")).Info()
	if info.Exists || info.ValidStructure {
		t.Errorf("info = %+v, want neither Exists nor ValidStructure", info)
	}
}

func TestInfo_MalformedFile(t *testing.T) {
	path := writeRaw(t, "{broken")
	info := NewLoader(path).Info()
	if !info.Exists {
		t.Error("expected Exists for a present but broken file")
	}
	if info.ValidStructure {
		t.Error("expected ValidStructure=false for a broken file")
	}
}
