// Package cache loads and normalizes the Granola meeting cache: a local JSON
// file whose single "cache" field holds a second, string-encoded JSON document
// (the state store). The loader performs the two-stage decode; the reconciler
// joins the state store's sub-collections into unified meeting records.
package cache

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/granola-tools/granola/internal/apperr"
)

// StateStore is the decoded inner cache document. It is an open map: besides
// "state" nothing about its shape is guaranteed.
type StateStore map[string]any

// Loader reads and memoizes one cache file. It is read-only and not safe for
// concurrent use; the producing application owns all writes to the file.
type Loader struct {
	path  string
	store StateStore
}

// NewLoader creates a Loader for the cache file at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the cache file path.
func (l *Loader) Path() string {
	return l.path
}

// Load reads and decodes the cache file. Subsequent calls return the memoized
// store unless force is true. The error is one of the apperr sentinels,
// wrapped with stage context.
func (l *Loader) Load(force bool) (StateStore, error) {
	if l.store != nil && !force {
		return l.store, nil
	}

	info, err := os.Stat(l.path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, l.path)
	}

	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, l.path)
	}

	store, err := decode(raw)
	if err != nil {
		return nil, err
	}

	l.store = store
	return l.store, nil
}

// Reload forces a fresh read from disk.
func (l *Loader) Reload() (StateStore, error) {
	return l.Load(true)
}

// decode performs the two-stage JSON decode of a raw cache file.
func decode(raw []byte) (StateStore, error) {
	var outer any
	if err := json.Unmarshal(raw, &outer); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON in cache file: %v", apperr.ErrMalformedCache, err)
	}

	outerObj, ok := outer.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: cache file must contain a JSON object", apperr.ErrMalformedCache)
	}

	inner, ok := outerObj["cache"]
	if !ok {
		return nil, fmt.Errorf("%w: cache file missing required \"cache\" field", apperr.ErrMalformedCache)
	}

	innerStr, ok := inner.(string)
	if !ok {
		return nil, fmt.Errorf("%w: \"cache\" field must be a JSON string", apperr.ErrMalformedCache)
	}

	var state any
	if err := json.Unmarshal([]byte(innerStr), &state); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON in cache content: %v", apperr.ErrMalformedCache, err)
	}

	stateObj, ok := state.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: cache content must be a JSON object", apperr.ErrMalformedCache)
	}

	return StateStore(stateObj), nil
}

// Info describes the cache file and its contents for diagnostics.
type Info struct {
	Path           string `json:"path"`
	Exists         bool   `json:"exists"`
	SizeBytes      int64  `json:"size_bytes"`
	MeetingCount   int    `json:"meeting_count"`
	ValidStructure bool   `json:"valid_structure"`
}

// Info reports on the cache file without failing: structural problems show up
// as ValidStructure=false rather than an error.
func (l *Loader) Info() Info {
	info := Info{Path: l.path}

	st, err := os.Stat(l.path)
	if err != nil || st.IsDir() {
		return info
	}
	info.Exists = true
	info.SizeBytes = st.Size()

	store, err := l.Load(false)
	if err != nil {
		return info
	}
	records, err := Reconcile(store)
	if err != nil {
		return info
	}
	info.MeetingCount = len(records)
	info.ValidStructure = true
	return info
}
