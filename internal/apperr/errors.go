// Package apperr defines the sentinel errors surfaced by the cache layer.
//
// Only structural cache failures are errors at all: a missing file, a cache
// document that does not decode, or a state store without the "state" object.
// Everything below that level (field resolution, timestamp parsing, duration
// derivation) degrades to an absent value instead.
package apperr

import "errors"

var (
	// ErrNotFound indicates the cache file does not exist or is unreadable.
	ErrNotFound = errors.New("cache file not found")

	// ErrMalformedCache indicates a JSON decode failure or a structural shape
	// violation in either the outer envelope or the inner cache document.
	// The wrapping message identifies which stage failed.
	ErrMalformedCache = errors.New("malformed cache")

	// ErrMissingState indicates the decoded cache document has no "state"
	// object, which every downstream record depends on.
	ErrMissingState = errors.New("cache state missing")
)
