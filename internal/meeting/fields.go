// Package meeting provides read-only, schema-tolerant views over reconciled
// cache records. The cache format drifts across producer versions, so every
// accessor resolves its value through an ordered list of candidate field
// names and treats any type mismatch as "absent" rather than an error.
package meeting

import (
	"time"

	"github.com/spf13/cast"

	"github.com/granola-tools/granola/internal/timeutil"
)

// Candidate field names per accessor, in priority order. First present (and
// convertible) wins.
var (
	idFields      = []string{"id", "meeting_id", "session_id", "uuid"}
	titleFields   = []string{"title", "name", "subject", "meeting_name", "summary"}
	startFields   = []string{"start_time", "startTime", "created_at", "timestamp", "date"}
	endFields     = []string{"end_time", "endTime", "finished_at"}
	summaryFields = []string{"summary", "ai_summary", "description", "overview"}
	notesFields   = []string{"notes", "human_notes", "user_notes", "manual_notes"}

	participantFields    = []string{"participants", "attendees", "users", "members"}
	participantNameKeys  = []string{"name", "display_name", "email", "username"}
	tagFields            = []string{"tags", "labels", "categories"}
	explicitDurationKeys = []string{"duration", "length", "duration_seconds", "meeting_duration"}

	// Direct start/end pairs usable for duration. Deliberately excludes
	// created_at/updated_at: those describe when the record was saved, not
	// the meeting's real span.
	durationStartKeys = []string{"start_time", "startTime", "meeting_start", "scheduled_start"}
	durationEndKeys   = []string{"end_time", "endTime", "meeting_end", "scheduled_end"}
)

// resolveString returns the first candidate key whose value converts to a
// non-nil string. Conversion failures fall through to the next candidate.
func resolveString(rec map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		if s, err := cast.ToStringE(v); err == nil {
			return s, true
		}
	}
	return "", false
}

// resolveNonEmptyString is resolveString restricted to truthy string values.
func resolveNonEmptyString(rec map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok {
			continue
		}
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// resolveFloat returns the first candidate convertible to a float64.
func resolveFloat(rec map[string]any, keys []string) (float64, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		if f, err := cast.ToFloat64E(v); err == nil {
			return f, true
		}
	}
	return 0, false
}

// resolveTime normalizes the first candidate that parses as a timestamp.
// Per-field normalization failures are swallowed; the next candidate is
// tried.
func resolveTime(rec map[string]any, keys []string, loc *time.Location) (time.Time, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok {
			continue
		}
		if t, err := timeutil.Normalize(v, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// nestedDateTime handles the calendar-style shape {"start": {"dateTime": ...}}.
func nestedDateTime(rec map[string]any, key string, loc *time.Location) (time.Time, bool) {
	obj, ok := rec[key].(map[string]any)
	if !ok {
		return time.Time{}, false
	}
	v, ok := obj["dateTime"]
	if !ok {
		return time.Time{}, false
	}
	t, err := timeutil.Normalize(v, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
