package meeting

import (
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/granola-tools/granola/internal/cache"
)

// View is a read-only projection over one reconciled meeting record. All
// accessors are total: a missing or unconvertible field yields an absent
// value, never an error. The only cached derivation is the transcript,
// materialized once per view.
type View struct {
	rec cache.Record
	loc *time.Location

	transcript       *Transcript
	transcriptParsed bool
}

// NewView wraps a reconciled record. Times normalize into loc.
func NewView(rec cache.Record, loc *time.Location) *View {
	return &View{rec: rec, loc: loc}
}

// ID resolves the meeting identifier.
func (v *View) ID() (string, bool) {
	return resolveString(v.rec, idFields)
}

// Title resolves the meeting title.
func (v *View) Title() (string, bool) {
	return resolveString(v.rec, titleFields)
}

// StartTime resolves the start time, falling back to the calendar-style
// nested start.dateTime shape when no direct field parses.
func (v *View) StartTime() (time.Time, bool) {
	if t, ok := resolveTime(v.rec, startFields, v.loc); ok {
		return t, true
	}
	return nestedDateTime(v.rec, "start", v.loc)
}

// EndTime resolves the end time, with the same nested fallback.
func (v *View) EndTime() (time.Time, bool) {
	if t, ok := resolveTime(v.rec, endFields, v.loc); ok {
		return t, true
	}
	return nestedDateTime(v.rec, "end", v.loc)
}

// Duration derives the meeting duration through a strict priority chain:
//
//  1. transcript timing — ground truth for actual talk time;
//  2. calendar start/end — scheduling metadata;
//  3. an explicit duration-in-seconds field;
//  4. absent.
//
// Document lifecycle timestamps (created_at/updated_at) are never a duration
// source: they describe when the record was saved, not the meeting's span.
func (v *View) Duration() (time.Duration, bool) {
	if d, ok := v.durationFromTranscript(); ok {
		return d, true
	}
	if d, ok := v.durationFromCalendar(); ok {
		return d, true
	}
	if secs, ok := resolveFloat(v.rec, explicitDurationKeys); ok {
		return time.Duration(secs * float64(time.Second)), true
	}
	return 0, false
}

// durationFromTranscript spans the earliest start to the latest end across
// segments carrying both absolute timestamps, else takes the maximum relative
// offset (the relative clock is assumed zero-based).
func (v *View) durationFromTranscript() (time.Duration, bool) {
	t := v.Transcript()
	if t == nil {
		return 0, false
	}
	segments := t.Segments()
	if len(segments) == 0 {
		return 0, false
	}

	var first, last time.Time
	found := false
	for _, seg := range segments {
		start, okStart := resolveTime(seg.data, []string{"start_timestamp"}, v.loc)
		end, okEnd := resolveTime(seg.data, []string{"end_timestamp"}, v.loc)
		if !okStart || !okEnd {
			continue
		}
		if !found || start.Before(first) {
			first = start
		}
		if !found || end.After(last) {
			last = end
		}
		found = true
	}
	if found {
		return last.Sub(first), true
	}

	var maxOffset float64
	for _, seg := range segments {
		for _, key := range []string{"startSec", "start_time", "offset"} {
			raw, ok := seg.data[key]
			if !ok {
				continue
			}
			if f, err := cast.ToFloat64E(raw); err == nil && f > maxOffset {
				maxOffset = f
			}
		}
	}
	if maxOffset > 0 {
		return time.Duration(maxOffset * float64(time.Second)), true
	}

	return 0, false
}

func (v *View) durationFromCalendar() (time.Duration, bool) {
	if start, ok := nestedDateTime(v.rec, "start", v.loc); ok {
		if end, ok := nestedDateTime(v.rec, "end", v.loc); ok {
			return end.Sub(start), true
		}
	}

	start, okStart := resolveTime(v.rec, durationStartKeys, v.loc)
	end, okEnd := resolveTime(v.rec, durationEndKeys, v.loc)
	if okStart && okEnd {
		return end.Sub(start), true
	}
	return 0, false
}

// Participants resolves the participant list. Entries may be plain strings or
// objects carrying a name-like field.
func (v *View) Participants() []string {
	var out []string
	for _, key := range participantFields {
		raw, ok := v.rec[key].([]any)
		if !ok {
			continue
		}
		for _, item := range raw {
			switch p := item.(type) {
			case string:
				out = append(out, p)
			case map[string]any:
				if name, ok := resolveString(p, participantNameKeys); ok {
					out = append(out, name)
				}
			}
		}
		break
	}
	return out
}

// Summary resolves the AI-generated meeting summary. Distinct from
// HumanNotes: a meeting may have both, either, or neither.
func (v *View) Summary() (string, bool) {
	return resolveNonEmptyString(v.rec, summaryFields)
}

// HumanNotes resolves human-authored notes: explicit note fields first, then
// the Granola markdown/plain note fields, then text extracted from the
// structured panel content tree.
func (v *View) HumanNotes() (string, bool) {
	if notes, ok := resolveNonEmptyString(v.rec, notesFields); ok {
		return notes, true
	}
	if notes, ok := resolveNonEmptyString(v.rec, []string{"notes_markdown", "notes_plain"}); ok {
		return notes, true
	}
	if panel, ok := v.rec[cache.KeyPanelContent].(map[string]any); ok {
		if nodes, ok := panel["content"].([]any); ok && len(nodes) > 0 {
			if text := extractRichText(nodes); text != "" {
				return text, true
			}
		}
	}
	return "", false
}

// AISummaryHTML returns the reconciled panel HTML, if any.
func (v *View) AISummaryHTML() (string, bool) {
	s, ok := v.rec[cache.KeyAISummary].(string)
	return s, ok && s != ""
}

// Tags resolves tags; list values are stringified, string values split on
// commas and trimmed.
func (v *View) Tags() []string {
	var out []string
	for _, key := range tagFields {
		raw, ok := v.rec[key]
		if !ok {
			continue
		}
		switch t := raw.(type) {
		case []any:
			for _, item := range t {
				if s, err := cast.ToStringE(item); err == nil {
					out = append(out, s)
				}
			}
		case string:
			for _, part := range splitTrim(t) {
				out = append(out, part)
			}
		}
		break
	}
	return out
}

// FolderName reads the reconciled folder field directly: always present by
// construction, possibly nil.
func (v *View) FolderName() (string, bool) {
	s, ok := v.rec[cache.KeyFolderName].(string)
	return s, ok
}

// FolderID reads the reconciled folder id.
func (v *View) FolderID() (string, bool) {
	s, ok := v.rec[cache.KeyFolderID].(string)
	return s, ok
}

// Transcript materializes the transcript view at most once for the life of
// this view. Returns nil when the record carries no transcript payload.
func (v *View) Transcript() *Transcript {
	if v.transcriptParsed {
		return v.transcript
	}
	v.transcriptParsed = true

	raw, ok := v.rec[cache.KeyTranscript]
	if !ok {
		for _, key := range []string{"transcript", "transcription", "content", "text"} {
			if value, present := v.rec[key]; present {
				raw = value
				ok = true
				break
			}
		}
	}
	if !ok || truthless(raw) {
		return nil
	}
	v.transcript = NewTranscript(raw, v.loc)
	return v.transcript
}

// HasTranscript reports whether the record carries transcript data.
func (v *View) HasTranscript() bool {
	return v.Transcript() != nil
}

// Raw returns the underlying record. Intended for the raw-JSON surface only;
// everything else goes through the accessors.
func (v *View) Raw() cache.Record {
	return v.rec
}

// GetField reads a single raw field.
func (v *View) GetField(name string) (any, bool) {
	value, ok := v.rec[name]
	return value, ok
}

// ToMap renders the view with standardized keys for the JSON/CLI surface.
func (v *View) ToMap() map[string]any {
	out := map[string]any{
		"id":             optString(v.ID()),
		"title":          optString(v.Title()),
		"start_time":     optTime(v.StartTime()),
		"end_time":       optTime(v.EndTime()),
		"participants":   v.Participants(),
		"summary":        optString(v.Summary()),
		"tags":           v.Tags(),
		"folder_name":    optString(v.FolderName()),
		"folder_id":      optString(v.FolderID()),
		"has_transcript": v.HasTranscript(),
	}
	if d, ok := v.Duration(); ok {
		out["duration_seconds"] = d.Seconds()
	} else {
		out["duration_seconds"] = nil
	}
	return out
}

func optString(s string, ok bool) any {
	if !ok {
		return nil
	}
	return s
}

func optTime(t time.Time, ok bool) any {
	if !ok {
		return nil
	}
	return t.Format(time.RFC3339)
}

func splitTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// truthless mirrors the overlay falsiness rules for transcript payloads.
func truthless(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
