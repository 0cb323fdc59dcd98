package meeting

import (
	"sort"
	"strings"
	"time"
)

// Segment is one timed, speaker-attributed unit of transcript text. Like the
// meeting view, it resolves every attribute through ordered fallback lists
// over an open map.
type Segment struct {
	data map[string]any
	loc  *time.Location
}

var (
	segTextFields    = []string{"text", "content", "transcript", "message"}
	segSpeakerFields = []string{"speaker", "user", "name", "participant", "source"}
	segTimeFields    = []string{"timestamp", "time", "start_timestamp", "created_at"}
	segStartFields   = []string{"start_time", "startTime", "startSec", "offset", "start"}
	segEndFields     = []string{"end_time", "endTime", "end"}
)

// Text returns the segment text, or "" when no text field is present.
func (s *Segment) Text() string {
	text, _ := resolveString(s.data, segTextFields)
	return text
}

// Speaker returns the speaker attribution, if any.
func (s *Segment) Speaker() (string, bool) {
	return resolveString(s.data, segSpeakerFields)
}

// Source returns the audio source tag ("microphone", "system") when present.
func (s *Segment) Source() (string, bool) {
	return resolveString(s.data, []string{"source"})
}

// Timestamp returns the segment's absolute timestamp, timezone-normalized.
func (s *Segment) Timestamp() (time.Time, bool) {
	return resolveTime(s.data, segTimeFields, s.loc)
}

// StartTime returns seconds from meeting start.
func (s *Segment) StartTime() (float64, bool) {
	return resolveFloat(s.data, segStartFields)
}

// EndTime returns the segment end in seconds from meeting start.
func (s *Segment) EndTime() (float64, bool) {
	return resolveFloat(s.data, segEndFields)
}

// Duration returns end-start when both offsets are present, else an explicit
// duration field, else absent.
func (s *Segment) Duration() (float64, bool) {
	start, okStart := s.StartTime()
	end, okEnd := s.EndTime()
	if okStart && okEnd {
		return end - start, true
	}
	return resolveFloat(s.data, []string{"duration"})
}

// ToMap renders the segment with standardized keys for the JSON surface.
func (s *Segment) ToMap() map[string]any {
	out := map[string]any{
		"text": s.Text(),
	}
	if speaker, ok := s.Speaker(); ok {
		out["speaker"] = speaker
	} else {
		out["speaker"] = nil
	}
	if ts, ok := s.Timestamp(); ok {
		out["timestamp"] = ts.Format(time.RFC3339)
	} else {
		out["timestamp"] = nil
	}
	out["start_time"] = optFloat(s.StartTime())
	out["end_time"] = optFloat(s.EndTime())
	out["duration"] = optFloat(s.Duration())
	return out
}

func optFloat(f float64, ok bool) any {
	if !ok {
		return nil
	}
	return f
}

// Transcript wraps a raw transcript payload — one of several shapes produced
// across cache revisions — and presents it as an ordered segment sequence.
// Segments and full text are parsed once and memoized for the life of the
// value; source order is preserved, never re-sorted.
type Transcript struct {
	raw      any
	loc      *time.Location
	segments []*Segment
	parsed   bool
	fullText *string
}

// NewTranscript wraps raw transcript data. Times normalize into loc.
func NewTranscript(raw any, loc *time.Location) *Transcript {
	return &Transcript{raw: raw, loc: loc}
}

// Segments parses the payload on first call and returns the ordered segments.
func (t *Transcript) Segments() []*Segment {
	if !t.parsed {
		t.segments = t.parseSegments()
		t.parsed = true
	}
	return t.segments
}

func (t *Transcript) parseSegments() []*Segment {
	var segments []*Segment
	add := func(data map[string]any) {
		segments = append(segments, &Segment{data: data, loc: t.loc})
	}

	switch raw := t.raw.(type) {
	case string:
		// Plain-text transcript: one segment.
		add(map[string]any{"text": raw})

	case []any:
		for _, item := range raw {
			switch v := item.(type) {
			case map[string]any:
				add(v)
			case string:
				add(map[string]any{"text": v})
			}
		}

	case map[string]any:
		if chunks, ok := raw["chunks"].([]any); ok {
			for _, c := range chunks {
				chunk, ok := c.(map[string]any)
				if !ok {
					continue
				}
				data := map[string]any{
					"text":       chunk["text"],
					"speaker":    "Unknown",
					"start_time": chunk["startSec"],
				}
				if sp, ok := chunk["speaker"]; ok {
					data["speaker"] = sp
				}
				if data["text"] == nil {
					data["text"] = ""
				}
				if data["start_time"] == nil {
					data["start_time"] = 0.0
				}
				add(data)
			}
			break
		}

		for _, key := range []string{"segments", "items", "entries", "messages"} {
			list, ok := raw[key].([]any)
			if !ok {
				continue
			}
			for _, item := range list {
				if m, ok := item.(map[string]any); ok {
					add(m)
				}
			}
			break
		}

		// Last resort: the whole dict is one segment.
		if len(segments) == 0 {
			add(raw)
		}
	}

	return segments
}

// FullText joins non-blank segment texts with newlines. A bare-string payload
// is returned verbatim.
func (t *Transcript) FullText() string {
	if t.fullText == nil {
		text := t.buildFullText()
		t.fullText = &text
	}
	return *t.fullText
}

func (t *Transcript) buildFullText() string {
	if s, ok := t.raw.(string); ok {
		return s
	}
	var parts []string
	for _, seg := range t.Segments() {
		if text := strings.TrimSpace(seg.Text()); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// WordCount returns the whitespace-token count of the full text.
func (t *Transcript) WordCount() int {
	return len(strings.Fields(t.FullText()))
}

// Speakers returns the sorted distinct speaker names.
func (t *Transcript) Speakers() []string {
	seen := make(map[string]struct{})
	for _, seg := range t.Segments() {
		if speaker, ok := seg.Speaker(); ok {
			seen[speaker] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Duration returns the transcript length in seconds: the maximum segment end
// offset when any segment carries one, else the span between the earliest and
// latest absolute timestamps when at least two segments have them.
func (t *Transcript) Duration() (float64, bool) {
	segments := t.Segments()
	if len(segments) == 0 {
		return 0, false
	}

	var maxEnd float64
	haveEnd := false
	for _, seg := range segments {
		if end, ok := seg.EndTime(); ok {
			if !haveEnd || end > maxEnd {
				maxEnd = end
			}
			haveEnd = true
		}
	}
	if haveEnd {
		return maxEnd, true
	}

	var first, last time.Time
	count := 0
	for _, seg := range segments {
		ts, ok := seg.Timestamp()
		if !ok {
			continue
		}
		if count == 0 || ts.Before(first) {
			first = ts
		}
		if count == 0 || ts.After(last) {
			last = ts
		}
		count++
	}
	if count >= 2 {
		return last.Sub(first).Seconds(), true
	}

	return 0, false
}

// SegmentsBySpeaker returns the segments attributed to speaker, in order.
func (t *Transcript) SegmentsBySpeaker(speaker string) []*Segment {
	var out []*Segment
	for _, seg := range t.Segments() {
		if s, ok := seg.Speaker(); ok && s == speaker {
			out = append(out, seg)
		}
	}
	return out
}

// SegmentsInRange returns segments overlapping [start, end] seconds. Segments
// without both offsets are excluded.
func (t *Transcript) SegmentsInRange(start, end float64) []*Segment {
	var out []*Segment
	for _, seg := range t.Segments() {
		segStart, okStart := seg.StartTime()
		segEnd, okEnd := seg.EndTime()
		if okStart && okEnd && segStart <= end && segEnd >= start {
			out = append(out, seg)
		}
	}
	return out
}

// SearchText returns segments whose text contains query.
func (t *Transcript) SearchText(query string, caseSensitive bool) []*Segment {
	if !caseSensitive {
		query = strings.ToLower(query)
	}
	var out []*Segment
	for _, seg := range t.Segments() {
		text := seg.Text()
		if !caseSensitive {
			text = strings.ToLower(text)
		}
		if strings.Contains(text, query) {
			out = append(out, seg)
		}
	}
	return out
}

// Len returns the segment count.
func (t *Transcript) Len() int {
	return len(t.Segments())
}

// ToMap renders the transcript with its aggregates for the JSON surface.
func (t *Transcript) ToMap() map[string]any {
	segments := make([]map[string]any, 0, t.Len())
	for _, seg := range t.Segments() {
		segments = append(segments, seg.ToMap())
	}
	out := map[string]any{
		"full_text":     t.FullText(),
		"word_count":    t.WordCount(),
		"speakers":      t.Speakers(),
		"segment_count": t.Len(),
		"segments":      segments,
	}
	out["duration"] = optFloat(t.Duration())
	return out
}
