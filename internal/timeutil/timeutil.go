// Package timeutil normalizes the heterogeneous timestamp shapes found in
// Granola cache records into a single reference timezone.
package timeutil

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// DefaultZone is the reference timezone when none is configured.
const DefaultZone = "America/Chicago"

// LoadZone resolves an IANA zone name, falling back to DefaultZone when the
// name is empty.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("timeutil: load zone %q: %w", name, err)
	}
	return loc, nil
}

// isoLayouts covers the ISO-8601 variants observed across cache revisions.
// Zone-less layouts are interpreted as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize converts a timestamp value (ISO-8601 string, Unix numeric, or
// time.Time) into loc. Values without zone information are assumed UTC.
func Normalize(v any, loc *time.Location) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.In(loc), nil
	case string:
		return parseISO(t, loc)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return time.Time{}, fmt.Errorf("timeutil: bad numeric timestamp %q", t)
		}
		return fromUnix(f, loc), nil
	case float64, float32, int, int32, int64, uint, uint32, uint64:
		return fromUnix(cast.ToFloat64(t), loc), nil
	case nil:
		return time.Time{}, fmt.Errorf("timeutil: nil timestamp")
	default:
		return time.Time{}, fmt.Errorf("timeutil: unsupported timestamp type %T", v)
	}
}

func parseISO(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("timeutil: empty timestamp")
	}
	for _, layout := range isoLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("timeutil: unrecognized timestamp %q", s)
}

func fromUnix(sec float64, loc *time.Location) time.Time {
	whole := int64(sec)
	frac := int64((sec - float64(whole)) * float64(time.Second))
	return time.Unix(whole, frac).In(loc)
}
