package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var relativeRe = regexp.MustCompile(`^(\d+)([hdwmy])$`)

// ParseRelative parses a relative date string like "3d", "24h", or "1w" and
// returns the point that far before ref. Months and years are approximated as
// 30 and 365 days.
func ParseRelative(s string, ref time.Time) (time.Time, error) {
	m := relativeRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return time.Time{}, fmt.Errorf("timeutil: invalid relative date %q (expected e.g. 3d, 24h, 1w)", s)
	}
	n, _ := strconv.Atoi(m[1])
	var d time.Duration
	switch m[2] {
	case "h":
		d = time.Duration(n) * time.Hour
	case "d":
		d = time.Duration(n) * 24 * time.Hour
	case "w":
		d = time.Duration(n) * 7 * 24 * time.Hour
	case "m":
		d = time.Duration(n) * 30 * 24 * time.Hour
	case "y":
		d = time.Duration(n) * 365 * 24 * time.Hour
	}
	return ref.Add(-d), nil
}

// ParseDate parses either a relative date ("3d") or an absolute date
// ("2025-01-01" or "2025-01-01 14:30:00") in loc.
func ParseDate(s string, ref time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if relativeRe.MatchString(strings.ToLower(s)) {
		return ParseRelative(s, ref)
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("timeutil: invalid date %q (expected relative like 3d or absolute YYYY-MM-DD)", s)
}

// DateRange resolves a start/end pair of date strings into an ordered range.
// An empty end means "now" (ref). The bounds are swapped if given reversed.
func DateRange(start, end string, ref time.Time, loc *time.Location) (time.Time, time.Time, error) {
	from, err := ParseDate(start, ref, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to := ref
	if end != "" {
		if to, err = ParseDate(end, ref, loc); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if from.After(to) {
		from, to = to, from
	}
	return from, to, nil
}
