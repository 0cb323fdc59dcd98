// Package stats computes simple aggregations over normalized meeting views.
// Everything here is a pure function of the inputs; no caching, no I/O.
package stats

import (
	"sort"
	"time"

	"github.com/granola-tools/granola/internal/meeting"
)

// Summary holds headline counts across a set of meetings.
type Summary struct {
	TotalMeetings   int           `json:"total_meetings"`
	WithTranscript  int           `json:"with_transcript"`
	WithDuration    int           `json:"with_duration"`
	TotalDuration   time.Duration `json:"-"`
	AverageDuration time.Duration `json:"-"`
	UniqueSpeakers  int           `json:"unique_participants"`

	TotalDurationSeconds   float64 `json:"total_duration_seconds"`
	AverageDurationSeconds float64 `json:"average_duration_seconds"`
}

// Summarize computes headline statistics.
func Summarize(views []*meeting.View) Summary {
	s := Summary{TotalMeetings: len(views)}
	participants := make(map[string]struct{})

	for _, v := range views {
		if v.HasTranscript() {
			s.WithTranscript++
		}
		if d, ok := v.Duration(); ok {
			s.WithDuration++
			s.TotalDuration += d
		}
		for _, p := range v.Participants() {
			participants[p] = struct{}{}
		}
	}
	if s.WithDuration > 0 {
		s.AverageDuration = s.TotalDuration / time.Duration(s.WithDuration)
	}
	s.UniqueSpeakers = len(participants)
	s.TotalDurationSeconds = s.TotalDuration.Seconds()
	s.AverageDurationSeconds = s.AverageDuration.Seconds()
	return s
}

// DayCount is one day's meeting count.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// PerDay buckets meetings by start date (in each meeting's reference zone)
// and returns the buckets in date order. Meetings without a start time are
// excluded.
func PerDay(views []*meeting.View) []DayCount {
	counts := make(map[string]int)
	for _, v := range views {
		if start, ok := v.StartTime(); ok {
			counts[start.Format("2006-01-02")]++
		}
	}

	out := make([]DayCount, 0, len(counts))
	for date, n := range counts {
		out = append(out, DayCount{Date: date, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// DurationBucket is one duration-distribution bucket.
type DurationBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// durationEdges defines the distribution buckets in minutes.
var durationEdges = []struct {
	label string
	max   time.Duration
}{
	{"< 15m", 15 * time.Minute},
	{"15-30m", 30 * time.Minute},
	{"30-60m", time.Hour},
	{"1-2h", 2 * time.Hour},
	{"> 2h", 1<<63 - 1},
}

// DurationDistribution buckets meetings by duration. Meetings without a
// derivable duration are excluded.
func DurationDistribution(views []*meeting.View) []DurationBucket {
	out := make([]DurationBucket, len(durationEdges))
	for i, e := range durationEdges {
		out[i].Label = e.label
	}
	for _, v := range views {
		d, ok := v.Duration()
		if !ok {
			continue
		}
		for i, e := range durationEdges {
			if d < e.max {
				out[i].Count++
				break
			}
		}
	}
	return out
}

// ParticipantCount is one participant's meeting count.
type ParticipantCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ParticipantFrequency counts meetings per participant, most frequent first;
// ties break alphabetically.
func ParticipantFrequency(views []*meeting.View) []ParticipantCount {
	counts := make(map[string]int)
	for _, v := range views {
		for _, p := range v.Participants() {
			counts[p]++
		}
	}

	out := make([]ParticipantCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, ParticipantCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
