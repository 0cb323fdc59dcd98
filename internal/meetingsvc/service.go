// Package meetingsvc ties the cache loader and reconciler together behind
// the read API shared by CLI commands and MCP tool handlers.
package meetingsvc

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/granola-tools/granola/internal/cache"
	"github.com/granola-tools/granola/internal/meeting"
)

// ErrUnknownMeeting is returned when a meeting id resolves to nothing.
var ErrUnknownMeeting = errors.New("meeting not found")

// Service exposes reconciled meeting views. Views are rebuilt from fresh
// records on every (re)load and never mutated in place. The mutex covers the
// mcp --watch case, where the cache watcher invalidates concurrently with
// tool handlers reading.
type Service struct {
	loader *cache.Loader
	loc    *time.Location

	mu    sync.Mutex // guards views and all loader access
	views []*meeting.View
}

// New creates a Service over loader. Times normalize into loc.
func New(loader *cache.Loader, loc *time.Location) *Service {
	return &Service{loader: loader, loc: loc}
}

// Loader returns the underlying cache loader.
func (s *Service) Loader() *cache.Loader {
	return s.loader
}

// Zone returns the reference timezone.
func (s *Service) Zone() *time.Location {
	return s.loc
}

// Meetings loads, reconciles, and wraps every record. Results are memoized
// until Invalidate or force.
func (s *Service) Meetings(force bool) ([]*meeting.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.views != nil && !force {
		return s.views, nil
	}

	store, err := s.loader.Load(force)
	if err != nil {
		return nil, err
	}
	records, err := cache.Reconcile(store)
	if err != nil {
		return nil, err
	}

	views := make([]*meeting.View, 0, len(records))
	for _, rec := range records {
		views = append(views, meeting.NewView(rec, s.loc))
	}
	s.views = views
	return views, nil
}

// Get returns the meeting whose resolved id equals id.
func (s *Service) Get(id string) (*meeting.View, error) {
	views, err := s.Meetings(false)
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		if got, ok := v.ID(); ok && got == id {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMeeting, id)
}

// Invalidate drops memoized views and reloads the state store so the next
// read works from current disk contents. A failed reload keeps the previous
// store, so readers see the last good data while the producing app is
// mid-write.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = nil
	s.loader.Reload() //nolint:errcheck // a failed reload keeps the previous store
}

// Filter describes the optional meeting filters shared by the CLI and the
// MCP search tool. Zero values mean "no constraint".
type Filter struct {
	From        time.Time
	To          time.Time
	Participant string
	Query       string
	Title       string
	Folder      string
	Limit       int
}

// Apply filters views in order: date window, participant, title substring,
// folder, free-text query, then limit.
func (f Filter) Apply(views []*meeting.View) []*meeting.View {
	out := views
	if !f.From.IsZero() || !f.To.IsZero() {
		out = filterByDate(out, f.From, f.To)
	}
	if f.Participant != "" {
		out = filterByParticipant(out, f.Participant)
	}
	if f.Title != "" {
		out = filterByTitle(out, f.Title)
	}
	if f.Folder != "" {
		out = filterByFolder(out, f.Folder)
	}
	if f.Query != "" {
		out = filterByQuery(out, f.Query)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func filterByDate(views []*meeting.View, from, to time.Time) []*meeting.View {
	var out []*meeting.View
	for _, v := range views {
		start, ok := v.StartTime()
		if !ok {
			continue
		}
		if !from.IsZero() && start.Before(from) {
			continue
		}
		if !to.IsZero() && start.After(to) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func filterByParticipant(views []*meeting.View, participant string) []*meeting.View {
	needle := strings.ToLower(participant)
	var out []*meeting.View
	for _, v := range views {
		for _, p := range v.Participants() {
			if strings.Contains(strings.ToLower(p), needle) {
				out = append(out, v)
				break
			}
		}
	}
	return out
}

func filterByTitle(views []*meeting.View, title string) []*meeting.View {
	needle := strings.ToLower(title)
	var out []*meeting.View
	for _, v := range views {
		if t, ok := v.Title(); ok && strings.Contains(strings.ToLower(t), needle) {
			out = append(out, v)
		}
	}
	return out
}

func filterByFolder(views []*meeting.View, folder string) []*meeting.View {
	needle := strings.ToLower(folder)
	var out []*meeting.View
	for _, v := range views {
		if name, ok := v.FolderName(); ok && strings.Contains(strings.ToLower(name), needle) {
			out = append(out, v)
		}
	}
	return out
}

// filterByQuery matches a query against title, summary, and transcript text.
func filterByQuery(views []*meeting.View, query string) []*meeting.View {
	needle := strings.ToLower(query)
	var out []*meeting.View
	for _, v := range views {
		if t, ok := v.Title(); ok && strings.Contains(strings.ToLower(t), needle) {
			out = append(out, v)
			continue
		}
		if sum, ok := v.Summary(); ok && strings.Contains(strings.ToLower(sum), needle) {
			out = append(out, v)
			continue
		}
		if tr := v.Transcript(); tr != nil && strings.Contains(strings.ToLower(tr.FullText()), needle) {
			out = append(out, v)
		}
	}
	return out
}

// SortByStartTime orders views chronologically; ascending when asc, else
// newest first. Views without a start time sort last.
func SortByStartTime(views []*meeting.View, asc bool) []*meeting.View {
	out := make([]*meeting.View, len(views))
	copy(out, views)
	less := func(i, j int) bool {
		ti, oki := out[i].StartTime()
		tj, okj := out[j].StartTime()
		switch {
		case oki && okj:
			if asc {
				return ti.Before(tj)
			}
			return ti.After(tj)
		case oki:
			return true
		default:
			return false
		}
	}
	sort.SliceStable(out, less)
	return out
}
