package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/granola-tools/granola/internal/export"
	"github.com/granola-tools/granola/internal/meeting"
	"github.com/granola-tools/granola/internal/meetingsvc"
	"github.com/granola-tools/granola/internal/stats"
	"github.com/granola-tools/granola/internal/timeutil"
)

// jsonResult marshals v as an indented JSON tool result.
func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

// dateFilter builds a Filter from optional from/to date arguments.
func (s *Server) dateFilter(req mcp.CallToolRequest) (meetingsvc.Filter, error) {
	var f meetingsvc.Filter
	loc := s.svc.Zone()
	now := time.Now().In(loc)

	if from := req.GetString("from_date", ""); from != "" {
		t, err := timeutil.ParseDate(from, now, loc)
		if err != nil {
			return f, err
		}
		f.From = t
	}
	if to := req.GetString("to_date", ""); to != "" {
		t, err := timeutil.ParseDate(to, now, loc)
		if err != nil {
			return f, err
		}
		f.To = t
	}
	return f, nil
}

func (s *Server) searchMeetings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter, err := s.dateFilter(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filter.Query = req.GetString("query", "")
	filter.Participant = req.GetString("participant", "")
	filter.Limit = req.GetInt("limit", 0)

	views, err := s.svc.Meetings(false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	matched := filter.Apply(meetingsvc.SortByStartTime(views, false))

	results := make([]map[string]any, 0, len(matched))
	for _, v := range matched {
		entry := map[string]any{
			"id":                optID(v),
			"title":             nil,
			"start_time":        nil,
			"duration_minutes":  nil,
			"participant_count": len(v.Participants()),
			"has_transcript":    v.HasTranscript(),
		}
		if title, ok := v.Title(); ok {
			entry["title"] = title
		}
		if start, ok := v.StartTime(); ok {
			entry["start_time"] = start.Format(time.RFC3339)
		}
		if d, ok := v.Duration(); ok {
			entry["duration_minutes"] = int(d.Minutes())
		}
		if summary, ok := v.Summary(); ok {
			entry["summary"] = truncate(summary, 200)
		}
		results = append(results, entry)
	}

	return jsonResult(map[string]any{
		"total_found": len(results),
		"meetings":    results,
	}), nil
}

func (s *Server) getMeeting(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("meeting_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.svc.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := v.ToMap()
	if notes, ok := v.HumanNotes(); ok {
		result["human_notes"] = notes
	}
	if t := v.Transcript(); t != nil {
		result["transcript_info"] = map[string]any{
			"word_count":    t.WordCount(),
			"speakers":      t.Speakers(),
			"segment_count": t.Len(),
		}
	}
	return jsonResult(result), nil
}

func (s *Server) getTranscript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("meeting_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.svc.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t := v.Transcript()
	if t == nil {
		return mcp.NewToolResultError("meeting has no transcript: " + id), nil
	}

	includeSpeakers := req.GetBool("include_speakers", true)
	includeTimestamps := req.GetBool("include_timestamps", false)

	segments := make([]map[string]any, 0, t.Len())
	for _, seg := range t.Segments() {
		entry := map[string]any{"text": seg.Text()}
		if includeSpeakers {
			if speaker, ok := seg.Speaker(); ok {
				entry["speaker"] = speaker
			}
		}
		if includeTimestamps {
			if ts, ok := seg.Timestamp(); ok {
				entry["timestamp"] = ts.Format(time.RFC3339)
			}
			if start, ok := seg.StartTime(); ok {
				entry["start_time"] = start
			}
			if end, ok := seg.EndTime(); ok {
				entry["end_time"] = end
			}
		}
		segments = append(segments, entry)
	}

	result := map[string]any{
		"meeting_id":    id,
		"full_text":     t.FullText(),
		"word_count":    t.WordCount(),
		"speakers":      t.Speakers(),
		"segment_count": t.Len(),
		"segments":      segments,
	}
	if title, ok := v.Title(); ok {
		result["meeting_title"] = title
	}
	return jsonResult(result), nil
}

func (s *Server) getMeetingNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("meeting_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.svc.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := map[string]any{
		"meeting_id":   id,
		"participants": v.Participants(),
		"tags":         v.Tags(),
	}
	if title, ok := v.Title(); ok {
		result["title"] = title
	}
	if start, ok := v.StartTime(); ok {
		result["date"] = start.Format("2006-01-02")
	}
	if d, ok := v.Duration(); ok {
		result["duration"] = export.FormatDuration(d)
	}
	if summary, ok := v.Summary(); ok {
		result["summary"] = summary
	}
	if notes, ok := v.HumanNotes(); ok {
		result["human_notes"] = notes
	}

	if t := v.Transcript(); t != nil {
		speakerWords := make(map[string]int)
		for _, seg := range t.Segments() {
			if speaker, ok := seg.Speaker(); ok {
				speakerWords[speaker] += len(strings.Fields(seg.Text()))
			}
		}
		result["transcript_summary"] = map[string]any{
			"total_words":           t.WordCount(),
			"speakers":              t.Speakers(),
			"speaker_participation": speakerWords,
		}
	}

	return jsonResult(result), nil
}

func (s *Server) listParticipants(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter, err := s.dateFilter(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	minMeetings := req.GetInt("min_meetings", 0)

	views, err := s.svc.Meetings(false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	matched := filter.Apply(views)

	freq := stats.ParticipantFrequency(matched)
	participants := make([]map[string]any, 0, len(freq))
	for _, pc := range freq {
		if minMeetings > 0 && pc.Count < minMeetings {
			continue
		}
		participants = append(participants, map[string]any{
			"name":          pc.Name,
			"meeting_count": pc.Count,
		})
	}

	return jsonResult(map[string]any{
		"total_participants": len(participants),
		"participants":       participants,
	}), nil
}

func (s *Server) getStatistics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	statType, err := req.RequireString("stat_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filter, err := s.dateFilter(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	views, err := s.svc.Meetings(false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	matched := filter.Apply(views)

	switch statType {
	case "summary":
		return jsonResult(stats.Summarize(matched)), nil
	case "per_day":
		return jsonResult(stats.PerDay(matched)), nil
	case "durations":
		return jsonResult(stats.DurationDistribution(matched)), nil
	case "participants":
		return jsonResult(stats.ParticipantFrequency(matched)), nil
	default:
		return mcp.NewToolResultError("unknown stat_type: " + statType), nil
	}
}

func (s *Server) exportMeeting(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("meeting_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.svc.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc := export.Meeting(v, export.Options{
		IncludeTranscript: req.GetBool("include_transcript", true),
		IncludeTimestamps: true,
	})
	return mcp.NewToolResultText(doc), nil
}

func (s *Server) refreshCache(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.svc.Invalidate()
	views, err := s.svc.Meetings(false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"reloaded":      true,
		"meeting_count": len(views),
	}), nil
}

func optID(v *meeting.View) any {
	if id, ok := v.ID(); ok {
		return id
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

