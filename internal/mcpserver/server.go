// Package mcpserver exposes meeting data to LLM clients over the Model
// Context Protocol via stdio transport.
package mcpserver

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/granola-tools/granola/internal/meetingsvc"
)

// Server wraps the MCP server with the meeting tools.
type Server struct {
	mcp    *server.MCPServer
	svc    *meetingsvc.Service
	logger *slog.Logger
}

// New creates an MCP server with all meeting tools registered.
func New(svc *meetingsvc.Service, logger *slog.Logger) *Server {
	s := &Server{svc: svc, logger: logger}

	s.mcp = server.NewMCPServer(
		"Granola",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_meetings",
		mcp.WithDescription("Search meetings by text query, date range, and participant."),
		mcp.WithString("query", mcp.Description("Text to search in title, summary, and transcript")),
		mcp.WithString("from_date", mcp.Description("Start date: absolute (2025-01-01) or relative (30d)")),
		mcp.WithString("to_date", mcp.Description("End date: absolute or relative")),
		mcp.WithString("participant", mcp.Description("Participant name or email substring")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results")),
	), s.searchMeetings)

	s.mcp.AddTool(mcp.NewTool("get_meeting",
		mcp.WithDescription("Get complete details for one meeting."),
		mcp.WithString("meeting_id", mcp.Required(), mcp.Description("Meeting ID")),
	), s.getMeeting)

	s.mcp.AddTool(mcp.NewTool("get_transcript",
		mcp.WithDescription("Get the full transcript of a meeting."),
		mcp.WithString("meeting_id", mcp.Required(), mcp.Description("Meeting ID")),
		mcp.WithBoolean("include_speakers", mcp.Description("Include speaker attribution (default true)")),
		mcp.WithBoolean("include_timestamps", mcp.Description("Include segment timing (default false)")),
	), s.getTranscript)

	s.mcp.AddTool(mcp.NewTool("get_meeting_notes",
		mcp.WithDescription("Get AI summary, human notes, and a transcript digest for a meeting."),
		mcp.WithString("meeting_id", mcp.Required(), mcp.Description("Meeting ID")),
	), s.getMeetingNotes)

	s.mcp.AddTool(mcp.NewTool("list_participants",
		mcp.WithDescription("List participants with meeting counts."),
		mcp.WithString("from_date", mcp.Description("Start date filter")),
		mcp.WithString("to_date", mcp.Description("End date filter")),
		mcp.WithNumber("min_meetings", mcp.Description("Only include participants with at least this many meetings")),
	), s.listParticipants)

	s.mcp.AddTool(mcp.NewTool("get_statistics",
		mcp.WithDescription("Meeting statistics: summary, per_day, durations, or participants."),
		mcp.WithString("stat_type", mcp.Required(), mcp.Description("One of: summary, per_day, durations, participants")),
		mcp.WithString("from_date", mcp.Description("Start date filter")),
		mcp.WithString("to_date", mcp.Description("End date filter")),
	), s.getStatistics)

	s.mcp.AddTool(mcp.NewTool("export_meeting",
		mcp.WithDescription("Export a meeting as a Markdown document."),
		mcp.WithString("meeting_id", mcp.Required(), mcp.Description("Meeting ID")),
		mcp.WithBoolean("include_transcript", mcp.Description("Include the transcript section (default true)")),
	), s.exportMeeting)

	s.mcp.AddTool(mcp.NewTool("refresh_cache",
		mcp.WithDescription("Force a reload of the cache file from disk."),
	), s.refreshCache)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Invalidate drops memoized meeting data; the next tool call reloads from
// disk. Called by the cache watcher.
func (s *Server) Invalidate() {
	s.svc.Invalidate()
	s.logger.Debug("mcpserver: cache invalidated")
}
