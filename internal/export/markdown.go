// Package export renders meetings as Markdown documents for the export
// command and the export_meeting MCP tool.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/granola-tools/granola/internal/meeting"
)

// Options controls what an exported document includes.
type Options struct {
	IncludeTranscript bool
	IncludeTimestamps bool
}

// Meeting renders one meeting as a Markdown document.
func Meeting(v *meeting.View, opts Options) string {
	var b strings.Builder

	title, ok := v.Title()
	if !ok || title == "" {
		title = "Untitled Meeting"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	writeMetadata(&b, v)
	writeParticipants(&b, v)
	writeSummary(&b, v)
	writeNotes(&b, v)

	if opts.IncludeTranscript {
		writeTranscript(&b, v, opts.IncludeTimestamps)
	}

	return b.String()
}

func writeMetadata(b *strings.Builder, v *meeting.View) {
	b.WriteString("## Meeting Information\n\n")
	b.WriteString("| Field | Value |\n|---|---|\n")

	if id, ok := v.ID(); ok {
		fmt.Fprintf(b, "| Meeting ID | `%s` |\n", id)
	}
	if start, ok := v.StartTime(); ok {
		fmt.Fprintf(b, "| Date & Time | %s |\n", start.Format("2006-01-02 15:04:05 MST"))
	}
	if d, ok := v.Duration(); ok {
		fmt.Fprintf(b, "| Duration | %s |\n", FormatDuration(d))
	}
	if folder, ok := v.FolderName(); ok {
		fmt.Fprintf(b, "| Folder | %s |\n", folder)
	}
	if tags := v.Tags(); len(tags) > 0 {
		fmt.Fprintf(b, "| Tags | %s |\n", strings.Join(tags, ", "))
	}
	b.WriteString("\n")
}

func writeParticipants(b *strings.Builder, v *meeting.View) {
	participants := v.Participants()
	if len(participants) == 0 {
		return
	}
	b.WriteString("## Participants\n\n")
	for _, p := range participants {
		fmt.Fprintf(b, "- %s\n", p)
	}
	b.WriteString("\n")
}

func writeSummary(b *strings.Builder, v *meeting.View) {
	summary, ok := v.Summary()
	if !ok {
		return
	}
	b.WriteString("## Summary\n\n")
	b.WriteString(summary)
	b.WriteString("\n\n")
}

func writeNotes(b *strings.Builder, v *meeting.View) {
	notes, ok := v.HumanNotes()
	if !ok {
		return
	}
	b.WriteString("## Notes\n\n")
	b.WriteString(notes)
	b.WriteString("\n\n")
}

func writeTranscript(b *strings.Builder, v *meeting.View, timestamps bool) {
	t := v.Transcript()
	if t == nil {
		return
	}
	b.WriteString("## Transcript\n\n")
	for _, seg := range t.Segments() {
		text := strings.TrimSpace(seg.Text())
		if text == "" {
			continue
		}
		speaker, ok := seg.Speaker()
		if !ok {
			speaker = "Unknown"
		}
		if timestamps {
			if start, ok := seg.StartTime(); ok {
				fmt.Fprintf(b, "**[%s] %s:** %s\n\n", FormatOffset(start), speaker, text)
				continue
			}
		}
		fmt.Fprintf(b, "**%s:** %s\n\n", speaker, text)
	}
}

// FormatDuration renders a duration as "1h 5m" / "32m 15s" / "45s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatOffset renders seconds-from-start as "MM:SS" or "H:MM:SS".
func FormatOffset(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
