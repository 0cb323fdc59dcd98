package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/granola-tools/granola/internal/export"
)

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show details for one meeting",
		ArgsUsage: "<meeting-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "transcript", Usage: "Include the full transcript"},
			&cli.BoolFlag{Name: "notes", Usage: "Include human notes"},
			&cli.BoolFlag{Name: "summary", Usage: "Include the AI summary"},
			&cli.BoolFlag{Name: "json", Usage: "Emit the standardized record as JSON"},
		},
		Action: runShow,
	}
}

func runShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("meeting id required")
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	v, err := a.svc.Get(id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out, err := json.MarshalIndent(v.ToMap(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	title, ok := v.Title()
	if !ok || title == "" {
		title = "Untitled Meeting"
	}
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", len(title)))

	fmt.Printf("ID:          %s\n", id)
	if start, ok := v.StartTime(); ok {
		fmt.Printf("Start:       %s\n", start.Format("2006-01-02 15:04:05 MST"))
	}
	if end, ok := v.EndTime(); ok {
		fmt.Printf("End:         %s\n", end.Format("2006-01-02 15:04:05 MST"))
	}
	if d, ok := v.Duration(); ok {
		fmt.Printf("Duration:    %s\n", export.FormatDuration(d))
	}
	if folder, ok := v.FolderName(); ok {
		fmt.Printf("Folder:      %s\n", folder)
	}
	if tags := v.Tags(); len(tags) > 0 {
		fmt.Printf("Tags:        %s\n", strings.Join(tags, ", "))
	}
	fmt.Printf("Transcript:  %v\n", v.HasTranscript())

	if participants := v.Participants(); len(participants) > 0 {
		fmt.Println("\nParticipants:")
		for _, p := range participants {
			fmt.Printf("  - %s\n", p)
		}
	}

	if cmd.Bool("summary") {
		if summary, ok := v.Summary(); ok {
			fmt.Println("\nSummary:")
			fmt.Println(indent(summary, "  "))
		}
	}

	if cmd.Bool("notes") {
		if notes, ok := v.HumanNotes(); ok {
			fmt.Println("\nNotes:")
			fmt.Println(indent(notes, "  "))
		}
	}

	if cmd.Bool("transcript") {
		if t := v.Transcript(); t != nil {
			fmt.Println("\nTranscript:")
			for _, seg := range t.Segments() {
				text := strings.TrimSpace(seg.Text())
				if text == "" {
					continue
				}
				speaker, ok := seg.Speaker()
				if !ok {
					speaker = "Unknown"
				}
				fmt.Printf("  [%s]: %s\n", speaker, text)
			}
		}
	}

	return nil
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
