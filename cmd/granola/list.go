package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/granola-tools/granola/internal/export"
	"github.com/granola-tools/granola/internal/meeting"
	"github.com/granola-tools/granola/internal/meetingsvc"
	"github.com/granola-tools/granola/internal/timeutil"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List meetings with optional filters",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "last", Usage: "Only meetings from the last period (e.g. 7d, 24h, 2w)"},
			&cli.StringFlag{Name: "from", Usage: "Start date (YYYY-MM-DD or relative like 7d)"},
			&cli.StringFlag{Name: "to", Usage: "End date (YYYY-MM-DD or relative like 1d)"},
			&cli.StringFlag{Name: "title-contains", Usage: "Filter by title substring"},
			&cli.StringFlag{Name: "participant", Usage: "Filter by participant substring"},
			&cli.StringFlag{Name: "folder", Usage: "Filter by folder name substring"},
			&cli.IntFlag{Name: "limit", Usage: "Maximum number of meetings to show"},
			&cli.BoolFlag{Name: "asc", Usage: "Oldest first (default newest first)"},
			&cli.StringFlag{Name: "format", Value: "table", Usage: "Output format: table, simple, or ids"},
		},
		Action: runList,
	}
}

// buildFilter translates the shared date/participant/title flags into a
// service filter. --last is shorthand for --from with an empty --to.
func buildFilter(cmd *cli.Command, loc *time.Location) (meetingsvc.Filter, error) {
	var f meetingsvc.Filter
	now := time.Now().In(loc)

	from := cmd.String("from")
	if last := cmd.String("last"); last != "" {
		from = last
	}
	if from != "" {
		start, end, err := timeutil.DateRange(from, cmd.String("to"), now, loc)
		if err != nil {
			return f, err
		}
		f.From, f.To = start, end
	}

	f.Title = cmd.String("title-contains")
	f.Participant = cmd.String("participant")
	f.Folder = cmd.String("folder")
	f.Limit = int(cmd.Int("limit"))
	return f, nil
}

func runList(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}

	filter, err := buildFilter(cmd, a.loc)
	if err != nil {
		return err
	}

	views, err := a.svc.Meetings(false)
	if err != nil {
		return err
	}
	views = filter.Apply(meetingsvc.SortByStartTime(views, cmd.Bool("asc")))

	switch cmd.String("format") {
	case "ids":
		for _, v := range views {
			if id, ok := v.ID(); ok {
				fmt.Println(id)
			}
		}
	case "simple":
		for _, v := range views {
			fmt.Println(simpleLine(v))
		}
	default:
		printTable(views)
	}
	return nil
}

func simpleLine(v *meeting.View) string {
	title, ok := v.Title()
	if !ok || title == "" {
		title = "Untitled Meeting"
	}
	when := "unknown time"
	if start, ok := v.StartTime(); ok {
		when = start.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%s  %s", when, title)
}

func printTable(views []*meeting.View) {
	fmt.Printf("%-38s %-17s %-9s %-5s %s\n", "ID", "START", "DURATION", "TRANS", "TITLE")
	for _, v := range views {
		id, _ := v.ID()
		title, ok := v.Title()
		if !ok || title == "" {
			title = "Untitled Meeting"
		}
		start := "-"
		if t, ok := v.StartTime(); ok {
			start = t.Format("2006-01-02 15:04")
		}
		dur := "-"
		if d, ok := v.Duration(); ok {
			dur = export.FormatDuration(d)
		}
		trans := "no"
		if v.HasTranscript() {
			trans = "yes"
		}
		fmt.Printf("%-38s %-17s %-9s %-5s %s\n", id, start, dur, trans, title)
	}
	fmt.Printf("\n%d meeting(s)\n", len(views))
}
