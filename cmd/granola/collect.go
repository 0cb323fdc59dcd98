package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/granola-tools/granola/internal/meeting"
	"github.com/granola-tools/granola/internal/timeutil"
)

func collectCommand() *cli.Command {
	return &cli.Command{
		Name:  "collect",
		Usage: "Collect your own spoken words over a date range into daily files",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "last", Usage: "Relative range, e.g. 7d, 2w"},
			&cli.StringFlag{Name: "from", Usage: "Range start (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "to", Usage: "Range end (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "output-dir", Value: "collected", Usage: "Directory for daily files"},
			&cli.IntFlag{Name: "min-words", Value: 1, Usage: "Skip segments shorter than this"},
			&cli.BoolFlag{Name: "timestamps", Usage: "Prefix lines with clock times"},
			&cli.BoolFlag{Name: "meeting-info", Value: true, Usage: "Include meeting title and date headers"},
		},
		Action: runCollect,
	}
}

func runCollect(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}

	from, to, err := collectRange(cmd, a.loc)
	if err != nil {
		return err
	}

	views, err := a.svc.Meetings(false)
	if err != nil {
		return err
	}

	// date (YYYY-MM-DD) -> ordered file sections
	days := map[string][]string{}
	for _, v := range views {
		start, ok := v.StartTime()
		if !ok || start.Before(from) || start.After(to) {
			continue
		}
		t := v.Transcript()
		if t == nil {
			continue
		}
		segs := ownSegments(t, int(cmd.Int("min-words")))
		if len(segs) == 0 {
			continue
		}
		day := start.Format("2006-01-02")
		days[day] = append(days[day], formatOwnWords(v, segs, cmd.Bool("meeting-info"), cmd.Bool("timestamps")))
	}

	if len(days) == 0 {
		fmt.Println("No microphone words found in the date range")
		return nil
	}

	outDir := cmd.String("output-dir")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	total := 0
	for day, sections := range days {
		content := strings.Join(sections, "\n\n")
		path := filepath.Join(outDir, day+".txt")
		if err := writeAtomic(path, []byte(content)); err != nil {
			return err
		}
		words := len(strings.Fields(content))
		total += words
		a.logger.Info("daily file written", "path", path, "words", words)
	}
	fmt.Printf("Collected %d words across %d days into %s\n", total, len(days), outDir)
	return nil
}

func collectRange(cmd *cli.Command, loc *time.Location) (time.Time, time.Time, error) {
	now := time.Now().In(loc)
	if last := cmd.String("last"); last != "" {
		from, err := timeutil.ParseRelative(last, now)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return from, now, nil
	}
	from := cmd.String("from")
	if from == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("either --last or --from is required")
	}
	return timeutil.DateRange(from, cmd.String("to"), now, loc)
}

// ownSegments keeps segments captured from the local microphone, skipping
// anything under minWords.
func ownSegments(t *meeting.Transcript, minWords int) []*meeting.Segment {
	var out []*meeting.Segment
	for _, seg := range t.Segments() {
		src, ok := seg.Source()
		if !ok || src != "microphone" {
			continue
		}
		if len(strings.Fields(seg.Text())) < minWords {
			continue
		}
		out = append(out, seg)
	}
	return out
}

func formatOwnWords(v *meeting.View, segs []*meeting.Segment, info, timestamps bool) string {
	var b strings.Builder
	if info {
		title, ok := v.Title()
		if !ok || title == "" {
			title = "Untitled Meeting"
		}
		fmt.Fprintf(&b, "# Meeting: %s\n", title)
		if start, ok := v.StartTime(); ok {
			fmt.Fprintf(&b, "# Date: %s\n", start.Format("2006-01-02 15:04:05"))
		}
		b.WriteString("\n")
	}
	for _, seg := range segs {
		if timestamps {
			if ts, ok := seg.Timestamp(); ok {
				fmt.Fprintf(&b, "[%s] ", ts.Format("15:04:05"))
			}
		}
		b.WriteString(seg.Text())
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// writeAtomic writes content via tmp file, fsync and rename so readers never
// observe a partial file.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".granola-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	success = true
	return nil
}
