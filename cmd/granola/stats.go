package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/granola-tools/granola/internal/export"
	"github.com/granola-tools/granola/internal/stats"
)

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Aggregate statistics over the meeting cache",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "last", Usage: "Restrict to a relative range, e.g. 30d"},
			&cli.StringFlag{Name: "from", Usage: "Range start (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "to", Usage: "Range end (YYYY-MM-DD)"},
			&cli.BoolFlag{Name: "summary", Usage: "Headline totals", Value: true},
			&cli.BoolFlag{Name: "meetings-per-day", Usage: "Meetings bucketed by day"},
			&cli.BoolFlag{Name: "duration-distribution", Usage: "Duration histogram"},
			&cli.BoolFlag{Name: "participant-frequency", Usage: "Meetings per participant"},
		},
		Action: runStats,
	}
}

func runStats(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	views, err := a.svc.Meetings(false)
	if err != nil {
		return err
	}
	f, err := buildFilter(cmd, a.loc)
	if err != nil {
		return err
	}
	views = f.Apply(views)

	wantDetail := cmd.Bool("meetings-per-day") || cmd.Bool("duration-distribution") || cmd.Bool("participant-frequency")

	if cmd.Bool("summary") || !wantDetail {
		s := stats.Summarize(views)
		fmt.Println("Summary")
		fmt.Println("-------")
		fmt.Printf("Meetings:          %d\n", s.TotalMeetings)
		fmt.Printf("With transcript:   %d\n", s.WithTranscript)
		fmt.Printf("With duration:     %d\n", s.WithDuration)
		fmt.Printf("Total duration:    %s\n", export.FormatDuration(s.TotalDuration))
		fmt.Printf("Average duration:  %s\n", export.FormatDuration(s.AverageDuration))
		fmt.Printf("Participants:      %d\n", s.UniqueSpeakers)
	}

	if cmd.Bool("meetings-per-day") {
		fmt.Println("\nMeetings per day")
		fmt.Println("----------------")
		for _, d := range stats.PerDay(views) {
			fmt.Printf("%s  %s %d\n", d.Date, strings.Repeat("#", d.Count), d.Count)
		}
	}

	if cmd.Bool("duration-distribution") {
		fmt.Println("\nDuration distribution")
		fmt.Println("---------------------")
		for _, b := range stats.DurationDistribution(views) {
			fmt.Printf("%-8s %d\n", b.Label, b.Count)
		}
	}

	if cmd.Bool("participant-frequency") {
		fmt.Println("\nParticipant frequency")
		fmt.Println("---------------------")
		for _, p := range stats.ParticipantFrequency(views) {
			fmt.Printf("%-30s %d\n", p.Name, p.Count)
		}
	}

	return nil
}
