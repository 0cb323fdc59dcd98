package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/granola-tools/granola/internal/export"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a meeting as Markdown",
		ArgsUsage: "<meeting-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write to a file instead of stdout"},
			&cli.BoolFlag{Name: "no-transcript", Usage: "Omit the transcript section"},
			&cli.BoolFlag{Name: "timestamps", Usage: "Prefix transcript lines with offsets", Value: true},
		},
		Action: runExport,
	}
}

func runExport(ctx context.Context, cmd *cli.Command) error {
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

	md := export.Meeting(v, export.Options{
		IncludeTranscript: !cmd.Bool("no-transcript"),
		IncludeTimestamps: cmd.Bool("timestamps"),
	})

	if out := cmd.String("output"); out != "" {
		if err := os.WriteFile(out, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		a.logger.Info("meeting exported", "id", id, "path", out)
		return nil
	}
	fmt.Print(md)
	return nil
}
