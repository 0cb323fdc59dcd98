package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/granola-tools/granola/internal/index"
)

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Maintain and query the local meeting search index",
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "Rebuild the index from the cache",
				Action: runIndexSync,
			},
			{
				Name:      "search",
				Usage:     "Search indexed meetings",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum results"},
				},
				Action: runIndexSearch,
			},
		},
	}
}

func runIndexSync(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	if !a.cfg.Index.Enabled() {
		return fmt.Errorf("no index path configured (set GRANOLA_INDEX_PATH or index.path)")
	}
	db, err := index.Open(a.cfg.Index.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	views, err := a.svc.Meetings(false)
	if err != nil {
		return err
	}
	if err := index.Sync(db, views, a.logger); err != nil {
		return err
	}
	n, err := db.Count()
	if err != nil {
		return err
	}
	fmt.Printf("Index synced: %d meetings\n", n)
	return nil
}

func runIndexSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.Args().First()
	if query == "" {
		return fmt.Errorf("search query required")
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	if !a.cfg.Index.Enabled() {
		return fmt.Errorf("no index path configured (set GRANOLA_INDEX_PATH or index.path)")
	}
	db, err := index.Open(a.cfg.Index.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.Search(query, int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No matches")
		return nil
	}
	for _, r := range results {
		title := r.Title
		if title == "" {
			title = "Untitled Meeting"
		}
		fmt.Printf("%s  %s\n", r.ID, title)
		if r.Snippet != "" {
			fmt.Printf("    %s\n", r.Snippet)
		}
	}
	return nil
}
