package main

import (
	"context"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/granola-tools/granola/internal/cache"
	"github.com/granola-tools/granola/internal/mcpserver"
)

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve meeting data over the Model Context Protocol on stdio",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "watch", Usage: "Reload when the cache file changes on disk"},
		},
		Action: runMCP,
	}
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}

	// Fail fast on an unreadable cache before the client connects.
	if _, err := a.svc.Meetings(false); err != nil {
		return err
	}

	srv := mcpserver.New(a.svc, a.logger)

	if !cmd.Bool("watch") {
		return srv.ServeStdio()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return srv.ServeStdio()
	})
	g.Go(func() error {
		return cache.Watch(ctx, a.cfg.Cache.Path, a.logger, srv.Invalidate)
	})
	return g.Wait()
}
