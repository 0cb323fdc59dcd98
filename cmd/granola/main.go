package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/granola-tools/granola/internal"
	"github.com/granola-tools/granola/internal/cache"
	"github.com/granola-tools/granola/internal/meetingsvc"
	"github.com/granola-tools/granola/internal/timeutil"
	pkgconfig "github.com/granola-tools/granola/pkg/config"
)

// app bundles everything a command needs.
type app struct {
	cfg    *internal.Config
	svc    *meetingsvc.Service
	logger *slog.Logger
	loc    *time.Location
}

// setup resolves configuration (defaults → optional YAML file → GRANOLA_*
// environment → flags) and builds the service. Diagnostics go to stderr so
// stdout stays clean for piped output and the MCP stdio transport.
func setup(cmd *cli.Command) (*app, error) {
	cfg := internal.NewDefaultConfig()

	if configPath := cmd.String("config"); configPath != "" {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if err := pkgconfig.LoadIfExists(internal.DefaultConfigFile(), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ApplyEnv()
	if p := cmd.String("cache"); p != "" {
		cfg.Cache.Path = p
	}
	if tz := cmd.String("timezone"); tz != "" {
		cfg.Cache.Timezone = tz
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	loc, err := timeutil.LoadZone(cfg.Cache.Timezone)
	if err != nil {
		return nil, err
	}

	loader := cache.NewLoader(cfg.Cache.Path)
	return &app{
		cfg:    cfg,
		svc:    meetingsvc.New(loader, loc),
		logger: logger,
		loc:    loc,
	}, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "granola",
		Usage: "Explore Granola meeting data from the command line and over MCP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				Sources: cli.EnvVars("GRANOLA_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:  "cache",
				Usage: "Path to the Granola cache file",
			},
			&cli.StringFlag{
				Name:  "timezone",
				Usage: "Reference timezone for all displayed times",
			},
		},
		Commands: []*cli.Command{
			listCommand(),
			showCommand(),
			exportCommand(),
			collectCommand(),
			statsCommand(),
			infoCommand(),
			indexCommand(),
			mcpCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "granola: %v\n", err)
		os.Exit(1)
	}
}
