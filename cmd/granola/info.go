package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"
)

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Show cache file diagnostics",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Emit diagnostics as JSON"},
		},
		Action: runInfo,
	}
}

func runInfo(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	info := a.svc.Loader().Info()

	if cmd.Bool("json") {
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Cache path:       %s\n", info.Path)
	fmt.Printf("Exists:           %v\n", info.Exists)
	if info.Exists {
		fmt.Printf("Size:             %d bytes\n", info.SizeBytes)
		fmt.Printf("Valid structure:  %v\n", info.ValidStructure)
		fmt.Printf("Meetings:         %d\n", info.MeetingCount)
	}
	fmt.Printf("Timezone:         %s\n", a.loc.String())
	return nil
}
