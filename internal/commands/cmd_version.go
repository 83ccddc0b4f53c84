package commands

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/rollbook/internal/printer"
	"github.com/colonyops/rollbook/internal/rollbook"
	"github.com/colonyops/rollbook/pkg/iojson"
)

type VersionCmd struct {
	app *rollbook.App

	check      bool
	jsonOutput bool
}

// NewVersionCmd creates a new version command
func NewVersionCmd(app *rollbook.App) *VersionCmd {
	return &VersionCmd{app: app}
}

// Register adds the version command to the application
func (cmd *VersionCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "version",
		Usage:     "Print build information",
		UsageText: "rollbook version [--check] [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "check",
				Usage:       "check whether a newer release is available",
				Destination: &cmd.check,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})
	return app
}

type versionJSON struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
	Latest  string `json:"latest,omitempty"`
}

func (cmd *VersionCmd) run(ctx context.Context, c *cli.Command) error {
	build := cmd.app.Build
	out := versionJSON{
		Version: build.Version,
		Commit:  build.Commit,
		Date:    build.Date,
		Go:      runtime.Version(),
	}

	if cmd.check {
		checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		res, err := cmd.app.Updates.Check(checkCtx, build.Version)
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if res != nil {
			out.Latest = res.Latest
		}
	}

	if cmd.jsonOutput {
		return iojson.WriteLine(c.Root().Writer, out)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "rollbook %s (%s) %s %s\n", out.Version, out.Commit, out.Date, out.Go)

	if cmd.check {
		p := printer.Ctx(ctx)
		if out.Latest != "" {
			p.Warnf("rollbook %s is available", out.Latest)
		} else {
			p.Successf("rollbook is up to date")
		}
	}
	return nil
}
