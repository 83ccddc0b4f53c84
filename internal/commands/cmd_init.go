package commands

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"

	initcmd "github.com/colonyops/rollbook/internal/commands/init"
)

type InitCmd struct {
	flags *Flags
	yes   bool
	force bool

	lookupURL string
	fixtures  string
	theme     string
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize rollbook configuration with an interactive wizard",
		UsageText: "rollbook init [options]",
		Description: `Sets up rollbook for first-time use with an interactive wizard.

The wizard asks where lookup data comes from (a lookup service or local
fixture files), how long lookups are cached and which theme to use, then
writes ~/.config/rollbook/config.yaml.

Use --yes to accept defaults and preset flags without prompts.
Use --force to overwrite existing configuration.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
			&cli.StringFlag{
				Name:        "lookup-url",
				Usage:       "lookup service endpoint",
				Destination: &cmd.lookupURL,
			},
			&cli.StringFlag{
				Name:        "fixtures",
				Usage:       "comma-separated list of lookup fixture globs",
				Destination: &cmd.fixtures,
			},
			&cli.StringFlag{
				Name:        "theme",
				Usage:       "color theme",
				Destination: &cmd.theme,
			},
		},
		Action: cmd.run,
	})
	return app
}

// FixturesList returns the parsed list of fixture patterns, or nil if not set.
func (cmd *InitCmd) FixturesList() []string {
	if cmd.fixtures == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(cmd.fixtures, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	preset := initcmd.DefaultConfigOptions()
	preset.LookupURL = cmd.lookupURL
	preset.Fixtures = cmd.FixturesList()
	if cmd.theme != "" {
		preset.Theme = cmd.theme
	}

	wizard := initcmd.NewWizard(initcmd.WizardOptions{
		ConfigPath: cmd.flags.ConfigPath,
		DataDir:    cmd.flags.DataDir,
		Yes:        cmd.yes,
		Force:      cmd.force,
		Config:     preset,
	})
	return wizard.Run(ctx)
}
