package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/rollbook/internal/core/config"
	"github.com/colonyops/rollbook/internal/printer"
	"github.com/colonyops/rollbook/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "rollbook config validate [options]",
				Description: "Validates the configuration file, checking the lookup endpoint, fixture patterns, the refresh schedule and file paths.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

type validationOutput struct {
	Valid    bool                       `json:"valid"`
	Errors   []string                   `json:"errors,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath)

	out := validationOutput{
		Valid:    err == nil,
		Errors:   configErrorMessages(err),
		Warnings: cmd.flags.Config.Warnings(),
	}

	if cmd.format == "json" {
		if err := iojson.WriteLine(c.Root().Writer, out); err != nil {
			return err
		}
	} else {
		cmd.outputText(printer.Ctx(ctx), out)
	}

	if !out.Valid {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *ConfigValidateCmd) outputText(p *printer.Printer, out validationOutput) {
	if cmd.flags.ConfigPath != "" {
		p.Infof("Config: %s", cmd.flags.ConfigPath)
	}

	for _, warn := range out.Warnings {
		p.Warnf("%s: %s", warn.Category, warn.Message)
		if warn.Item != "" {
			p.Printf("  Item: %s", warn.Item)
		}
	}

	for _, msg := range out.Errors {
		p.Errorf("%s", msg)
	}

	p.Printf("")
	if out.Valid {
		p.Successf("Configuration is valid")
		return
	}
	p.Errorf("%d error(s) found", len(out.Errors))
}

// configErrorMessages flattens nested field errors into "path: message" lines.
func configErrorMessages(err error) []string {
	if err == nil {
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Err))
	}
	return msgs
}
