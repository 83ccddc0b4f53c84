package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/rollbook/internal/core/picker"
	"github.com/colonyops/rollbook/internal/printer"
	"github.com/colonyops/rollbook/internal/rollbook"
	"github.com/colonyops/rollbook/internal/tui"
	tuinotify "github.com/colonyops/rollbook/internal/tui/notify"
)

type EditCmd struct {
	flags *Flags
	app   *rollbook.App

	readOnly bool
	empty    bool
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags, app *rollbook.App) *EditCmd {
	return &EditCmd{flags: flags, app: app}
}

// Flags returns the editor flags for registration on the root command
func (cmd *EditCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "read-only",
			Aliases:     []string{"r"},
			Usage:       "open the order in view mode",
			Sources:     cli.EnvVars("ROLLBOOK_READ_ONLY"),
			Destination: &cmd.readOnly,
		},
		&cli.BoolFlag{
			Name:        "empty",
			Usage:       "start a new order without sample lines",
			Destination: &cmd.empty,
		},
	}
}

// Register adds the edit command to the application
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Open an order in the editor",
		UsageText: "rollbook edit [options] [order]",
		Description: `Opens the sales order editor.

With no argument a new order is started. An order may be referenced by id,
unique id prefix or order number. Closed and cancelled orders always open in
view mode.`,
		Flags:         cmd.Flags(),
		ShellComplete: OrderRefCompleter(cmd.app),
		Action:        cmd.Run,
	})
	return app
}

// Run opens the editor. Exported for use as the default command.
func (cmd *EditCmd) Run(ctx context.Context, c *cli.Command) error {
	opts := cmd.app.Orders.Defaults()
	if c.IsSet("read-only") {
		opts.ReadOnly = cmd.readOnly
	}
	if c.IsSet("empty") {
		opts.StartEmpty = cmd.empty
	}

	draft, err := cmd.app.Orders.Open(ctx, c.Args().First(), opts)
	if err != nil {
		return fmt.Errorf("open order: %w", err)
	}

	cfg := cmd.app.Config
	m := tui.New(tui.Options{
		Draft:     draft,
		Provider:  cmd.app.Lookups,
		Refreshes: cmd.app.Refreshes(),
		Bus:       tuinotify.NewBus(cmd.app.Notices),
		PickerOptions: picker.Options{
			RowHeight:   1,
			VisibleRows: cfg.Picker.VisibleRows,
			Overscan:    cfg.Picker.Overscan,
		},
		Warnings: cmd.startupWarnings(ctx),
	})

	log.Debug().Str("order", draft.ID()).Bool("read_only", draft.ReadOnly()).Msg("opening editor")

	// Hold CLI output until the editor releases the terminal.
	p, deferred := printer.Deferred()
	defer func() { _ = deferred.Flush(os.Stderr) }()

	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run editor: %w", err)
	}

	if fm, ok := final.(tui.Model); ok {
		coord := fm.Draft().Coordinator
		coord.Sync()
		if coord.HasChanges() {
			log.Info().Str("order", draft.ID()).Msg("editor closed, unsaved changes discarded")
			p.Warnf("Unsaved changes to order %s were discarded", draft.ID())
		}
	}
	return nil
}

func (cmd *EditCmd) startupWarnings(ctx context.Context) []string {
	var warnings []string
	for _, w := range cmd.app.Config.Warnings() {
		warnings = append(warnings, fmt.Sprintf("%s: %s", w.Category, w.Message))
	}

	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if res, _ := cmd.app.Updates.Check(checkCtx, cmd.app.Build.Version); res != nil {
		warnings = append(warnings, fmt.Sprintf("rollbook %s is available (running %s)", res.Latest, res.Current))
	}

	return warnings
}
