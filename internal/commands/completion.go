package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/colonyops/rollbook/internal/rollbook"
)

// OrderRefCompleter returns a ShellCompleteFunc that suggests saved order
// numbers as positional completions. Orders without a number are suggested by
// id.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func OrderRefCompleter(app *rollbook.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if completingFlag(cmd) {
			cli.DefaultCompleteWithFlags(ctx, cmd)
			return
		}

		orders, err := app.Orders.List(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, o := range orders {
			ref := o.Header.OrderNo
			if ref == "" {
				ref = o.ID
			}
			_, _ = fmt.Fprintln(w, ref)
		}
	}
}

// categoryCompleter suggests lookup category codes.
func categoryCompleter(ctx context.Context, cmd *cli.Command) {
	if completingFlag(cmd) {
		cli.DefaultCompleteWithFlags(ctx, cmd)
		return
	}

	w := cmd.Root().Writer
	for _, cat := range lookup.SaleOrderCategories() {
		_, _ = fmt.Fprintln(w, cat)
	}
}

func completingFlag(cmd *cli.Command) bool {
	args := cmd.Args()
	if !args.Present() {
		return false
	}
	last := args.Slice()[args.Len()-1]
	return len(last) > 0 && last[0] == '-'
}
