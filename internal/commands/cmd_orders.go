package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/rollbook/internal/core/order"
	"github.com/colonyops/rollbook/internal/core/styles"
	"github.com/colonyops/rollbook/internal/export"
	"github.com/colonyops/rollbook/internal/printer"
	"github.com/colonyops/rollbook/internal/rollbook"
	"github.com/colonyops/rollbook/pkg/iojson"
)

type OrdersCmd struct {
	flags *Flags
	app   *rollbook.App

	// flags
	jsonOutput bool
	status     string
	raw        bool
	output     string
	yes        bool
}

// NewOrdersCmd creates a new orders command
func NewOrdersCmd(flags *Flags, app *rollbook.App) *OrdersCmd {
	return &OrdersCmd{flags: flags, app: app}
}

// Register adds the orders command to the application
func (cmd *OrdersCmd) Register(app *cli.Command) *cli.Command {
	complete := OrderRefCompleter(cmd.app)

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "orders",
		Usage: "Manage saved sales orders",
		Description: `Orders are referenced by id, unique id prefix or order number.

Use 'rollbook edit <order>' to open an order in the editor.`,
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List saved orders",
				UsageText: "rollbook orders ls [--json] [--status STATUS]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
					&cli.StringFlag{
						Name:        "status",
						Usage:       "only list orders with this status (active, hold, closed, cancelled)",
						Destination: &cmd.status,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:      "show",
				Usage:     "Print an order summary",
				UsageText: "rollbook orders show [--raw] <order>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "raw",
						Usage:       "print markdown without terminal styling",
						Destination: &cmd.raw,
					},
				},
				ShellComplete: complete,
				Action:        cmd.runShow,
			},
			{
				Name:      "export",
				Usage:     "Export an order to an Excel workbook",
				UsageText: "rollbook orders export [-o FILE] <order>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "output",
						Aliases:     []string{"o"},
						Usage:       "workbook path (defaults to <data-dir>/exports/<order-no>.xlsx)",
						Destination: &cmd.output,
					},
				},
				ShellComplete: complete,
				Action:        cmd.runExport,
			},
			{
				Name:          "status",
				Usage:         "Change the status of an order",
				UsageText:     "rollbook orders status <order> <active|hold|closed|cancelled>",
				ShellComplete: complete,
				Action:        cmd.runStatus,
			},
			{
				Name:      "rm",
				Usage:     "Delete an order",
				UsageText: "rollbook orders rm [--yes] <order>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "yes",
						Aliases:     []string{"y"},
						Usage:       "do not ask for confirmation",
						Destination: &cmd.yes,
					},
				},
				ShellComplete: complete,
				Action:        cmd.runRemove,
			},
		},
	})

	return app
}

// orderInfo is the JSON output format for orders ls --json.
type orderInfo struct {
	ID        string `json:"id"`
	OrderNo   string `json:"order_no"`
	Party     string `json:"party"`
	Status    string `json:"status"`
	Lines     int    `json:"lines"`
	Amount    string `json:"amount"`
	UpdatedAt string `json:"updated_at"`
}

func (cmd *OrdersCmd) runList(ctx context.Context, c *cli.Command) error {
	orders, err := cmd.app.Orders.List(ctx)
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}

	if cmd.status != "" {
		want, err := order.ParseStatus(cmd.status)
		if err != nil {
			return err
		}
		filtered := orders[:0]
		for _, o := range orders {
			if o.Status == want {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	if len(orders) == 0 {
		if !cmd.jsonOutput {
			printer.Ctx(ctx).Infof("No orders found")
		}
		return nil
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, o := range orders {
			info := orderInfo{
				ID:        o.ID,
				OrderNo:   o.Header.OrderNo,
				Party:     o.Header.Party,
				Status:    string(o.Status),
				Lines:     len(o.Lines),
				Amount:    o.Gross().StringFixed(2),
				UpdatedAt: o.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
			}
			if err := iojson.WriteLine(out, info); err != nil {
				return fmt.Errorf("encode order: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tORDER NO\tPARTY\tSTATUS\tLINES\tAMOUNT\tUPDATED")
	for _, o := range orders {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			shortID(o.ID), dash(o.Header.OrderNo), dash(o.Header.Party), o.Status,
			len(o.Lines), o.Gross().StringFixed(2), o.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func (cmd *OrdersCmd) runShow(ctx context.Context, c *cli.Command) error {
	o, err := cmd.app.Orders.Resolve(ctx, c.Args().First())
	if err != nil {
		return err
	}

	md, err := export.Markdown(o, cmd.app.LoadLookups(ctx))
	if err != nil {
		return fmt.Errorf("render order: %w", err)
	}

	out := c.Root().Writer
	fd := int(os.Stdout.Fd())
	if cmd.raw || !term.IsTerminal(fd) {
		_, err = fmt.Fprint(out, md)
		return err
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		width = 100
	}
	_, err = fmt.Fprint(out, renderMarkdown(md, width))
	return err
}

// renderMarkdown styles md for the terminal, falling back to the raw text.
func renderMarkdown(md string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw content")
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown, showing raw content")
		return md
	}
	return rendered
}

func (cmd *OrdersCmd) runExport(ctx context.Context, c *cli.Command) error {
	o, err := cmd.app.Orders.Resolve(ctx, c.Args().First())
	if err != nil {
		return err
	}

	path := cmd.output
	if path == "" {
		path = filepath.Join(cmd.app.Config.ExportsDir(), exportName(o)+".xlsx")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	if err := export.SaveXLSX(path, o, cmd.app.LoadLookups(ctx)); err != nil {
		return fmt.Errorf("export order: %w", err)
	}

	printer.Ctx(ctx).Success("Exported order", path)
	return nil
}

func (cmd *OrdersCmd) runStatus(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expected <order> <status>")
	}

	status, err := order.ParseStatus(c.Args().Get(1))
	if err != nil {
		return err
	}

	o, err := cmd.app.Orders.SetStatus(ctx, c.Args().First(), status)
	if err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("Order %s is now %s", orderLabel(o), o.Status)
	return nil
}

func (cmd *OrdersCmd) runRemove(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	o, err := cmd.app.Orders.Resolve(ctx, c.Args().First())
	if err != nil {
		return err
	}

	if !cmd.yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("refusing to delete without confirmation; pass --yes")
		}

		var confirmed bool
		err := huh.NewConfirm().
			Title("Delete order " + orderLabel(o) + "?").
			Description(fmt.Sprintf("%d line items, amount %s. This cannot be undone.", len(o.Lines), o.Gross().StringFixed(2))).
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			p.Infof("Delete cancelled")
			return nil
		}
	}

	if _, err := cmd.app.Orders.Delete(ctx, o.ID); err != nil {
		return err
	}

	p.Successf("Deleted order %s", orderLabel(o))
	return nil
}

func orderLabel(o order.Order) string {
	if o.Header.OrderNo != "" {
		return o.Header.OrderNo
	}
	return shortID(o.ID)
}

// exportName is a file-system safe base name for an order's workbook.
func exportName(o order.Order) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '-'
		}
		return r
	}, strings.TrimSpace(o.Header.OrderNo))
	if name == "" {
		return "order-" + shortID(o.ID)
	}
	return name
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
