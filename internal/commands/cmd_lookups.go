package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/colonyops/rollbook/internal/printer"
	"github.com/colonyops/rollbook/internal/rollbook"
	"github.com/colonyops/rollbook/pkg/iojson"
)

const (
	formatAuto   = "auto"
	formatTable  = "table"
	formatJSON   = "json"
	formatPretty = "pretty"
)

type LookupsCmd struct {
	flags *Flags
	app   *rollbook.App

	format  string
	refresh bool
	input   iojson.FileReader[json.RawMessage]
}

// NewLookupsCmd creates a new lookups command
func NewLookupsCmd(flags *Flags, app *rollbook.App) *LookupsCmd {
	return &LookupsCmd{flags: flags, app: app}
}

// Register adds the lookups command to the application
func (cmd *LookupsCmd) Register(app *cli.Command) *cli.Command {
	formatFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:        "format",
			Usage:       "output format (auto, table, json, pretty)",
			Value:       formatAuto,
			Destination: &cmd.format,
		}
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "lookups",
		Usage: "Inspect lookup reference data",
		Commands: []*cli.Command{
			{
				Name:   "categories",
				Usage:  "List lookup categories and their cache state",
				Action: cmd.runCategories,
			},
			{
				Name:      "fetch",
				Usage:     "Fetch and print the normalized records of a category",
				UsageText: "rollbook lookups fetch [options] <category>",
				Description: `Fetches one lookup category through the configured source and prints the
normalized records. A category is named by its service code or its plural
noun, e.g. SORD_CUSTOMER or customers.

The output is a table on a terminal and JSON lines otherwise.`,
				Flags: []cli.Flag{
					formatFlag(),
					&cli.BoolFlag{
						Name:        "refresh",
						Usage:       "bypass the lookup cache and store the fresh result",
						Destination: &cmd.refresh,
					},
				},
				ShellComplete: categoryCompleter,
				Action:        cmd.runFetch,
			},
			{
				Name:      "normalize",
				Usage:     "Normalize raw lookup JSON from a file or stdin",
				UsageText: "rollbook lookups normalize [options] [file]",
				Flags:     []cli.Flag{formatFlag(), cmd.input.Flag()},
				Action:    cmd.runNormalize,
			},
			{
				Name:      "clear",
				Usage:     "Drop cached records",
				UsageText: "rollbook lookups clear [category...]",
				Action:    cmd.runClear,
			},
		},
	})

	return app
}

func (cmd *LookupsCmd) runCategories(ctx context.Context, c *cli.Command) error {
	cached := map[lookup.Category]bool{}
	if cache := cmd.app.Lookups.Cache; cache != nil {
		cats, err := cache.Cached(ctx)
		if err != nil {
			return fmt.Errorf("list cache: %w", err)
		}
		for _, cat := range cats {
			cached[cat] = true
		}
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CATEGORY\tNAME\tCACHED")
	for _, cat := range lookup.SaleOrderCategories() {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", cat, cat.Noun(), yesNo(cached[cat]))
	}
	return w.Flush()
}

func (cmd *LookupsCmd) runFetch(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one category, got %d", c.Args().Len())
	}

	cat, ok := lookup.ParseCategory(c.Args().First())
	if !ok {
		return fmt.Errorf("unknown category %q (see 'rollbook lookups categories')", c.Args().First())
	}

	ctx, cancel := context.WithTimeout(ctx, cmd.app.Config.Lookups.Timeout)
	defer cancel()

	var (
		records []lookup.Record
		err     error
	)
	if cache := cmd.app.Lookups.Cache; cmd.refresh && cache != nil {
		records, err = cache.Refresh(ctx, cat)
	} else {
		records, err = cmd.app.Lookups.Fetch(ctx, cat)
	}
	if err != nil {
		return fmt.Errorf("fetch %s: %w", cat.Noun(), err)
	}

	return writeRecords(c.Root().Writer, resolveFormat(cmd.format), records)
}

func (cmd *LookupsCmd) runNormalize(ctx context.Context, c *cli.Command) error {
	var (
		raw json.RawMessage
		err error
	)
	if path := c.Args().First(); path != "" {
		raw, err = cmd.input.ReadPath(path)
	} else {
		raw, err = cmd.input.Read()
	}
	if err != nil {
		return err
	}

	records := lookup.NormalizeJSON(raw)
	if len(records) == 0 {
		printer.Ctx(ctx).Warnf("input produced no records")
		return nil
	}

	return writeRecords(c.Root().Writer, resolveFormat(cmd.format), records)
}

func (cmd *LookupsCmd) runClear(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	cache := cmd.app.Lookups.Cache
	if cache == nil {
		p.Infof("Lookup cache is not in use")
		return nil
	}

	cats := lookup.SaleOrderCategories()
	if c.Args().Present() {
		cats = cats[:0:0]
		for _, arg := range c.Args().Slice() {
			cat, ok := lookup.ParseCategory(arg)
			if !ok {
				return fmt.Errorf("unknown category %q", arg)
			}
			cats = append(cats, cat)
		}
	}

	for _, cat := range cats {
		if err := cache.Invalidate(ctx, cat); err != nil {
			return err
		}
	}
	p.Successf("Cleared %d cached categories", len(cats))
	return nil
}

// resolveFormat maps "auto" onto table for terminals and JSON lines for pipes.
func resolveFormat(format string) string {
	if format != formatAuto && format != "" {
		return format
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return formatTable
	}
	return formatJSON
}

// recordJSON is the output form of a record: extra columns keyed by header.
type recordJSON struct {
	Code        string            `json:"code"`
	Description string            `json:"description"`
	Columns     map[string]string `json:"columns,omitempty"`
}

func toRecordJSON(r lookup.Record) recordJSON {
	out := recordJSON{Code: r.Code, Description: r.Description}
	if len(r.ColumnHeaders) > 0 {
		out.Columns = make(map[string]string, len(r.ColumnHeaders))
		for _, h := range r.ColumnHeaders {
			out.Columns[h] = r.Value(h)
		}
	}
	return out
}

func writeRecords(w io.Writer, format string, records []lookup.Record) error {
	switch format {
	case formatJSON:
		for _, r := range records {
			if err := iojson.WriteLine(w, toRecordJSON(r)); err != nil {
				return fmt.Errorf("encode record: %w", err)
			}
		}
		return nil

	case formatPretty:
		out := make([]recordJSON, 0, len(records))
		for _, r := range records {
			out = append(out, toRecordJSON(r))
		}
		data, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("encode records: %w", err)
		}
		_, err = fmt.Fprintln(w, printer.ColorizeJSON(data))
		return err

	case formatTable:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "CODE\tDESCRIPTION\tCOLUMNS")
		for _, r := range records {
			cols := make([]string, 0, len(r.ColumnHeaders))
			for _, h := range r.ColumnHeaders {
				cols = append(cols, h+"="+r.Value(h))
			}
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Code, r.Description, strings.Join(cols, ", "))
		}
		return tw.Flush()

	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
