// Package printer writes human-facing CLI output. Commands fetch the printer
// from the context so tests can capture it.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/colonyops/rollbook/internal/core/styles"
)

type ctxKey struct{}

// Printer renders styled status lines to a writer.
type Printer struct {
	w io.Writer
}

// New returns a printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored in ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok && p != nil {
		return p
	}
	return New(os.Stderr)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer { return p.w }

func (p *Printer) line(s string) {
	_, _ = fmt.Fprintln(p.w, s)
}

// Printf prints an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	p.line(fmt.Sprintf(format, args...))
}

// Infof prints an informational line.
func (p *Printer) Infof(format string, args ...any) {
	p.line(styles.TextPrimaryBoldStyle.Render("•") + " " + fmt.Sprintf(format, args...))
}

// Warnf prints a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(styles.TextWarningStyle.Render("●") + " " + fmt.Sprintf(format, args...))
}

// Errorf prints an error line.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.TextErrorStyle.Render("✘") + " " + fmt.Sprintf(format, args...))
}

// Successf prints a success line.
func (p *Printer) Successf(format string, args ...any) {
	p.line(styles.TextSuccessStyle.Render("✔") + " " + fmt.Sprintf(format, args...))
}

// Success prints a success title followed by a muted detail.
func (p *Printer) Success(title, detail string) {
	s := styles.TextSuccessStyle.Render("✔") + " " + title
	if detail != "" {
		s += " " + styles.TextMutedStyle.Render(detail)
	}
	p.line(s)
}

// Section prints a bold heading with a divider.
func (p *Printer) Section(title string) {
	p.line(styles.TextForegroundBoldStyle.Render(title))
	p.line(styles.TextMutedStyle.Render(strings.Repeat("─", 40)))
}

// CheckItem prints a passing check.
func (p *Printer) CheckItem(label, detail string) {
	p.item(styles.TextSuccessStyle.Render("✔"), label, detail)
}

// WarnItem prints a check that passed with a warning.
func (p *Printer) WarnItem(label, detail string) {
	p.item(styles.TextWarningStyle.Render("●"), label, detail)
}

// FailItem prints a failing check.
func (p *Printer) FailItem(label, detail string) {
	p.item(styles.TextErrorStyle.Render("✘"), label, detail)
}

func (p *Printer) item(icon, label, detail string) {
	if detail != "" {
		detail = " " + styles.TextMutedStyle.Render(detail)
	}
	p.line("  " + icon + " " + label + detail)
}
