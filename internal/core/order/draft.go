package order

import (
	"context"
	"time"

	"github.com/colonyops/rollbook/internal/core/editor"
	"github.com/colonyops/rollbook/internal/core/lineitem"
)

// LinesSection adapts a line-item engine to an editor section.
type LinesSection struct {
	Engine  *lineitem.Engine
	tracked *editor.Tracked[[]lineitem.LineItem]
	token   uint64
}

// NewLinesSection wraps lines in an engine and tracks them.
func NewLinesSection(lines []lineitem.LineItem, readOnly bool) *LinesSection {
	eng := lineitem.NewEngine(lines, readOnly)
	return &LinesSection{
		Engine:  eng,
		tracked: editor.NewTracked(eng.Items()),
	}
}

func (s *LinesSection) Key() editor.SectionKey { return editor.SectionDetails }

func (s *LinesSection) Dirty() bool {
	s.tracked.Set(s.Engine.Items())
	return s.tracked.Dirty()
}

// Reset adopts the current rows as the baseline and clears the selection.
func (s *LinesSection) Reset(token uint64) {
	if token == s.token {
		return
	}
	s.token = token
	s.tracked.Set(s.Engine.Items())
	s.tracked.Rebaseline()
	s.Engine.ClearSelection()
}

// Baseline returns the rows as of the last save.
func (s *LinesSection) Baseline() []lineitem.LineItem {
	return s.tracked.Baseline()
}

// Draft is an order being edited. Each part of the order is a separate
// section so the coordinator can tell which parts changed.
type Draft struct {
	meta Order

	Header      *editor.ValueSection[Header]
	Lines       *LinesSection
	Terms       *editor.ValueSection[Terms]
	Expenses    *editor.ValueSection[Expenses]
	Coordinator *editor.Coordinator

	now func() time.Time
}

// NewDraft opens o for editing. Orders whose status is not editable open
// read-only regardless of readOnly. When store is non-nil a successful save
// persists the order through it.
func NewDraft(o Order, readOnly bool, store Store) *Draft {
	readOnly = readOnly || !o.Status.Editable()

	d := &Draft{
		meta:        o,
		Header:      editor.NewValueSection(editor.SectionHeader, o.Header),
		Lines:       NewLinesSection(o.Lines, readOnly),
		Terms:       editor.NewValueSection(editor.SectionTerms, o.Terms),
		Expenses:    editor.NewValueSection(editor.SectionExpenses, o.Expenses),
		Coordinator: editor.NewCoordinator(readOnly),
		now:         time.Now,
	}

	d.Coordinator.Register(d.Header)
	d.Coordinator.Register(d.Lines)
	d.Coordinator.Register(d.Terms)
	d.Coordinator.Register(d.Expenses)

	d.Coordinator.OnPreSave(func() error {
		return d.Header.Current().Validate()
	})

	if store != nil {
		d.Coordinator.SetCommit(func(ctx context.Context) error {
			o := d.Snapshot()
			o.UpdatedAt = d.now()
			if err := store.Save(ctx, o); err != nil {
				return err
			}
			d.meta.UpdatedAt = o.UpdatedAt
			return nil
		})
	}

	return d
}

// ID returns the order id.
func (d *Draft) ID() string { return d.meta.ID }

// Status returns the order status.
func (d *Draft) Status() Status { return d.meta.Status }

// ReadOnly reports whether the draft is in view mode.
func (d *Draft) ReadOnly() bool { return d.Coordinator.ReadOnly() }

// SetHeader changes one header field and reports the section's dirtiness.
func (d *Draft) SetHeader(field HeaderField, value string) {
	if d.ReadOnly() {
		return
	}
	d.Header.Set(d.Header.Current().With(field, value))
	d.Coordinator.ReportDirty(d.Header.Key(), d.Header.Dirty())
}

// SetTerm changes the term at index i.
func (d *Draft) SetTerm(i int, value string) {
	if d.ReadOnly() {
		return
	}
	d.Terms.Set(d.Terms.Current().With(i, value))
	d.Coordinator.ReportDirty(d.Terms.Key(), d.Terms.Dirty())
}

// SetExpenses replaces the expense inputs.
func (d *Draft) SetExpenses(x Expenses) {
	if d.ReadOnly() {
		return
	}
	d.Expenses.Set(x)
	d.Coordinator.ReportDirty(d.Expenses.Key(), d.Expenses.Dirty())
}

// LinesChanged reports the line section's dirtiness after an engine
// mutation.
func (d *Draft) LinesChanged() {
	d.Coordinator.ReportDirty(d.Lines.Key(), d.Lines.Dirty())
}

// ExpenseRows computes the expenses table from the current lines.
func (d *Draft) ExpenseRows() []Expense {
	return d.Expenses.Current().Compute(lineitemGross(d.Lines.Engine.Items()))
}

// Save validates and persists the draft.
func (d *Draft) Save(ctx context.Context) (editor.SaveResult, error) {
	return d.Coordinator.Save(ctx)
}

// Snapshot assembles the current state into an Order.
func (d *Draft) Snapshot() Order {
	o := d.meta
	o.Header = d.Header.Current()
	o.Lines = d.Lines.Engine.Items()
	o.Terms = d.Terms.Current()
	o.Expenses = d.Expenses.Current()
	return o
}
