package tui

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/rollbook/internal/core/lineitem"
	"github.com/colonyops/rollbook/internal/core/order"
	"github.com/colonyops/rollbook/internal/core/styles"
	"github.com/colonyops/rollbook/internal/tui/components"
)

const (
	termLabelWidth = 14
	termValueWidth = 24
	expenseHead    = 14
	expensePer     = 9
	expenseAmount  = 14
)

// termsPanel edits the terms and conditions list.
type termsPanel struct {
	draft  *order.Draft
	cursor int
	input  fieldInput
}

func newTermsPanel(d *order.Draft) *termsPanel {
	return &termsPanel{draft: d, input: newFieldInput()}
}

func (p *termsPanel) Editing() bool { return p.input.Active() }

func (p *termsPanel) Update(msg tea.KeyMsg, keys KeyMap) tea.Cmd {
	terms := p.draft.Terms.Current()

	if p.input.Active() {
		res, cmd := p.input.Update(msg)
		if res == inputCommit {
			p.draft.SetTerm(p.cursor, strings.TrimSpace(p.input.Value()))
		}
		return cmd
	}

	switch {
	case key.Matches(msg, keys.Up):
		p.cursor = clamp(p.cursor-1, 0, len(terms)-1)
	case key.Matches(msg, keys.Down):
		p.cursor = clamp(p.cursor+1, 0, len(terms)-1)
	case key.Matches(msg, keys.Edit):
		if p.draft.ReadOnly() || p.cursor >= len(terms) {
			return nil
		}
		return p.input.Start(terms[p.cursor].Value, termValueWidth)
	}
	return nil
}

func (p *termsPanel) View(focused bool) string {
	terms := p.draft.Terms.Current()
	lines := make([]string, 0, len(terms))
	for i, t := range terms {
		active := focused && i == p.cursor

		value := t.Value
		if value == "" {
			value = lineitem.Placeholder
		}
		cell := components.PadRight(value, termValueWidth)
		switch {
		case active && p.input.Active():
			cell = components.PadRight(p.input.View(), termValueWidth)
		case active:
			cell = styles.GridCursorCellStyle.Render(cell)
		}

		lines = append(lines, styles.FormLabelStyle.Render(components.PadRight(t.Label, termLabelWidth))+" "+cell)
	}
	return strings.Join(lines, "\n")
}

// expensesPanel shows the derived expenses table. Only the bill percentage
// and the round-off switch are editable.
type expensesPanel struct {
	draft  *order.Draft
	cursor int
	input  fieldInput
}

const (
	expenseRowBill = iota
	expenseRowRoundOff
	expenseEditableRows
)

func newExpensesPanel(d *order.Draft) *expensesPanel {
	return &expensesPanel{draft: d, input: newFieldInput()}
}

func (p *expensesPanel) Editing() bool { return p.input.Active() }

func (p *expensesPanel) Update(msg tea.KeyMsg, keys KeyMap) tea.Cmd {
	x := p.draft.Expenses.Current()

	if p.input.Active() {
		res, cmd := p.input.Update(msg)
		if res == inputCommit {
			x.BillPercent = lineitem.ParseNumber(p.input.Value())
			p.draft.SetExpenses(x)
		}
		return cmd
	}

	switch {
	case key.Matches(msg, keys.Up):
		p.cursor = clamp(p.cursor-1, 0, expenseEditableRows-1)
	case key.Matches(msg, keys.Down):
		p.cursor = clamp(p.cursor+1, 0, expenseEditableRows-1)
	case key.Matches(msg, keys.Edit), key.Matches(msg, keys.ToggleRow):
		if p.draft.ReadOnly() {
			return nil
		}
		if p.cursor == expenseRowRoundOff {
			x.RoundOff = !x.RoundOff
			p.draft.SetExpenses(x)
			return nil
		}
		return p.input.Start(strconv.FormatFloat(x.BillPercent, 'f', -1, 64), expensePer)
	}
	return nil
}

func (p *expensesPanel) View(focused bool) string {
	x := p.draft.Expenses.Current()

	lines := []string{styles.GridHeaderStyle.Render(
		components.PadRight("Head", expenseHead) + " " +
			components.PadLeft("Per", expensePer) + " " +
			components.PadLeft("Amount", expenseAmount),
	)}

	for _, e := range p.draft.ExpenseRows() {
		per := components.PadLeft(e.FormatPer(), expensePer)
		head := components.PadRight(e.Head, expenseHead)

		switch e.Head {
		case order.HeadBill:
			switch {
			case focused && p.cursor == expenseRowBill && p.input.Active():
				per = components.PadLeft(p.input.View(), expensePer)
			case focused && p.cursor == expenseRowBill:
				per = styles.GridCursorCellStyle.Render(per)
			}
		case order.HeadRoundOff:
			head = components.PadRight(styles.CheckboxIcon(x.RoundOff, false)+" "+e.Head, expenseHead)
			if focused && p.cursor == expenseRowRoundOff {
				head = styles.GridCursorCellStyle.Render(head)
			}
		}

		row := head + " " + per + " " + components.PadLeft(e.FormatAmount(), expenseAmount)
		if e.Head == order.HeadNet {
			row = styles.GridTotalsStyle.Render(row)
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}
