package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/rollbook/internal/core/lineitem"
	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/colonyops/rollbook/internal/core/order"
	"github.com/colonyops/rollbook/internal/core/picker"
	"github.com/colonyops/rollbook/internal/core/styles"
	"github.com/colonyops/rollbook/internal/tui/components"
)

const (
	gridCheckWidth = 2
	gridMinRows    = 3
	// gridPinned is the number of leading columns that never scroll away.
	gridPinned = 1
)

// grid renders and drives the line-item engine of a draft. The engine owns
// the rows, edit mode, selection and pending deletes; the grid only adds a
// cursor, scrolling and inline editing of one cell.
type grid struct {
	draft   *order.Draft
	columns []lineitem.Column
	set     lookup.Set

	row, col int
	top      int
	offset   int
	rows     int
	width    int

	input   fieldInput
	pickers map[lineitem.Field]*components.PickerView
}

func newGrid(d *order.Draft) *grid {
	return &grid{
		draft:   d,
		columns: lineitem.Columns(),
		rows:    10,
		width:   120,
		input:   newFieldInput(),
		pickers: make(map[lineitem.Field]*components.PickerView),
	}
}

func (g *grid) engine() *lineitem.Engine { return g.draft.Lines.Engine }

// bindPickers rebuilds one picker per lookup column. Selecting a record
// writes it into whichever row is being edited.
func (g *grid) bindPickers(set lookup.Set, loaded bool, opts picker.Options) {
	g.set = set
	for _, c := range g.columns {
		cat, ok := c.Field.Lookup()
		if c.Kind != lineitem.KindLookup || !ok {
			continue
		}

		var p *picker.Picker
		switch {
		case !loaded:
			p = picker.NewLoading(opts)
		case set.Failed(cat) != nil:
			p = picker.NewFailed(set.Failed(cat), opts)
		default:
			p = picker.New(set.Get(cat), nil, opts)
		}

		if old, ok := g.pickers[c.Field]; ok {
			p.SetSearch(old.Picker.Search())
		}

		field := c.Field
		p.OnSelect(func(rec lookup.Record) {
			eng := g.engine()
			if i, editing := eng.Editing(); editing && eng.ApplyLookup(i, field, rec) {
				g.draft.LinesChanged()
			}
		})
		g.pickers[field] = components.NewPickerView(c.Label, p)
	}
}

// Resize sets the number of visible rows and the available width.
func (g *grid) Resize(width, rows int) {
	g.width = width
	g.rows = max(rows, gridMinRows)
	g.scrollToCursor()
}

// Editing reports whether a cell is being typed into.
func (g *grid) Editing() bool { return g.input.Active() }

func (g *grid) currentID() (string, bool) {
	li, ok := g.engine().Item(g.row)
	return li.ID, ok
}

// SetRow moves the cursor to row i. A row in edit mode hands edit mode to
// the new row.
func (g *grid) SetRow(i int) {
	eng := g.engine()
	if eng.Len() == 0 {
		g.row = 0
		return
	}
	g.row = clamp(i, 0, eng.Len()-1)
	if _, editing := eng.Editing(); editing {
		g.input.Stop()
		eng.EnterEdit(g.row)
	}
	g.scrollToCursor()
}

func (g *grid) setCol(c int) {
	g.col = clamp(c, 0, len(g.columns)-1)
	g.scrollToCursor()
}

func (g *grid) scrollToCursor() {
	switch {
	case g.row < g.top:
		g.top = g.row
	case g.row >= g.top+g.rows:
		g.top = g.row - g.rows + 1
	}
	g.top = clamp(g.top, 0, max(g.engine().Len()-g.rows, 0))

	if g.col >= gridPinned {
		if g.col < gridPinned+g.offset {
			g.offset = g.col - gridPinned
		}
		for g.col >= gridPinned && !g.columnVisible(g.col) && g.offset < len(g.columns)-gridPinned-1 {
			g.offset++
		}
	}
}

// visibleColumns returns the indexes of the columns that fit the width:
// the pinned ones followed by the scrolled ones.
func (g *grid) visibleColumns() []int {
	used := gridCheckWidth
	out := make([]int, 0, len(g.columns))
	for i := range gridPinned {
		out = append(out, i)
		used += g.columns[i].Width + 1
	}
	for i := gridPinned + g.offset; i < len(g.columns); i++ {
		w := g.columns[i].Width + 1
		if used+w > g.width && len(out) > gridPinned {
			break
		}
		out = append(out, i)
		used += w
	}
	return out
}

func (g *grid) columnVisible(c int) bool {
	for _, i := range g.visibleColumns() {
		if i == c {
			return true
		}
	}
	return false
}

// Update handles a key while the grid has focus. It returns a picker to open
// and a staged delete awaiting confirmation.
func (g *grid) Update(msg tea.KeyMsg, keys KeyMap) (*components.PickerView, *lineitem.PendingDelete, tea.Cmd) {
	eng := g.engine()

	if g.input.Active() {
		res, cmd := g.input.Update(msg)
		if res == inputCommit {
			if i, editing := eng.Editing(); editing && eng.UpdateField(i, g.columns[g.col].Field, strings.TrimSpace(g.input.Value())) {
				g.draft.LinesChanged()
			}
		}
		return nil, nil, cmd
	}

	switch {
	case key.Matches(msg, keys.Up):
		g.SetRow(g.row - 1)
	case key.Matches(msg, keys.Down):
		g.SetRow(g.row + 1)
	case key.Matches(msg, keys.Left):
		g.setCol(g.col - 1)
	case key.Matches(msg, keys.Right):
		g.setCol(g.col + 1)
	case key.Matches(msg, keys.Cancel):
		eng.ExitEdit()
	case key.Matches(msg, keys.Edit):
		return g.activate()
	case key.Matches(msg, keys.AddRow):
		if eng.ReadOnly() {
			return nil, nil, nil
		}
		g.input.Stop()
		g.row = eng.AddRow()
		g.setCol(g.firstEditable())
		g.draft.LinesChanged()
	case key.Matches(msg, keys.ToggleRow):
		if id, ok := g.currentID(); ok {
			eng.ToggleRow(id)
		}
	case key.Matches(msg, keys.ToggleAll):
		eng.ToggleSelectAll()
	case key.Matches(msg, keys.Delete):
		if p, ok := g.requestDelete(); ok {
			return nil, p, nil
		}
	}
	return nil, nil, nil
}

// activate enters edit mode on the cursor row, or edits the cursor cell
// when the row is already editing.
func (g *grid) activate() (*components.PickerView, *lineitem.PendingDelete, tea.Cmd) {
	eng := g.engine()
	li, ok := eng.Item(g.row)
	if !ok || eng.ReadOnly() {
		return nil, nil, nil
	}

	if i, editing := eng.Editing(); !editing || i != g.row {
		eng.EnterEdit(g.row)
		if !g.columns[g.col].Editable() {
			g.setCol(g.firstEditable())
		}
		return nil, nil, nil
	}

	c := g.columns[g.col]
	switch c.Kind {
	case lineitem.KindLookup:
		pv, ok := g.pickers[c.Field]
		if !ok {
			return nil, nil, nil
		}
		if rec, found := lineitem.Resolve(li, c.Field, g.set); found {
			pv.Picker.SetSelected(&rec)
		} else {
			pv.Picker.SetSelected(nil)
		}
		cmd := pv.Open()
		if !pv.IsOpen() {
			return nil, nil, nil
		}
		return pv, nil, cmd
	case lineitem.KindText, lineitem.KindNumber:
		return nil, nil, g.input.Start(li.Value(c.Field), c.Width)
	}
	return nil, nil, nil
}

// requestDelete stages the selection, or the cursor row when nothing is
// selected.
func (g *grid) requestDelete() (*lineitem.PendingDelete, bool) {
	eng := g.engine()
	if len(eng.Selected()) > 0 {
		return eng.RequestDeleteSelected()
	}
	id, ok := g.currentID()
	if !ok {
		return nil, false
	}
	return eng.RequestDelete([]string{id})
}

// confirmDelete removes the staged rows and keeps the cursor in range.
func (g *grid) confirmDelete() (lineitem.DeleteResult, bool) {
	res, ok := g.engine().ConfirmDelete()
	if !ok {
		return res, false
	}
	g.input.Stop()
	g.draft.LinesChanged()
	g.row = clamp(g.row, 0, max(g.engine().Len()-1, 0))
	g.scrollToCursor()
	return res, true
}

func (g *grid) firstEditable() int {
	for i, c := range g.columns {
		if c.Editable() {
			return i
		}
	}
	return 0
}

// gridBodyOffset is the number of lines rendered above the first row.
const gridBodyOffset = 1

// RowAt maps a line of the rendered grid body to a row index.
func (g *grid) RowAt(line int) (int, bool) {
	if line < gridBodyOffset {
		return 0, false
	}
	i := g.top + line - gridBodyOffset
	if i >= g.engine().Len() || i >= g.top+g.rows {
		return 0, false
	}
	return i, true
}

func (g *grid) View(focused bool) string {
	eng := g.engine()
	cols := g.visibleColumns()

	lines := []string{g.renderHeader(cols)}
	if eng.Len() == 0 {
		lines = append(lines, styles.GridPlaceholderStyle.Render("No line items. Press a to add one."))
	}

	end := min(g.top+g.rows, eng.Len())
	for i := g.top; i < end; i++ {
		lines = append(lines, g.renderRow(i, cols, focused))
	}

	lines = append(lines, g.renderTotals(cols))
	if hint := g.scrollHint(cols); hint != "" {
		lines = append(lines, styles.TextMutedStyle.Render(hint))
	}
	return strings.Join(lines, "\n")
}

func (g *grid) renderHeader(cols []int) string {
	eng := g.engine()
	var b strings.Builder
	b.WriteString(components.PadRight(styles.CheckboxIcon(eng.AllSelected(), eng.PartiallySelected()), gridCheckWidth))
	for _, i := range cols {
		c := g.columns[i]
		b.WriteString(g.align(c, c.Label))
		b.WriteString(" ")
	}
	return styles.GridHeaderStyle.Render(b.String())
}

func (g *grid) renderRow(i int, cols []int, focused bool) string {
	eng := g.engine()
	li, _ := eng.Item(i)
	editingRow, editing := eng.Editing()
	isEditing := editing && editingRow == i
	isCursor := focused && i == g.row

	var b strings.Builder
	b.WriteString(components.PadRight(styles.CheckboxIcon(eng.IsSelected(li.ID), false), gridCheckWidth))
	for _, ci := range cols {
		c := g.columns[ci]

		var cell string
		switch {
		case isEditing && ci == g.col && g.input.Active():
			cell = components.PadRight(g.input.View(), c.Width)
		default:
			text := c.Render(li, i, g.set)
			cell = g.align(c, text)
			switch {
			case isCursor && ci == g.col:
				cell = styles.GridCursorCellStyle.Render(cell)
			case text == lineitem.Placeholder:
				cell = styles.GridPlaceholderStyle.Render(cell)
			}
		}
		b.WriteString(cell)
		b.WriteString(" ")
	}

	row := b.String()
	switch {
	case isEditing:
		return styles.GridEditingRowStyle.Render(row)
	case isCursor:
		return styles.GridCursorRowStyle.Render(row)
	case eng.IsSelected(li.ID):
		return styles.GridSelectedStyle.Render(row)
	default:
		return styles.GridCellStyle.Render(row)
	}
}

func (g *grid) renderTotals(cols []int) string {
	t := g.engine().Totals()

	var b strings.Builder
	b.WriteString(components.Pad(gridCheckWidth))
	for n, i := range cols {
		c := g.columns[i]
		text := ""
		switch {
		case n == 0:
			text = "Total"
		case c.Kind == lineitem.KindAmount:
			text = lineitem.FormatAmount(t.Amount)
		case c.Field == lineitem.FieldReelPerPack:
			text = t.Quantity.StringFixed(2)
		case c.Field == lineitem.FieldWeightSKU:
			text = t.Weight.StringFixed(2)
		}
		b.WriteString(g.align(c, text))
		b.WriteString(" ")
	}
	return styles.GridTotalsStyle.Render(b.String())
}

func (g *grid) scrollHint(cols []int) string {
	var parts []string
	if n := g.engine().Len(); n > g.rows {
		parts = append(parts, fmt.Sprintf("rows %d-%d of %d", g.top+1, min(g.top+g.rows, n), n))
	}
	if last := cols[len(cols)-1]; g.offset > 0 || last < len(g.columns)-1 {
		parts = append(parts, "h/l scrolls columns")
	}
	return strings.Join(parts, " · ")
}

func (g *grid) align(c lineitem.Column, text string) string {
	switch c.Kind {
	case lineitem.KindNumber, lineitem.KindAmount:
		return components.PadLeft(text, c.Width)
	default:
		return components.PadRight(text, c.Width)
	}
}
