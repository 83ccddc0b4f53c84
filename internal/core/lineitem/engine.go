package lineitem

import (
	"slices"

	"github.com/colonyops/rollbook/internal/core/lookup"
)

// Region classifies where a pointer event landed relative to the grid.
type Region int

const (
	// RegionOutside is anywhere that is not the editing row or a popup.
	RegionOutside Region = iota
	// RegionEditingRow is inside the bounds of the row being edited.
	RegionEditingRow
	// RegionPopup is inside an open lookup picker popup.
	RegionPopup
)

// Engine owns the line items of one order together with the transient grid
// state: the editing row, the selection and a pending delete. Every mutation
// swaps in a new items slice, so a slice returned earlier is never modified.
type Engine struct {
	items    []LineItem
	editing  int
	selected map[string]struct{}
	pending  *PendingDelete
	readOnly bool
}

// NewEngine creates an engine over a copy of items.
func NewEngine(items []LineItem, readOnly bool) *Engine {
	return &Engine{
		items:    slices.Clone(items),
		editing:  -1,
		selected: make(map[string]struct{}),
		readOnly: readOnly,
	}
}

// ReadOnly reports whether mutations are suppressed.
func (e *Engine) ReadOnly() bool { return e.readOnly }

// SetReadOnly switches read-only mode. Entering it leaves edit mode and
// drops any pending delete.
func (e *Engine) SetReadOnly(ro bool) {
	e.readOnly = ro
	if ro {
		e.editing = -1
		e.pending = nil
	}
}

// Items returns a copy of the rows.
func (e *Engine) Items() []LineItem {
	return slices.Clone(e.items)
}

// Len returns the number of rows.
func (e *Engine) Len() int { return len(e.items) }

// Item returns the row at index i.
func (e *Engine) Item(i int) (LineItem, bool) {
	if i < 0 || i >= len(e.items) {
		return LineItem{}, false
	}
	return e.items[i], true
}

// Index returns the position of the row with id, or -1.
func (e *Engine) Index(id string) int {
	return slices.IndexFunc(e.items, func(li LineItem) bool { return li.ID == id })
}

// Replace swaps in a whole new collection. Edit mode and pending deletes are
// cleared and the selection is pruned to ids still present.
func (e *Engine) Replace(items []LineItem) {
	e.items = slices.Clone(items)
	e.editing = -1
	e.pending = nil
	e.prune()
}

// AddRow appends a default row and starts editing it. It returns the new
// row's index, or -1 in read-only mode.
func (e *Engine) AddRow() int {
	if e.readOnly {
		return -1
	}

	next := make([]LineItem, len(e.items), len(e.items)+1)
	copy(next, e.items)
	e.items = append(next, New())
	e.editing = len(e.items) - 1
	return e.editing
}

// Editing returns the index of the row in edit mode.
func (e *Engine) Editing() (int, bool) {
	return e.editing, e.editing >= 0
}

// EnterEdit puts row i in edit mode, silently leaving any other row. It
// reports whether the editing row changed; entering the current row again
// changes nothing.
func (e *Engine) EnterEdit(i int) bool {
	if e.readOnly || i < 0 || i >= len(e.items) || i == e.editing {
		return false
	}
	e.editing = i
	return true
}

// ExitEdit leaves edit mode. It reports whether a row was being edited.
func (e *Engine) ExitEdit() bool {
	if e.editing < 0 {
		return false
	}
	e.editing = -1
	return true
}

// PointerDown applies the outside-interaction rule for a pointer event that
// landed in target. While a row is editing, anything outside that row and
// outside an open picker popup ends edit mode. It reports whether edit mode
// ended.
func (e *Engine) PointerDown(target Region) bool {
	if e.editing < 0 {
		return false
	}
	switch target {
	case RegionEditingRow, RegionPopup:
		return false
	default:
		return e.ExitEdit()
	}
}

// UpdateField writes value into field of row i. Numeric fields coerce
// unparsable input to 0. It is a no-op in read-only mode.
func (e *Engine) UpdateField(i int, field Field, value string) bool {
	return e.apply(i, []Update{{Field: field, Value: value}})
}

// ApplyLookup writes every field a lookup selection implies in one step.
func (e *Engine) ApplyLookup(i int, field Field, rec lookup.Record) bool {
	return e.apply(i, SelectionUpdates(field, rec))
}

func (e *Engine) apply(i int, updates []Update) bool {
	if e.readOnly || i < 0 || i >= len(e.items) {
		return false
	}

	row := e.items[i]
	for _, u := range updates {
		if !u.Field.Valid() {
			return false
		}
		row.set(u.Field, u.Value)
	}

	next := slices.Clone(e.items)
	next[i] = row
	e.items = next
	return true
}

// Totals returns the footer sums of the current rows.
func (e *Engine) Totals() Totals {
	return Sum(e.items)
}
