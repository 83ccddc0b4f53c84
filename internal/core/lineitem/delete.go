package lineitem

import (
	"fmt"
	"slices"
	"strings"
)

const (
	untitledItem = "Untitled Item"
	summarySep   = " • "
)

// PendingDelete is a delete awaiting confirmation.
type PendingDelete struct {
	IDs       []string
	Summaries []string
}

// Count is the number of rows the delete removes.
func (p PendingDelete) Count() int { return len(p.IDs) }

// Title is the heading of the confirmation dialog.
func (p PendingDelete) Title() string {
	if p.Count() > 1 {
		return "Delete Line Items"
	}
	return "Delete Line Item"
}

// Prompt is the question asked in the confirmation dialog.
func (p PendingDelete) Prompt() string {
	if p.Count() > 1 {
		return fmt.Sprintf("Are you sure you want to delete %d line items? This action cannot be undone.", p.Count())
	}
	label := "this line item"
	if len(p.Summaries) > 0 {
		label = p.Summaries[0]
	}
	return fmt.Sprintf("Are you sure you want to delete %s? This action cannot be undone.", label)
}

// DeleteResult reports a confirmed delete.
type DeleteResult struct {
	Removed int
	Message string
}

// DeleteMessage is the success notice for n removed rows.
func DeleteMessage(n int) string {
	if n == 1 {
		return "Line item deleted successfully."
	}
	return fmt.Sprintf("%d line items deleted successfully.", n)
}

// Summary is the short label naming a row in the confirmation dialog.
func Summary(li LineItem) string {
	name := li.ItemName
	if name == "" {
		name = untitledItem
	}
	parts := []string{name}
	if li.ItemCode != "" {
		parts = append(parts, li.ItemCode)
	}
	return strings.Join(parts, summarySep)
}

// RequestDelete stages the rows with ids for deletion. Unknown ids are
// dropped; nothing is staged when none remain or the engine is read-only.
func (e *Engine) RequestDelete(ids []string) (*PendingDelete, bool) {
	if e.readOnly {
		return nil, false
	}

	p := &PendingDelete{}
	for _, id := range ids {
		i := e.Index(id)
		if i < 0 || slices.Contains(p.IDs, id) {
			continue
		}
		p.IDs = append(p.IDs, id)
		p.Summaries = append(p.Summaries, Summary(e.items[i]))
	}
	if len(p.IDs) == 0 {
		return nil, false
	}

	e.pending = p
	return p, true
}

// RequestDeleteSelected stages every selected row for deletion.
func (e *Engine) RequestDeleteSelected() (*PendingDelete, bool) {
	return e.RequestDelete(e.Selected())
}

// Pending returns the staged delete, if any.
func (e *Engine) Pending() (*PendingDelete, bool) {
	return e.pending, e.pending != nil
}

// CancelDelete discards the staged delete.
func (e *Engine) CancelDelete() {
	e.pending = nil
}

// ConfirmDelete removes the staged rows, drops them from the selection and
// leaves edit mode when the edited row was removed.
func (e *Engine) ConfirmDelete() (DeleteResult, bool) {
	if e.pending == nil || e.readOnly {
		return DeleteResult{}, false
	}

	doomed := make(map[string]struct{}, len(e.pending.IDs))
	for _, id := range e.pending.IDs {
		doomed[id] = struct{}{}
	}
	e.pending = nil

	editingID := ""
	if e.editing >= 0 {
		editingID = e.items[e.editing].ID
	}

	next := make([]LineItem, 0, len(e.items))
	for _, li := range e.items {
		if _, ok := doomed[li.ID]; !ok {
			next = append(next, li)
		}
	}
	removed := len(e.items) - len(next)
	e.items = next

	for id := range doomed {
		delete(e.selected, id)
	}

	e.editing = -1
	if editingID != "" {
		e.editing = e.Index(editingID)
	}

	return DeleteResult{Removed: removed, Message: DeleteMessage(removed)}, true
}
