package lineitem

// ToggleRow flips the selection of the row with id. Unknown ids are ignored.
func (e *Engine) ToggleRow(id string) {
	if e.readOnly || e.Index(id) < 0 {
		return
	}
	if _, ok := e.selected[id]; ok {
		delete(e.selected, id)
		return
	}
	e.selected[id] = struct{}{}
}

// ToggleSelectAll selects every row unless all rows are already selected, in
// which case it clears the selection.
func (e *Engine) ToggleSelectAll() {
	if e.readOnly {
		return
	}
	if e.AllSelected() {
		clear(e.selected)
		return
	}
	for _, li := range e.items {
		e.selected[li.ID] = struct{}{}
	}
}

// ClearSelection deselects every row.
func (e *Engine) ClearSelection() {
	clear(e.selected)
}

// IsSelected reports whether the row with id is selected.
func (e *Engine) IsSelected(id string) bool {
	_, ok := e.selected[id]
	return ok
}

// Selected returns the selected ids in row order.
func (e *Engine) Selected() []string {
	ids := make([]string, 0, len(e.selected))
	for _, li := range e.items {
		if _, ok := e.selected[li.ID]; ok {
			ids = append(ids, li.ID)
		}
	}
	return ids
}

// AllSelected reports whether there are rows and all of them are selected.
func (e *Engine) AllSelected() bool {
	return len(e.items) > 0 && len(e.selected) == len(e.items)
}

// PartiallySelected reports whether some but not all rows are selected.
func (e *Engine) PartiallySelected() bool {
	return len(e.selected) > 0 && !e.AllSelected()
}

func (e *Engine) prune() {
	present := make(map[string]struct{}, len(e.items))
	for _, li := range e.items {
		present[li.ID] = struct{}{}
	}
	for id := range e.selected {
		if _, ok := present[id]; !ok {
			delete(e.selected, id)
		}
	}
}
