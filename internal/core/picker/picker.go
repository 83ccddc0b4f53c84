// Package picker holds the state of a searchable lookup picker: the open and
// closed states, the search filter, the union of extra columns, and the
// virtualised window of rows to materialise. Rendering lives in the TUI.
package picker

import (
	"slices"
	"strings"

	"github.com/colonyops/rollbook/internal/core/lookup"
)

const (
	LabelPlaceholder = "Select value..."
	LabelLoading     = "Loading..."
	LabelError       = "Error loading data"
	EmptyText        = "No results found."
)

// Options controls virtualisation. Heights are in terminal rows.
type Options struct {
	RowHeight   int
	VisibleRows int
	Overscan    int
}

// DefaultOptions returns one-line rows, eight visible rows and an overscan of
// four rows on each side.
func DefaultOptions() Options {
	return Options{RowHeight: 1, VisibleRows: 8, Overscan: 4}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.RowHeight <= 0 {
		o.RowHeight = d.RowHeight
	}
	if o.VisibleRows <= 0 {
		o.VisibleRows = d.VisibleRows
	}
	if o.Overscan < 0 {
		o.Overscan = d.Overscan
	}
	return o
}

// Picker is the state of one lookup picker. The items slice is a read-only
// snapshot; the picker never modifies it.
type Picker struct {
	opts     Options
	items    []lookup.Record
	headers  []string
	selected *lookup.Record
	onSelect func(lookup.Record)

	open      bool
	search    string
	filtered  []lookup.Record
	scrollTop int
	viewport  int
	cursor    int

	loading bool
	err     error
}

// New creates a closed picker over items. selected may be nil.
func New(items []lookup.Record, selected *lookup.Record, opts Options) *Picker {
	opts = opts.withDefaults()
	p := &Picker{
		opts:     opts,
		items:    items,
		headers:  unionHeaders(items),
		filtered: items,
		viewport: opts.VisibleRows * opts.RowHeight,
	}
	p.SetSelected(selected)
	return p
}

// NewLoading creates a disabled picker for a category whose records have not
// arrived yet.
func NewLoading(opts Options) *Picker {
	p := New(nil, nil, opts)
	p.loading = true
	return p
}

// NewFailed creates a disabled picker for a category whose fetch failed. It
// renders an error label and refuses to open.
func NewFailed(err error, opts Options) *Picker {
	p := New(nil, nil, opts)
	p.err = err
	return p
}

// OnSelect registers the callback fired once per user selection.
func (p *Picker) OnSelect(fn func(lookup.Record)) {
	p.onSelect = fn
}

// Err returns the fetch error a failed picker was created with.
func (p *Picker) Err() error { return p.err }

// Disabled reports whether the picker can be opened.
func (p *Picker) Disabled() bool { return p.err != nil || p.loading }

func (p *Picker) IsOpen() bool { return p.open }

// Open shows the popup and scrolls back to the top. Disabled pickers stay
// closed.
func (p *Picker) Open() {
	if p.Disabled() {
		return
	}
	p.open = true
	p.resetScroll()
}

// Close hides the popup.
func (p *Picker) Close() {
	p.open = false
}

// Toggle opens a closed picker and closes an open one.
func (p *Picker) Toggle() {
	if p.open {
		p.Close()
		return
	}
	p.Open()
}

// Search returns the current filter text.
func (p *Picker) Search() string { return p.search }

// SetSearch updates the filter text. A changed term recomputes the filtered
// rows and scrolls back to the top.
func (p *Picker) SetSearch(s string) {
	if s == p.search {
		return
	}
	p.search = s
	p.filtered = filter(p.items, s)
	p.resetScroll()
}

// Filtered returns the rows matching the current search. The slice must not
// be modified.
func (p *Picker) Filtered() []lookup.Record {
	return p.filtered
}

// Len returns the number of items the picker was created with.
func (p *Picker) Len() int { return len(p.items) }

// Empty reports whether the search matched nothing.
func (p *Picker) Empty() bool { return len(p.filtered) == 0 }

// Headers returns the union of every item's column headers in first-seen
// order.
func (p *Picker) Headers() []string { return p.headers }

// ValueFor returns the value shown for item under header.
func (p *Picker) ValueFor(item lookup.Record, header string) string {
	return item.Value(header)
}

// Selected returns the currently selected record.
func (p *Picker) Selected() (lookup.Record, bool) {
	if p.selected == nil {
		return lookup.Record{}, false
	}
	return *p.selected, true
}

// SetSelected replaces the selection without firing OnSelect.
func (p *Picker) SetSelected(rec *lookup.Record) {
	if rec == nil {
		p.selected = nil
		return
	}
	cp := *rec
	p.selected = &cp
}

// IsSelected compares item with the selection by code and description.
func (p *Picker) IsSelected(item lookup.Record) bool {
	return p.selected != nil && p.selected.Same(item)
}

// TriggerLabel is the text shown on the closed picker.
func (p *Picker) TriggerLabel() string {
	switch {
	case p.err != nil:
		return LabelError
	case p.loading:
		return LabelLoading
	case p.selected != nil && p.selected.Label() != "":
		return p.selected.Label()
	default:
		return LabelPlaceholder
	}
}

// Select chooses the filtered row at index i, fires OnSelect and closes the
// picker. It returns false when the picker is closed or i is out of range.
func (p *Picker) Select(i int) (lookup.Record, bool) {
	if !p.open || i < 0 || i >= len(p.filtered) {
		return lookup.Record{}, false
	}

	rec := p.filtered[i]
	p.SetSelected(&rec)
	p.Close()

	if p.onSelect != nil {
		p.onSelect(rec)
	}
	return rec, true
}

// SelectCursor selects the row under the keyboard cursor.
func (p *Picker) SelectCursor() (lookup.Record, bool) {
	return p.Select(p.cursor)
}

// Cursor returns the index of the highlighted filtered row.
func (p *Picker) Cursor() int { return p.cursor }

// MoveCursor moves the highlight by delta rows and scrolls so that it stays
// inside the viewport.
func (p *Picker) MoveCursor(delta int) {
	if len(p.filtered) == 0 {
		p.cursor = 0
		return
	}

	p.cursor = clamp(p.cursor+delta, 0, len(p.filtered)-1)

	top := p.cursor * p.opts.RowHeight
	bottom := top + p.opts.RowHeight
	switch {
	case top < p.scrollTop:
		p.ScrollTo(top)
	case bottom > p.scrollTop+p.viewport:
		p.ScrollTo(bottom - p.viewport)
	}
}

func (p *Picker) resetScroll() {
	p.scrollTop = 0
	p.cursor = 0
}

// filter keeps items matching search. A blank search keeps everything;
// otherwise surrounding spaces are part of the term.
func filter(items []lookup.Record, search string) []lookup.Record {
	if strings.TrimSpace(search) == "" {
		return items
	}
	term := strings.ToLower(search)

	out := make([]lookup.Record, 0, len(items))
	for _, it := range items {
		if it.Matches(term) {
			out = append(out, it)
		}
	}
	return out
}

func unionHeaders(items []lookup.Record) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(h string) {
		h = strings.TrimSpace(h)
		if h == "" {
			return
		}
		if _, ok := seen[h]; ok {
			return
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}

	for _, it := range items {
		if len(it.ColumnHeaders) > 0 {
			for _, h := range it.ColumnHeaders {
				add(h)
			}
			continue
		}
		keys := make([]string, 0, len(it.Keyed))
		for k := range it.Keyed {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			add(k)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
