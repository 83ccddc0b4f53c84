package tui

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/colonyops/rollbook/internal/core/order"
	"github.com/colonyops/rollbook/internal/core/picker"
	"github.com/colonyops/rollbook/internal/core/styles"
	"github.com/colonyops/rollbook/internal/tui/components"
)

const (
	headerColumns    = 2
	headerLabelWidth = 16
	headerValueWidth = 30
	datePlaceholder  = "YYYY/MM/DD"
)

// headerForm edits the order header. Fields are laid out in two columns and
// walked in form order.
type headerForm struct {
	draft   *order.Draft
	fields  []order.HeaderFieldSpec
	cursor  int
	input   fieldInput
	pickers map[order.HeaderField]*components.PickerView
}

func newHeaderForm(d *order.Draft) *headerForm {
	return &headerForm{
		draft:   d,
		fields:  order.HeaderFields(),
		input:   newFieldInput(),
		pickers: make(map[order.HeaderField]*components.PickerView),
	}
}

// bindPickers rebuilds the lookup pickers from set. Search text typed into a
// previous picker of the same field carries over.
func (f *headerForm) bindPickers(set lookup.Set, loaded bool, opts picker.Options) {
	for _, spec := range f.fields {
		if !spec.Lookup() {
			continue
		}

		var p *picker.Picker
		switch {
		case !loaded:
			p = picker.NewLoading(opts)
		case set.Failed(spec.Category) != nil:
			p = picker.NewFailed(set.Failed(spec.Category), opts)
		default:
			p = picker.New(set.Get(spec.Category), f.selection(spec, set), opts)
		}

		if old, ok := f.pickers[spec.Field]; ok {
			p.SetSearch(old.Picker.Search())
		}

		field := spec.Field
		p.OnSelect(func(rec lookup.Record) {
			f.draft.SetHeader(field, rec.Code)
		})
		f.pickers[field] = components.NewPickerView(spec.Label, p)
	}
}

// selection resolves the stored code of a lookup field. Codes missing from
// the lookup list are still shown.
func (f *headerForm) selection(spec order.HeaderFieldSpec, set lookup.Set) *lookup.Record {
	code := f.draft.Header.Current().Get(spec.Field)
	if code == "" {
		return nil
	}
	if rec, ok := set.Find(spec.Category, code); ok {
		return &rec
	}
	return &lookup.Record{Code: code}
}

func (f *headerForm) current() order.HeaderFieldSpec {
	return f.fields[f.cursor]
}

// Editing reports whether a text field is being typed into.
func (f *headerForm) Editing() bool { return f.input.Active() }

func (f *headerForm) move(delta int) {
	f.cursor = clamp(f.cursor+delta, 0, len(f.fields)-1)
}

// Update handles a key while the header has focus. It returns the picker to
// open when the key activated a lookup field.
func (f *headerForm) Update(msg tea.KeyMsg, keys KeyMap) (*components.PickerView, tea.Cmd) {
	if f.input.Active() {
		res, cmd := f.input.Update(msg)
		if res == inputCommit {
			f.draft.SetHeader(f.current().Field, strings.TrimSpace(f.input.Value()))
		}
		return nil, cmd
	}

	switch {
	case key.Matches(msg, keys.Up):
		f.move(-headerColumns)
	case key.Matches(msg, keys.Down):
		f.move(headerColumns)
	case key.Matches(msg, keys.Left):
		f.move(-1)
	case key.Matches(msg, keys.Right):
		f.move(1)
	case key.Matches(msg, keys.Edit):
		return f.activate()
	}
	return nil, nil
}

func (f *headerForm) activate() (*components.PickerView, tea.Cmd) {
	if f.draft.ReadOnly() {
		return nil, nil
	}

	spec := f.current()
	switch {
	case spec.Lookup():
		pv, ok := f.pickers[spec.Field]
		if !ok {
			return nil, nil
		}
		cmd := pv.Open()
		if !pv.IsOpen() {
			return nil, nil
		}
		return pv, cmd
	case spec.Field == order.HeaderExcisable:
		next := "Y"
		if f.draft.Header.Current().Excisable == "Y" {
			next = "N"
		}
		f.draft.SetHeader(spec.Field, next)
		return nil, nil
	default:
		return nil, f.input.Start(f.draft.Header.Current().Get(spec.Field), headerValueWidth)
	}
}

func (f *headerForm) View(focused bool) string {
	h := f.draft.Header.Current()

	rows := make([]string, 0, (len(f.fields)+1)/headerColumns)
	for start := 0; start < len(f.fields); start += headerColumns {
		cells := make([]string, 0, headerColumns)
		for i := start; i < min(start+headerColumns, len(f.fields)); i++ {
			cells = append(cells, f.renderField(i, h, focused))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (f *headerForm) renderField(i int, h order.Header, focused bool) string {
	spec := f.fields[i]
	active := focused && i == f.cursor

	label := spec.Label
	if spec.Required {
		label += "*"
	}
	labelText := styles.FormLabelStyle.Render(components.PadRight(label, headerLabelWidth))

	var value string
	switch {
	case active && f.input.Active():
		value = f.input.View()
	case spec.Lookup() && f.pickers[spec.Field] != nil:
		value = f.pickers[spec.Field].Trigger(headerValueWidth, active)
	default:
		value = f.plainValue(spec, h.Get(spec.Field), active)
	}

	return labelText + " " + components.PadRight(value, headerValueWidth) + "  "
}

func (f *headerForm) plainValue(spec order.HeaderFieldSpec, v string, active bool) string {
	style := styles.FormFieldStyle
	if active {
		style = styles.FormFieldFocusedStyle
	}

	switch {
	case v != "":
		return style.Render(components.PadRight(v, headerValueWidth-2))
	case spec.Date:
		return style.Foreground(styles.ColorMuted).Render(components.PadRight(datePlaceholder, headerValueWidth-2))
	default:
		return style.Foreground(styles.ColorMuted).Render(components.PadRight("-", headerValueWidth-2))
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
