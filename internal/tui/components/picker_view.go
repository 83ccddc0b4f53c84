package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/colonyops/rollbook/internal/core/picker"
	"github.com/colonyops/rollbook/internal/core/styles"
)

const (
	pickerCodeWidth    = 10
	pickerDescWidth    = 28
	pickerMinDescWidth = 16
	pickerExtraWidth   = 12
	pickerMinExtra     = 5
	pickerMarkerWidth  = 2
	pickerChromeWidth  = 4 // border and padding
)

// PickerResult reports what a key press did to an open picker.
type PickerResult int

const (
	PickerNone PickerResult = iota
	PickerSelected
	PickerClosed
)

// PickerView renders a lookup picker popup and routes keys to it. The
// picker state itself lives in picker.Picker.
type PickerView struct {
	Picker   *picker.Picker
	title    string
	input    textinput.Model
	maxWidth int
}

// NewPickerView wraps p in a popup titled title.
func NewPickerView(title string, p *picker.Picker) *PickerView {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.Prompt = ""
	ti.SetWidth(pickerCodeWidth + pickerDescWidth)

	inputStyles := textinput.DefaultStyles(true)
	inputStyles.Cursor.Color = styles.ColorPrimary
	inputStyles.Focused.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	inputStyles.Blurred.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	ti.SetStyles(inputStyles)

	return &PickerView{Picker: p, title: title, input: ti}
}

// Title returns the popup heading.
func (v *PickerView) Title() string { return v.title }

// Open shows the popup. The previous search text is kept.
func (v *PickerView) Open() tea.Cmd {
	v.Picker.Open()
	if !v.Picker.IsOpen() {
		return nil
	}
	v.input.SetValue(v.Picker.Search())
	v.input.CursorEnd()
	return v.input.Focus()
}

// Close hides the popup.
func (v *PickerView) Close() {
	v.Picker.Close()
	v.input.Blur()
}

// SetMaxWidth limits the rendered popup to width cells. Columns shrink to
// fit; zero means no limit.
func (v *PickerView) SetMaxWidth(width int) {
	v.maxWidth = max(width, 0)
}

// IsOpen reports whether the popup is showing.
func (v *PickerView) IsOpen() bool { return v.Picker.IsOpen() }

// Update handles a key press while the popup is open.
func (v *PickerView) Update(msg tea.KeyMsg) (PickerResult, tea.Cmd) {
	if !v.Picker.IsOpen() {
		return PickerNone, nil
	}

	page := max(v.Picker.Viewport(), 1)
	switch msg.String() {
	case "up", "ctrl+p":
		v.Picker.MoveCursor(-1)
		return PickerNone, nil
	case "down", "ctrl+n":
		v.Picker.MoveCursor(1)
		return PickerNone, nil
	case "pgup":
		v.Picker.MoveCursor(-page)
		return PickerNone, nil
	case "pgdown":
		v.Picker.MoveCursor(page)
		return PickerNone, nil
	case "enter":
		if _, ok := v.Picker.SelectCursor(); ok {
			v.input.Blur()
			return PickerSelected, nil
		}
		return PickerNone, nil
	case "esc":
		v.Close()
		return PickerClosed, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.Picker.SetSearch(v.input.Value())
	return PickerNone, cmd
}

// Trigger renders the closed picker as it appears inside a form or grid
// cell.
func (v *PickerView) Trigger(width int, focused bool) string {
	label := v.Picker.TriggerLabel()

	style := styles.PickerTriggerStyle
	switch {
	case v.Picker.Err() != nil:
		style = styles.TextErrorStyle
	case label == picker.LabelPlaceholder || label == picker.LabelLoading:
		style = styles.TextMutedStyle
	}
	if focused {
		style = style.Underline(true)
	}

	text := PadRight(label, max(width-2, 1)) + " " + styles.IconCaretDown
	return style.Render(text)
}

// Headers returns the popup's column titles: code, description and the
// union of every item's extra headers.
func (v *PickerView) Headers() []string {
	return append([]string{"Code", "Description"}, v.Picker.Headers()...)
}

// columnWidths sizes the columns for headers. Extra columns shrink first,
// then the description, down to their minimums.
func (v *PickerView) columnWidths(headers []string) []int {
	widths := make([]int, len(headers))
	for i := range widths {
		switch i {
		case 0:
			widths[i] = pickerCodeWidth
		case 1:
			widths[i] = pickerDescWidth
		default:
			widths[i] = pickerExtraWidth
		}
	}
	if v.maxWidth <= 0 || len(headers) < 2 {
		return widths
	}

	extras := len(headers) - 2
	// cells plus one separating space each
	avail := v.maxWidth - pickerChromeWidth - pickerMarkerWidth - (len(headers) - 1)
	over := pickerCodeWidth + pickerDescWidth + extras*pickerExtraWidth - avail
	if over <= 0 {
		return widths
	}

	if extras > 0 {
		extra := max((avail-pickerCodeWidth-pickerDescWidth)/extras, pickerMinExtra)
		for i := 2; i < len(widths); i++ {
			widths[i] = extra
		}
		over = pickerCodeWidth + pickerDescWidth + extras*extra - avail
	}
	if over > 0 {
		widths[1] = max(pickerDescWidth-over, pickerMinDescWidth)
	}
	return widths
}

// VisibleRows returns the filtered rows inside the viewport. They are
// always a subset of the picker's materialised window.
func (v *PickerView) VisibleRows() (start int, rows []lookup.Record) {
	w := v.Picker.Window()
	filtered := v.Picker.Filtered()

	first := v.Picker.ScrollTop()
	last := first + v.Picker.Viewport()

	start = max(w.Start, first)
	end := min(w.End, last)
	if start >= end {
		return start, nil
	}
	return start, filtered[start:end]
}

// View renders the open popup.
func (v *PickerView) View() string {
	if !v.Picker.IsOpen() {
		return ""
	}

	headers := v.Headers()
	lines := []string{
		styles.ModalTitleStyle.Render(v.title),
		styles.PickerSearchStyle.Render(styles.IconSearch + " " + v.input.View()),
		styles.PickerHeaderStyle.Render(Pad(pickerMarkerWidth) + v.renderCells(headers, func(h string) string { return h })),
	}

	if v.Picker.Empty() {
		lines = append(lines, styles.PickerEmptyStyle.Render(picker.EmptyText))
	} else {
		start, rows := v.VisibleRows()
		for i, rec := range rows {
			lines = append(lines, v.renderRow(start+i, rec, headers))
		}
	}

	total := len(v.Picker.Filtered())
	if total > v.Picker.Viewport() {
		first := v.Picker.ScrollTop() + 1
		last := min(v.Picker.ScrollTop()+v.Picker.Viewport(), total)
		lines = append(lines, styles.TextMutedStyle.Render(fmt.Sprintf("%d-%d of %d", first, last, total)))
	}

	lines = append(lines, styles.KeyHintStyle.Render("↑/↓ move  enter select  esc close"))
	return styles.PickerStyle.Render(strings.Join(lines, "\n"))
}

func (v *PickerView) renderRow(index int, rec lookup.Record, headers []string) string {
	marker := Pad(pickerMarkerWidth)
	if v.Picker.IsSelected(rec) {
		marker = PadRight(styles.IconClean, pickerMarkerWidth)
	}

	cells := v.renderCells(headers, func(h string) string {
		switch h {
		case "Code":
			return rec.Code
		case "Description":
			return rec.Description
		default:
			return v.Picker.ValueFor(rec, h)
		}
	})

	row := marker + cells
	switch {
	case index == v.Picker.Cursor():
		return styles.PickerCursorStyle.Render(row)
	case v.Picker.IsSelected(rec):
		return styles.PickerSelectedStyle.Render(row)
	default:
		return styles.PickerRowStyle.Render(row)
	}
}

func (v *PickerView) renderCells(headers []string, value func(string) string) string {
	widths := v.columnWidths(headers)

	var b strings.Builder
	for i, h := range headers {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(PadRight(value(h), widths[i]))
	}
	return b.String()
}
