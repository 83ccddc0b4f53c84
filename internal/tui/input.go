package tui

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/rollbook/internal/core/styles"
)

// inputResult reports how a key press ended an inline edit.
type inputResult int

const (
	inputContinue inputResult = iota
	inputCommit
	inputCancel
)

// fieldInput is the single-line editor used for header, cell and terms
// values.
type fieldInput struct {
	ti     textinput.Model
	active bool
}

func newFieldInput() fieldInput {
	ti := textinput.New()
	ti.Prompt = ""

	s := textinput.DefaultStyles(true)
	s.Cursor.Color = styles.ColorPrimary
	s.Focused.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	ti.SetStyles(s)

	return fieldInput{ti: ti}
}

// Start begins editing value in a box width cells wide.
func (f *fieldInput) Start(value string, width int) tea.Cmd {
	f.active = true
	f.ti.SetWidth(max(width, 4))
	f.ti.SetValue(value)
	f.ti.CursorEnd()
	return f.ti.Focus()
}

// Stop ends editing without touching the value.
func (f *fieldInput) Stop() {
	f.active = false
	f.ti.Blur()
}

func (f *fieldInput) Active() bool { return f.active }

func (f *fieldInput) Value() string { return f.ti.Value() }

// Update feeds a key to the input. Enter commits and esc cancels; both end
// editing.
func (f *fieldInput) Update(msg tea.KeyMsg) (inputResult, tea.Cmd) {
	switch msg.String() {
	case "enter", "tab":
		f.Stop()
		return inputCommit, nil
	case "esc":
		f.Stop()
		return inputCancel, nil
	}

	var cmd tea.Cmd
	f.ti, cmd = f.ti.Update(msg)
	return inputContinue, cmd
}

func (f *fieldInput) View() string { return f.ti.View() }
