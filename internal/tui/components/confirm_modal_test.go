package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func press(code rune) tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: code})
}

func TestConfirmModal(t *testing.T) {
	tests := []struct {
		name      string
		keys      []tea.Msg
		confirmed bool
		cancelled bool
	}{
		{name: "enter confirms by default", keys: []tea.Msg{press(tea.KeyEnter)}, confirmed: true},
		{name: "y confirms", keys: []tea.Msg{press('y')}, confirmed: true},
		{name: "esc cancels", keys: []tea.Msg{press(tea.KeyEscape)}, cancelled: true},
		{name: "n cancels", keys: []tea.Msg{press('n')}, cancelled: true},
		{name: "toggle then enter cancels", keys: []tea.Msg{press(tea.KeyRight), press(tea.KeyEnter)}, cancelled: true},
		{name: "toggle twice then enter confirms", keys: []tea.Msg{press(tea.KeyRight), press(tea.KeyLeft), press(tea.KeyEnter)}, confirmed: true},
		{name: "other keys ignored", keys: []tea.Msg{press('x')}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewConfirmModal("Delete Line Item", "Are you sure?")
			for _, k := range tt.keys {
				m, _ = m.Update(k)
			}
			assert.Equal(t, tt.confirmed, m.Confirmed())
			assert.Equal(t, tt.cancelled, m.Cancelled())
			assert.Equal(t, tt.confirmed || tt.cancelled, m.Done())
		})
	}
}

func TestConfirmModal_View(t *testing.T) {
	m := NewConfirmModal("Delete Line Items", "Are you sure you want to delete 2 line items?").
		WithConfirmLabel("Delete")

	out := m.Overlay("", 100, 30)
	assert.Contains(t, out, "Delete Line Items")
	assert.Contains(t, out, "delete 2 line items")
	assert.Contains(t, out, "Cancel")
	assert.Equal(t, "Delete Line Items", m.Title())
}
