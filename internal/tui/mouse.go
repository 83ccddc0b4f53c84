package tui

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/rollbook/internal/core/lineitem"
)

// rect is a screen area in cells.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// popupBounds is where the open picker popup is drawn. It mirrors the
// centring done by components.Center.
func (m Model) popupBounds() (rect, bool) {
	if m.activePicker == nil || !m.activePicker.IsOpen() {
		return rect{}, false
	}
	view := m.activePicker.View()
	w, h := lipgloss.Width(view), lipgloss.Height(view)
	return rect{x: max((m.width-w)/2, 0), y: max((m.height-h)/2, 0), w: w, h: h}, true
}

// gridBodyTop is the screen line of the grid's column header.
func (m Model) gridBodyTop() int {
	// section title and top border
	return lipgloss.Height(m.renderTitle()) + lipgloss.Height(m.renderHeaderSection()) + 2
}

// regionAt classifies a click for the grid's outside-interaction rule and
// returns the grid row under it, if any.
func (m Model) regionAt(x, y int) (lineitem.Region, int, bool) {
	if r, ok := m.popupBounds(); ok && r.contains(x, y) {
		return lineitem.RegionPopup, 0, false
	}

	row, onRow := m.grid.RowAt(y - m.gridBodyTop())
	if editing, ok := m.grid.engine().Editing(); ok && onRow && row == editing {
		return lineitem.RegionEditingRow, row, true
	}
	return lineitem.RegionOutside, row, onRow
}

// handleMouseClick applies a click. Clicking outside the editing row and
// outside an open popup ends row edit mode and closes the popup. Clicking
// another grid row moves the cursor there and puts that row in edit mode.
func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if m.state != stateNormal {
		return m, nil
	}

	mouse := msg.Mouse()
	region, row, onRow := m.regionAt(mouse.X, mouse.Y)

	if region != lineitem.RegionPopup && m.activePicker != nil {
		m.activePicker.Close()
		m.activePicker = nil
	}

	if m.grid.engine().PointerDown(region) {
		m.grid.input.Stop()
	}

	if onRow && region == lineitem.RegionOutside {
		m.setFocus(focusLines)
		m.grid.row = row
		if m.grid.engine().EnterEdit(row) && !m.grid.columns[m.grid.col].Editable() {
			m.grid.setCol(m.grid.firstEditable())
		}
		m.grid.scrollToCursor()
	}
	return m, nil
}
