package components

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/rollbook/internal/core/styles"
)

// ConfirmModal is a confirm/cancel dialog. The confirm button is selected
// when it opens.
type ConfirmModal struct {
	title           string
	message         string
	confirmLabel    string
	confirmSelected bool
	confirmed       bool
	cancelled       bool
}

// NewConfirmModal creates a confirmation modal with a Confirm button.
func NewConfirmModal(title, message string) ConfirmModal {
	return ConfirmModal{
		title:           title,
		message:         message,
		confirmLabel:    "Confirm",
		confirmSelected: true,
	}
}

// WithConfirmLabel replaces the label of the confirm button.
func (m ConfirmModal) WithConfirmLabel(label string) ConfirmModal {
	m.confirmLabel = label
	return m
}

// Update handles input for the confirmation modal.
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "left", "right", "h", "l", "tab", "shift+tab":
		m.confirmSelected = !m.confirmSelected
	case "enter":
		if m.confirmSelected {
			m.confirmed = true
		} else {
			m.cancelled = true
		}
	case "y", "Y":
		m.confirmed = true
	case "n", "N", "esc":
		m.cancelled = true
	}

	return m, nil
}

// Title returns the modal heading.
func (m ConfirmModal) Title() string { return m.title }

// Message returns the modal body.
func (m ConfirmModal) Message() string { return m.message }

// ConfirmSelected returns true if the confirm button is selected.
func (m ConfirmModal) ConfirmSelected() bool { return m.confirmSelected }

// Confirmed returns true if user confirmed.
func (m ConfirmModal) Confirmed() bool { return m.confirmed }

// Cancelled returns true if user cancelled.
func (m ConfirmModal) Cancelled() bool { return m.cancelled }

// Done reports whether the user answered.
func (m ConfirmModal) Done() bool { return m.confirmed || m.cancelled }

// View renders the modal box.
func (m ConfirmModal) View() string {
	confirmStyle, cancelStyle := styles.ModalButtonSelectedStyle, styles.ModalButtonStyle
	if !m.confirmSelected {
		confirmStyle, cancelStyle = styles.ModalButtonStyle, styles.ModalButtonSelectedStyle
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		confirmStyle.Render(m.confirmLabel),
		"  ",
		cancelStyle.Render("Cancel"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(m.title),
		"",
		styles.ConfirmMessageStyle.Width(56).Render(m.message),
		buttons,
		styles.ModalHelpStyle.Render("←/→ select  enter confirm  esc cancel"),
	)

	return styles.ModalStyle.Render(content)
}

// Overlay renders the modal centered over background.
func (m ConfirmModal) Overlay(background string, width, height int) string {
	return Center(background, m.View(), width, height)
}

// Center composites modal over the middle of background.
func Center(background, modal string, width, height int) string {
	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)

	modalW := lipgloss.Width(modal)
	modalH := lipgloss.Height(modal)
	centerX := max((width-modalW)/2, 0)
	centerY := max((height-modalH)/2, 0)
	modalLayer.X(centerX).Y(centerY).Z(1)

	return lipgloss.NewCompositor(bgLayer, modalLayer).Render()
}
