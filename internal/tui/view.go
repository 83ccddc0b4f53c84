package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/rollbook/internal/core/editor"
	"github.com/colonyops/rollbook/internal/core/picker"
	"github.com/colonyops/rollbook/internal/core/styles"
	"github.com/colonyops/rollbook/internal/tui/components"
)

const (
	// gridChrome is the section title, border, column header, totals and
	// scroll hint lines around the grid rows.
	gridChrome = 6
	// sectionChromeWidth is the horizontal border and padding of a section.
	sectionChromeWidth = 4
	pickerScreenMargin = 12
)

// View renders the editor with any open popup, dialog and toasts on top.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	out := m.renderBody()
	w, h := m.width, m.height

	if m.activePicker != nil && m.activePicker.IsOpen() {
		out = components.Center(out, m.activePicker.View(), w, h)
	}

	switch m.state {
	case stateConfirmDelete, stateConfirmQuit:
		out = m.confirm.Overlay(out, w, h)
	case stateHelp:
		if m.helpDialog != nil {
			out = m.helpDialog.Overlay(out, w, h)
		}
	case stateInfo:
		if m.infoDialog != nil {
			out = m.infoDialog.Overlay(out, w, h)
		}
	}

	v := tea.NewView(m.toastView.Overlay(out, w, h))
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

func (m Model) renderBody() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderHeaderSection(),
		m.renderLinesSection(),
		m.renderFooterSections(),
		m.renderStatusBar(),
	)
}

func (m Model) renderTitle() string {
	no := m.draft.Header.Current().OrderNo
	if no == "" {
		no = "(unnumbered)"
	}
	return styles.TextPrimaryBoldStyle.Render("Sales Order "+no) + "  " +
		styles.TextMutedStyle.Render(string(m.draft.Status()))
}

func (m Model) renderHeaderSection() string {
	return section("Order", m.header.View(m.focus == focusHeader), m.focus == focusHeader)
}

func (m Model) renderLinesSection() string {
	title := "Line Items"
	if n := len(m.grid.engine().Selected()); n > 0 {
		title = fmt.Sprintf("Line Items (%d selected)", n)
	}
	return section(title, m.grid.View(m.focus == focusLines), m.focus == focusLines)
}

func (m Model) renderFooterSections() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		section("Terms & Conditions", m.terms.View(m.focus == focusTerms), m.focus == focusTerms),
		" ",
		section("Expenses", m.expenses.View(m.focus == focusExpenses), m.focus == focusExpenses),
	)
}

func section(title, body string, focused bool) string {
	titleStyle, border := styles.SectionTitleStyle, styles.SectionBorderStyle
	if focused {
		titleStyle, border = styles.SectionTitleFocusedStyle, styles.SectionBorderFocused
	}
	return titleStyle.Render(title) + "\n" + border.Render(body)
}

func (m Model) renderStatusBar() string {
	var left []string
	if m.draft.ReadOnly() {
		left = append(left, styles.ViewModeBadge.Render(styles.IconLock+" VIEW MODE"))
	}

	if m.draft.Coordinator.State() == editor.StateDirty {
		left = append(left, styles.StatusDirtyStyle.Render(styles.IconDirty+" Unsaved changes detected"))
	} else {
		left = append(left, styles.StatusCleanStyle.Render(styles.IconClean+" All changes saved"))
	}

	if !m.loaded {
		left = append(left, styles.TextMutedStyle.Render(picker.LabelLoading))
	}

	hints := styles.KeyHintStyle.Render(m.keyHints())
	bar := strings.Join(left, "  ")

	gap := max(m.width-lipgloss.Width(bar)-lipgloss.Width(hints)-2, 1)
	return styles.StatusBarStyle.Render(bar + components.Pad(gap) + hints)
}

func (m Model) keyHints() string {
	switch {
	case m.activePicker != nil && m.activePicker.IsOpen():
		return "type to search · enter select · esc close"
	case m.sectionEditing():
		return "enter apply · esc cancel"
	case m.focus == focusLines && !m.draft.ReadOnly():
		return "enter edit · a add · space select · d delete · ctrl+s save · ? help"
	case m.draft.ReadOnly():
		return "tab section · q quit · ? help"
	default:
		return "tab section · enter edit · ctrl+s save · ? help"
	}
}

// resizeGrid gives the grid whatever height the other sections leave.
func (m *Model) resizeGrid() {
	used := lipgloss.Height(m.renderTitle()) +
		lipgloss.Height(m.renderHeaderSection()) +
		lipgloss.Height(m.renderFooterSections()) +
		lipgloss.Height(m.renderStatusBar())
	m.grid.Resize(m.width-sectionChromeWidth, m.height-used-gridChrome)
}

// pickerHeight is the popup viewport: the configured rows, capped by the
// screen.
func (m Model) pickerHeight() int {
	rows := m.pickerOpts.VisibleRows
	if rows <= 0 {
		rows = picker.DefaultOptions().VisibleRows
	}
	return max(min(rows, m.height-pickerScreenMargin), 1)
}
