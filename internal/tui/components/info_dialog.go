// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/rollbook/internal/core/notify"
	"github.com/colonyops/rollbook/internal/core/styles"
)

const (
	infoModalMaxHeight = 30
	infoModalMargin    = 4
	infoModalChrome    = 6 // title + divider + help + spacing
	infoModalMinWidth  = 50
)

// InfoStatus represents the status of an info item.
type InfoStatus int

const (
	InfoStatusNone InfoStatus = iota
	InfoStatusPass
	InfoStatusWarn
	InfoStatusFail
)

// InfoItem is a single labeled row in an info section.
type InfoItem struct {
	Label  string
	Value  string
	Status InfoStatus
}

// InfoSection groups related info items under a section title.
type InfoSection struct {
	Title string
	Items []InfoItem
}

// InfoDialog displays structured, optionally status-annotated information
// in a scrollable modal.
type InfoDialog struct {
	title    string
	sections []InfoSection
	footer   string
	helpText string
	viewport viewport.Model
}

func infoModalSize(width, height int) (int, int) {
	w := min(max(int(float64(width)*0.65), infoModalMinWidth), width-infoModalMargin)
	h := min(height-infoModalMargin, infoModalMaxHeight)
	return w, h
}

// NewInfoDialog creates a new info dialog sized for a width x height screen.
func NewInfoDialog(title string, sections []InfoSection, footer, helpText string, width, height int) *InfoDialog {
	modalWidth, modalHeight := infoModalSize(width, height)

	vp := viewport.New(
		viewport.WithWidth(modalWidth-4),
		viewport.WithHeight(max(modalHeight-infoModalChrome, 1)),
	)

	d := &InfoDialog{
		title:    title,
		sections: sections,
		footer:   footer,
		helpText: helpText,
		viewport: vp,
	}
	d.viewport.SetContent(d.renderContent(modalWidth))
	return d
}

// NewValidationDialog lists the messages of a failed save.
func NewValidationDialog(messages []string, width, height int) *InfoDialog {
	items := make([]InfoItem, 0, len(messages))
	for _, msg := range messages {
		items = append(items, InfoItem{Label: msg, Status: InfoStatusFail})
	}
	return NewInfoDialog(
		"Cannot save order",
		[]InfoSection{{Title: "Fix the following", Items: items}},
		"",
		"[j/k] scroll  [esc] close",
		width, height,
	)
}

// NewNotificationDialog lists notifications newest first.
func NewNotificationDialog(ns []notify.Notification, width, height int) *InfoDialog {
	items := make([]InfoItem, 0, len(ns))
	for _, n := range ns {
		items = append(items, InfoItem{
			Label:  n.CreatedAt.Format("15:04:05"),
			Value:  n.Message,
			Status: levelStatus(n.Level),
		})
	}

	footer := ""
	if len(items) == 0 {
		footer = styles.TextMutedStyle.Render("No notifications.")
	}
	return NewInfoDialog(
		"Notifications",
		[]InfoSection{{Items: items}},
		footer,
		"[j/k] scroll  [esc] close",
		width, height,
	)
}

func levelStatus(l notify.Level) InfoStatus {
	switch l {
	case notify.LevelError:
		return InfoStatusFail
	case notify.LevelWarning:
		return InfoStatusWarn
	default:
		return InfoStatusNone
	}
}

func (d *InfoDialog) renderContent(modalWidth int) string {
	separator := styles.TextSurfaceStyle.Render(strings.Repeat("─", max(modalWidth-6, 1)))
	lines := make([]string, 0)

	for i, section := range d.sections {
		if i > 0 {
			lines = append(lines, "")
		}
		if section.Title != "" {
			lines = append(lines, styles.HelpDialogSectionStyle.Render(section.Title), separator)
		}
		for _, item := range section.Items {
			lines = append(lines, formatInfoItem(item))
		}
	}

	if d.footer != "" {
		lines = append(lines, "", d.footer)
	}

	return strings.Join(lines, "\n")
}

func formatInfoItem(item InfoItem) string {
	label := styles.TextForegroundBoldStyle.Render(item.Label)
	line := label
	if item.Value != "" {
		line = fmt.Sprintf("%s  %s", label, styles.TextMutedStyle.Render(item.Value))
	}
	if icon := statusIcon(item.Status); icon != "" {
		return icon + " " + line
	}
	return line
}

func statusIcon(s InfoStatus) string {
	switch s {
	case InfoStatusPass:
		return styles.TextSuccessStyle.Render("✔")
	case InfoStatusWarn:
		return styles.TextWarningStyle.Render("●")
	case InfoStatusFail:
		return styles.TextErrorStyle.Render("✘")
	default:
		return ""
	}
}

// ScrollUp scrolls the viewport up.
func (d *InfoDialog) ScrollUp() {
	d.viewport.ScrollUp(1)
}

// ScrollDown scrolls the viewport down.
func (d *InfoDialog) ScrollDown() {
	d.viewport.ScrollDown(1)
}

// Overlay renders the dialog centered over the provided background.
func (d *InfoDialog) Overlay(background string, width, height int) string {
	modalWidth, modalHeight := infoModalSize(width, height)

	scrollInfo := ""
	if d.viewport.TotalLineCount() > d.viewport.VisibleLineCount() {
		scrollInfo = styles.TextMutedStyle.Render(
			fmt.Sprintf(" (%.0f%%)", d.viewport.ScrollPercent()*100),
		)
	}

	divider := styles.TextSurfaceStyle.Render(strings.Repeat("─", max(modalWidth-6, 1)))
	modalContent := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(d.title+scrollInfo),
		divider,
		d.viewport.View(),
		styles.ModalHelpStyle.Render(d.helpText),
	)

	modal := styles.ModalStyle.
		Width(modalWidth).
		Height(modalHeight).
		Render(modalContent)

	return Center(background, modal, width, height)
}
