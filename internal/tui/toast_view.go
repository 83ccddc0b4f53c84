package tui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/rollbook/internal/core/notify"
	"github.com/colonyops/rollbook/internal/core/styles"
)

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastView renders the toast stack in the lower-right corner of the screen.
type ToastView struct {
	controller *ToastController
}

func NewToastView(controller *ToastController) *ToastView {
	return &ToastView{controller: controller}
}

// View renders the stack with the oldest toast on top.
func (v *ToastView) View() string {
	toasts := v.controller.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, renderToast(t))
	}
	return strings.Join(rendered, "\n")
}

func renderToast(t toast) string {
	icon, style := styles.IconInfo, styles.ToastInfoStyle
	switch t.notification.Level {
	case notify.LevelError:
		icon, style = styles.IconError, styles.ToastErrorStyle
	case notify.LevelWarning:
		icon, style = styles.IconWarning, styles.ToastWarningStyle
	}

	content := icon + " " + t.notification.Message
	if src := t.notification.Source; src != "" {
		content = icon + " " + styles.TextMutedStyle.Render(src+":") + " " + t.notification.Message
	}
	return style.Width(toastWidth).Render(content)
}

// Overlay composites the stack over background.
func (v *ToastView) Overlay(background string, width, height int) string {
	content := v.View()
	if content == "" {
		return background
	}

	w := lipgloss.Width(content)
	h := lipgloss.Height(content)

	layer := lipgloss.NewLayer(content).
		X(max(width-w-1, 0)).
		Y(max(height-h-1, 0)).
		Z(2)

	return lipgloss.NewCompositor(lipgloss.NewLayer(background), layer).Render()
}
