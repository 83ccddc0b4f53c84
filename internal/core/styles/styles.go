// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
	ColorEditing    color.Color
	ColorSelection  color.Color
	ColorAmount     color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style

	// Section chrome.
	SectionTitleStyle        lipgloss.Style
	SectionTitleFocusedStyle lipgloss.Style
	SectionBorderStyle       lipgloss.Style
	SectionBorderFocused     lipgloss.Style

	// Line-item grid.
	GridHeaderStyle      lipgloss.Style
	GridCellStyle        lipgloss.Style
	GridPlaceholderStyle lipgloss.Style
	GridCursorRowStyle   lipgloss.Style
	GridEditingRowStyle  lipgloss.Style
	GridCursorCellStyle  lipgloss.Style
	GridSelectedStyle    lipgloss.Style
	GridTotalsStyle      lipgloss.Style

	// Lookup picker popup.
	PickerStyle         lipgloss.Style
	PickerTriggerStyle  lipgloss.Style
	PickerSearchStyle   lipgloss.Style
	PickerHeaderStyle   lipgloss.Style
	PickerRowStyle      lipgloss.Style
	PickerCursorStyle   lipgloss.Style
	PickerSelectedStyle lipgloss.Style
	PickerEmptyStyle    lipgloss.Style

	// Status bar.
	StatusBarStyle   lipgloss.Style
	StatusDirtyStyle lipgloss.Style
	StatusCleanStyle lipgloss.Style
	ViewModeBadge    lipgloss.Style
	KeyHintStyle     lipgloss.Style

	// Modals.
	ModalStyle               lipgloss.Style
	ModalTitleStyle          lipgloss.Style
	ModalHelpStyle           lipgloss.Style
	ModalButtonStyle         lipgloss.Style
	ModalButtonSelectedStyle lipgloss.Style

	// Forms.
	FormLabelStyle        lipgloss.Style
	FormFieldStyle        lipgloss.Style
	FormFieldFocusedStyle lipgloss.Style
	FormErrorStyle        lipgloss.Style

	// Toasts.
	ToastInfoStyle    lipgloss.Style
	ToastWarningStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style

	// Dialogs.
	ConfirmMessageStyle    lipgloss.Style
	HelpDialogModalStyle   lipgloss.Style
	HelpDialogSectionStyle lipgloss.Style
	HelpDialogHelpStyle    lipgloss.Style
	HelpKeyStyle           lipgloss.Style

	// Text.
	TextForegroundStyle     lipgloss.Style
	TextForegroundBoldStyle lipgloss.Style
	TextPrimaryBoldStyle    lipgloss.Style
	TextMutedStyle          lipgloss.Style
	TextSurfaceStyle        lipgloss.Style
	TextSuccessStyle        lipgloss.Style
	TextWarningStyle        lipgloss.Style
	TextErrorStyle          lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	p = p.complete()
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error
	ColorEditing = p.Editing
	ColorSelection = p.Selection
	ColorAmount = p.Amount

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	CommandStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	SectionTitleStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Bold(true)
	SectionTitleFocusedStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	SectionBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface).
		Padding(0, 1)
	SectionBorderFocused = SectionBorderStyle.
		BorderForeground(ColorPrimary)

	GridHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)
	GridCellStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	GridPlaceholderStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	GridCursorRowStyle = lipgloss.NewStyle().
		Background(ColorSurface)
	GridEditingRowStyle = lipgloss.NewStyle().
		Background(ColorEditing).
		Foreground(ColorForeground)
	GridCursorCellStyle = lipgloss.NewStyle().
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)
	GridSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorSelection)
	GridTotalsStyle = lipgloss.NewStyle().
		Foreground(ColorAmount).
		Bold(true)

	PickerStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSecondary).
		Padding(0, 1)
	PickerTriggerStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Underline(true)
	PickerSearchStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary)
	PickerHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Bold(true)
	PickerRowStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	PickerCursorStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorPrimary)
	PickerSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)
	PickerEmptyStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Padding(0, 1)
	StatusDirtyStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Bold(true)
	StatusCleanStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
	ViewModeBadge = lipgloss.NewStyle().
		Background(ColorWarning).
		Foreground(ColorBackground).
		Bold(true).
		Padding(0, 1)
	KeyHintStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
	ModalButtonStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted)
	ModalButtonSelectedStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)

	FormLabelStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	FormFieldStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorMuted).
		PaddingLeft(1)
	FormFieldFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorPrimary).
		PaddingLeft(1)
	FormErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)

	toast := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	ToastInfoStyle = toast.BorderForeground(ColorPrimary).Foreground(ColorForeground)
	ToastWarningStyle = toast.BorderForeground(ColorWarning).Foreground(ColorWarning)
	ToastErrorStyle = toast.BorderForeground(ColorError).Foreground(ColorError)

	ConfirmMessageStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		MarginBottom(1)
	HelpDialogModalStyle = ModalStyle
	HelpDialogSectionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary)
	HelpDialogHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
	HelpKeyStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	TextForegroundStyle = lipgloss.NewStyle().Foreground(ColorForeground)
	TextForegroundBoldStyle = lipgloss.NewStyle().Foreground(ColorForeground).Bold(true)
	TextPrimaryBoldStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	TextMutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	TextSurfaceStyle = lipgloss.NewStyle().Foreground(ColorSurface)
	TextSuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	TextWarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	TextErrorStyle = lipgloss.NewStyle().Foreground(ColorError)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
