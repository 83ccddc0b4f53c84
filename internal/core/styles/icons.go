package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconChecked   = "\U000F0132" // nf-md-checkbox_marked
	IconUnchecked = "\U000F0131" // nf-md-checkbox_blank_outline
	IconPartial   = "\U000F0375" // nf-md-minus_box
	IconDirty     = "\uf111"     // nf-fa-circle
	IconClean     = "\uf00c"     // nf-fa-check
	IconLock      = "\uf023"     // nf-fa-lock
	IconEdit      = "\uf044"     // nf-fa-pencil_square_o
	IconSearch    = "\uf002"     // nf-fa-search
	IconCaretDown = "\uf0d7"     // nf-fa-caret_down
	IconWarning   = "\uf071"     // nf-fa-warning
	IconError     = "\uf057"     // nf-fa-times_circle
	IconInfo      = "\uf05a"     // nf-fa-info_circle
)

// CheckboxIcon returns the icon for a tri-state checkbox.
func CheckboxIcon(checked, partial bool) string {
	switch {
	case checked:
		return IconChecked
	case partial:
		return IconPartial
	default:
		return IconUnchecked
	}
}
