package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

const maxCachedPad = 200

var (
	paddingCache [maxCachedPad + 1]string
	paddingOnce  sync.Once
)

func initPaddingCache() {
	for i := 1; i <= maxCachedPad; i++ {
		paddingCache[i] = strings.Repeat(" ", i)
	}
}

// Pad returns a string of n spaces, using a cache for the widths grid cells
// and dialogs need.
func Pad(n int) string {
	if n <= 0 {
		return ""
	}
	if n <= maxCachedPad {
		paddingOnce.Do(initPaddingCache)
		return paddingCache[n]
	}
	return strings.Repeat(" ", n)
}

// PadRight fits s to exactly width display cells: longer text is truncated
// with an ellipsis, shorter text is padded with spaces. ANSI sequences do
// not count towards the width.
func PadRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w > width {
		return ansi.Truncate(s, width, "…")
	}
	return s + Pad(width-w)
}

// PadLeft is PadRight with the padding before s, for numbers.
func PadLeft(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w > width {
		return ansi.Truncate(s, width, "…")
	}
	return Pad(width-w) + s
}
