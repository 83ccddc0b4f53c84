package printer

import (
	"bytes"
	"encoding/json"
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/rollbook/internal/core/styles"
)

type jsonPalette struct {
	key, str, num, literal, null, punct lipgloss.Style
}

func currentJSONPalette() jsonPalette {
	return jsonPalette{
		key:     lipgloss.NewStyle().Foreground(styles.ColorPrimary),
		str:     styles.TextSuccessStyle,
		num:     styles.TextWarningStyle,
		literal: lipgloss.NewStyle().Foreground(styles.ColorSecondary),
		null:    styles.TextErrorStyle,
		punct:   styles.TextMutedStyle,
	}
}

// ColorizeJSON indents data and colors it with the active theme. Invalid
// JSON is returned unchanged.
func ColorizeJSON(data []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}

	pal := currentJSONPalette()
	raw := buf.String()

	var out strings.Builder
	for i := 0; i < len(raw); {
		ch := raw[i]
		switch {
		case ch == '"':
			end := findStringEnd(raw, i)
			str := raw[i : end+1]
			if rest := strings.TrimLeft(raw[end+1:], " \t"); strings.HasPrefix(rest, ":") {
				out.WriteString(pal.key.Render(str))
			} else {
				out.WriteString(pal.str.Render(str))
			}
			i = end + 1

		case ch == '-' || ch >= '0' && ch <= '9':
			end := i + 1
			for end < len(raw) && strings.IndexByte("0123456789.eE+-", raw[end]) >= 0 {
				end++
			}
			out.WriteString(pal.num.Render(raw[i:end]))
			i = end

		case strings.HasPrefix(raw[i:], "true"):
			out.WriteString(pal.literal.Render("true"))
			i += 4

		case strings.HasPrefix(raw[i:], "false"):
			out.WriteString(pal.literal.Render("false"))
			i += 5

		case strings.HasPrefix(raw[i:], "null"):
			out.WriteString(pal.null.Render("null"))
			i += 4

		case strings.IndexByte(":{}[]", ch) >= 0:
			out.WriteString(pal.punct.Render(string(ch)))
			i++

		default:
			out.WriteByte(ch)
			i++
		}
	}

	return out.String()
}

// findStringEnd returns the index of the closing quote of the JSON string
// opening at pos.
func findStringEnd(s string, pos int) int {
	for i := pos + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return len(s) - 1
}
