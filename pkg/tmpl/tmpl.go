// Package tmpl renders text templates for markdown reports.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// cell escapes s for use inside a markdown table cell. Pipes are escaped and
// newlines collapse to spaces; an empty value renders as a dash.
func cell(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func orDefault(def, s string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return def
}

var funcs = template.FuncMap{
	"cell":    cell,
	"join":    strings.Join,
	"default": orDefault,
	"inc":     func(i int) int { return i + 1 },
	"upper":   strings.ToUpper,
}

// Render executes a Go template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - cell: escape a value for a markdown table cell
//   - join: join string slice with separator (e.g., join .Args ", ")
//   - default: fall back to a value when the piped string is blank
//   - inc: add one, for 1-based row numbers
//   - upper: upper-case a string
func Render(tmpl string, data any) (string, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
