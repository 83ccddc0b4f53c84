// Package lookup defines the normalized reference-data record shared by every
// lookup-backed field of a sales order, and the decoder that produces it from
// whatever shape the upstream lookup service returns.
package lookup

import (
	"context"
	"strings"
)

// Record is a normalized lookup entry. ColumnHeaders and Additional always
// have the same length once a record leaves Normalize.
type Record struct {
	Code          string   `json:"Code"`
	Description   string   `json:"Description"`
	ColumnHeaders []string `json:"ColumnHeaders,omitempty"`
	Additional    []string `json:"Additional,omitempty"`

	// Keyed holds additional values that arrived as an object keyed by
	// header. When set it takes precedence over positional lookup.
	Keyed map[string]string `json:"-"`
}

// Label is the human readable text for a record: the description, or the
// code when no description exists.
func (r Record) Label() string {
	if r.Description != "" {
		return r.Description
	}
	return r.Code
}

// Same reports whether two records identify the same entry. Records are
// compared by (Code, Description) so selections rebuilt from stored codes
// still match the lookup list.
func (r Record) Same(other Record) bool {
	return r.Code == other.Code && r.Description == other.Description
}

// Value returns the additional value for header. The keyed map wins, then the
// positional value aligned with ColumnHeaders. Unknown headers yield "".
func (r Record) Value(header string) string {
	if r.Keyed != nil {
		return r.Keyed[header]
	}

	for i, h := range r.ColumnHeaders {
		if strings.TrimSpace(h) == header {
			if i < len(r.Additional) {
				return r.Additional[i]
			}
			return ""
		}
	}

	return ""
}

// Matches reports whether term occurs, case-insensitively, in the code,
// description or any additional value. term must already be lower-cased.
func (r Record) Matches(term string) bool {
	if term == "" {
		return true
	}

	if strings.Contains(strings.ToLower(r.Code), term) ||
		strings.Contains(strings.ToLower(r.Description), term) {
		return true
	}

	for _, v := range r.Additional {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}

	return false
}

// Provider fetches the raw records of one lookup category, already
// normalized.
type Provider interface {
	Fetch(ctx context.Context, category Category) ([]Record, error)
}
