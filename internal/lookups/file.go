package lookups

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/colonyops/rollbook/internal/core/lookup"
	"gopkg.in/yaml.v3"
)

// ErrNoFixture is returned when no fixture file exists for a category.
var ErrNoFixture = errors.New("no fixture for category")

// FileProvider serves lookup data from local JSON or YAML files. A file
// provides the category named by its base name, so SORD_FHPGD_GSM.json holds
// GSM records. Files may hold a bare array, a single record, or the same
// {Error, Data} envelope the lookup service returns.
type FileProvider struct {
	patterns []string
}

var _ lookup.Provider = (*FileProvider)(nil)

// NewFileProvider creates a provider over files matching any of the
// doublestar glob patterns.
func NewFileProvider(patterns ...string) *FileProvider {
	return &FileProvider{patterns: patterns}
}

// Files returns the matched fixture files keyed by category name.
// When several files provide the same category the first match wins.
func (p *FileProvider) Files() (map[string]string, error) {
	files := make(map[string]string)
	for _, pattern := range p.patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			ext := strings.ToLower(filepath.Ext(m))
			if ext != ".json" && ext != ".yaml" && ext != ".yml" {
				continue
			}
			name := strings.TrimSuffix(filepath.Base(m), filepath.Ext(m))
			key := strings.ToLower(name)
			if _, seen := files[key]; !seen {
				files[key] = m
			}
		}
	}
	return files, nil
}

// Fetch reads and normalizes the fixture for category.
func (p *FileProvider) Fetch(ctx context.Context, category lookup.Category) ([]lookup.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := p.Files()
	if err != nil {
		return nil, err
	}

	path, ok := files[strings.ToLower(string(category))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoFixture, category)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}

	return decodeFixture(path, data)
}

func decodeFixture(path string, data []byte) ([]lookup.Record, error) {
	var raw any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse fixture %s: %w", path, err)
		}
	default:
		if !json.Valid(data) {
			return nil, fmt.Errorf("parse fixture %s: invalid JSON", path)
		}
		raw = json.RawMessage(data)
	}

	if obj, ok := raw.(map[string]any); ok {
		if v, has := obj["Error"]; has && truthy(v) {
			return nil, &ErrorValue{Value: v}
		}
	}
	if msg, ok := raw.(json.RawMessage); ok {
		var env envelope
		if err := json.Unmarshal(msg, &env); err == nil && truthy(env.Error) {
			return nil, &ErrorValue{Value: env.Error}
		}
	}

	return lookup.NormalizeAll(raw), nil
}
