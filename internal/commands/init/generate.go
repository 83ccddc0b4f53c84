package initcmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/rollbook/internal/core/config"
	"github.com/colonyops/rollbook/internal/core/styles"
)

const configHeader = `# rollbook configuration
# Generated by 'rollbook init'. Run 'rollbook config validate' after editing.
`

// ConfigOptions are the answers collected by the wizard.
type ConfigOptions struct {
	LookupURL       string
	Fixtures        []string
	Theme           string
	CacheTTL        time.Duration
	RefreshSchedule string
	StartEmpty      bool
}

// DefaultConfigOptions mirrors config.DefaultConfig.
func DefaultConfigOptions() ConfigOptions {
	defaults := config.DefaultConfig()
	return ConfigOptions{
		Theme:    defaults.TUI.Theme,
		CacheTTL: defaults.Lookups.CacheTTL,
	}
}

// GenerateConfig builds a config from the wizard answers on top of the
// defaults. Empty answers keep the default value.
func GenerateConfig(opts ConfigOptions) config.Config {
	cfg := config.DefaultConfig()

	cfg.Lookups.URL = strings.TrimSpace(opts.LookupURL)
	for _, f := range opts.Fixtures {
		if f = strings.TrimSpace(f); f != "" {
			cfg.Lookups.Fixtures = append(cfg.Lookups.Fixtures, f)
		}
	}
	if opts.CacheTTL > 0 {
		cfg.Lookups.CacheTTL = opts.CacheTTL
	}
	cfg.Lookups.RefreshSchedule = strings.TrimSpace(opts.RefreshSchedule)

	if _, ok := styles.GetPalette(opts.Theme); ok {
		cfg.TUI.Theme = opts.Theme
	}
	cfg.Editor.StartEmpty = opts.StartEmpty

	return cfg
}

// WriteConfig writes cfg as YAML to configPath, creating parent directories.
func WriteConfig(cfg config.Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(configHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(configPath, buf.Bytes(), 0o644)
}
