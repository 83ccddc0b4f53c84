// Package config handles configuration loading and validation for rollbook.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/colonyops/rollbook/internal/core/styles"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Lookups  LookupsConfig  `yaml:"lookups"`
	Picker   PickerConfig   `yaml:"picker"`
	Editor   EditorConfig   `yaml:"editor"`
	Database DatabaseConfig `yaml:"database"`
	TUI      TUIConfig      `yaml:"tui"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// LookupsConfig configures where lookup data comes from and how long it is cached.
type LookupsConfig struct {
	// URL of the lookup endpoint. Requests are sent as GET <url>?LookupCode=<category>.
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
	// CacheTTL controls how long fetched records are reused. Zero disables caching.
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// RefreshSchedule is a cron expression for background cache refreshes.
	// Empty disables the refresher.
	RefreshSchedule string `yaml:"refresh_schedule"`
	// Fixtures are glob patterns of local JSON/YAML files used instead of URL.
	Fixtures []string `yaml:"fixtures"`
	// WatchFixtures reloads fixtures into an open editor when files change.
	WatchFixtures bool `yaml:"watch_fixtures"`
}

// UsesFixtures reports whether lookups are served from local files.
func (l LookupsConfig) UsesFixtures() bool {
	return len(l.Fixtures) > 0
}

// PickerConfig configures the lookup picker popup.
type PickerConfig struct {
	VisibleRows int `yaml:"visible_rows"`
	Overscan    int `yaml:"overscan"`
}

// EditorConfig configures the order editor.
type EditorConfig struct {
	ReadOnly   bool `yaml:"read_only"`
	StartEmpty bool `yaml:"start_empty"`
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Lookups: LookupsConfig{
			Timeout:       10 * time.Second,
			CacheTTL:      72 * time.Hour,
			WatchFixtures: true,
		},
		Picker: PickerConfig{
			VisibleRows: 8,
			Overscan:    4,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
			cfg.resolveFixtures(filepath.Dir(configPath))
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Lookups.Timeout == 0 {
		c.Lookups.Timeout = defaults.Lookups.Timeout
	}
	if c.Picker.VisibleRows == 0 {
		c.Picker.VisibleRows = defaults.Picker.VisibleRows
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// resolveFixtures makes relative fixture patterns relative to the config file.
func (c *Config) resolveFixtures(configDir string) {
	for i, pattern := range c.Lookups.Fixtures {
		if pattern != "" && !filepath.IsAbs(pattern) {
			c.Lookups.Fixtures[i] = filepath.Join(configDir, pattern)
		}
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Lookups.Timeout < 0 {
		return fmt.Errorf("lookups.timeout cannot be negative")
	}

	if c.Lookups.CacheTTL < 0 {
		return fmt.Errorf("lookups.cache_ttl cannot be negative")
	}

	if c.Picker.VisibleRows < 1 {
		return fmt.Errorf("picker.visible_rows must be at least 1")
	}

	if c.Picker.Overscan < 0 {
		return fmt.Errorf("picker.overscan cannot be negative")
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}

	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}

	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout cannot be negative")
	}

	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme %q is not a known theme", c.TUI.Theme)
	}

	return nil
}

// DatabaseFile returns the path of the SQLite database.
func (c *Config) DatabaseFile() string {
	return filepath.Join(c.DataDir, "rollbook.db")
}

// ExportsDir returns the default directory for exported workbooks.
func (c *Config) ExportsDir() string {
	return filepath.Join(c.DataDir, "exports")
}
