package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/colonyops/rollbook/internal/core/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), dataDir)
	require.NoError(t, err)

	want := DefaultConfig()
	want.DataDir = dataDir
	assert.Equal(t, want, *cfg)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, styles.DefaultTheme, cfg.TUI.Theme)
	assert.Equal(t, 8, cfg.Picker.VisibleRows)
}

func TestLoad_ParsesFile(t *testing.T) {
	path := writeConfig(t, `
lookups:
  url: https://erp.example.com/api/lookup
  timeout: 3s
  cache_ttl: 24h
  refresh_schedule: "0 6 * * *"
picker:
  visible_rows: 12
  overscan: 2
editor:
  read_only: true
  start_empty: true
tui:
  theme: gruvbox
`)
	dataDir := t.TempDir()

	cfg, err := Load(path, dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, "https://erp.example.com/api/lookup", cfg.Lookups.URL)
	assert.Equal(t, 3*time.Second, cfg.Lookups.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Lookups.CacheTTL)
	assert.Equal(t, "0 6 * * *", cfg.Lookups.RefreshSchedule)
	assert.Equal(t, 12, cfg.Picker.VisibleRows)
	assert.Equal(t, 2, cfg.Picker.Overscan)
	assert.True(t, cfg.Editor.ReadOnly)
	assert.True(t, cfg.Editor.StartEmpty)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)

	// untouched sections keep defaults
	assert.Equal(t, DefaultConfig().Database, cfg.Database)
}

func TestLoad_FixturesResolveRelativeToConfig(t *testing.T) {
	path := writeConfig(t, `
lookups:
  fixtures:
    - fixtures/*.json
    - /abs/*.yaml
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	require.Len(t, cfg.Lookups.Fixtures, 2)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "fixtures/*.json"), cfg.Lookups.Fixtures[0])
	assert.Equal(t, "/abs/*.yaml", cfg.Lookups.Fixtures[1])
	assert.True(t, cfg.Lookups.UsesFixtures())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "lookups: [")

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_ZeroValuesGetDefaults(t *testing.T) {
	path := writeConfig(t, `
picker:
  visible_rows: 0
database:
  busy_timeout: 0
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Picker.VisibleRows)
	assert.Equal(t, 5000, cfg.Database.BusyTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{
			name:    "empty data dir",
			mutate:  func(c *Config) { c.DataDir = "" },
			wantErr: "data directory",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Lookups.Timeout = -time.Second },
			wantErr: "lookups.timeout",
		},
		{
			name:    "negative cache ttl",
			mutate:  func(c *Config) { c.Lookups.CacheTTL = -time.Hour },
			wantErr: "lookups.cache_ttl",
		},
		{
			name:    "no visible rows",
			mutate:  func(c *Config) { c.Picker.VisibleRows = 0 },
			wantErr: "picker.visible_rows",
		},
		{
			name:    "negative overscan",
			mutate:  func(c *Config) { c.Picker.Overscan = -1 },
			wantErr: "picker.overscan",
		},
		{
			name:    "no connections",
			mutate:  func(c *Config) { c.Database.MaxOpenConns = 0 },
			wantErr: "database.max_open_conns",
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.TUI.Theme = "neon" },
			wantErr: "tui.theme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = t.TempDir()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPaths(t *testing.T) {
	cfg := Config{DataDir: "/data"}
	assert.Equal(t, filepath.Join("/data", "rollbook.db"), cfg.DatabaseFile())
	assert.Equal(t, filepath.Join("/data", "exports"), cfg.ExportsDir())
}
