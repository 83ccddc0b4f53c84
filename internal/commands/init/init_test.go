package initcmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/colonyops/rollbook/internal/core/config"
	"github.com/colonyops/rollbook/internal/core/doctor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfig_KeepsDefaultsForEmptyAnswers(t *testing.T) {
	cfg := GenerateConfig(ConfigOptions{Theme: "no-such-theme", Fixtures: []string{" ", ""}})
	defaults := config.DefaultConfig()

	assert.Equal(t, defaults.TUI.Theme, cfg.TUI.Theme)
	assert.Equal(t, defaults.Lookups.CacheTTL, cfg.Lookups.CacheTTL)
	assert.Empty(t, cfg.Lookups.Fixtures)
	assert.Empty(t, cfg.Lookups.URL)
}

func TestWriteConfig_LoadsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := GenerateConfig(ConfigOptions{
		LookupURL:       "https://erp.example.com/lookup",
		CacheTTL:        6 * time.Hour,
		RefreshSchedule: "0 * * * *",
		StartEmpty:      true,
	})
	require.NoError(t, WriteConfig(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# rollbook configuration")

	loaded, err := config.Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, "https://erp.example.com/lookup", loaded.Lookups.URL)
	assert.Equal(t, 6*time.Hour, loaded.Lookups.CacheTTL)
	assert.Equal(t, "0 * * * *", loaded.Lookups.RefreshSchedule)
	assert.True(t, loaded.Editor.StartEmpty)
}

func TestBackupConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	backup, err := BackupConfig(path)
	require.NoError(t, err)
	assert.Empty(t, backup)
	assert.False(t, ConfigExists(path))

	require.NoError(t, os.WriteFile(path, []byte("tui:\n  theme: x\n"), 0o600))
	assert.True(t, ConfigExists(path))

	backup, err = BackupConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path+".bak", backup)

	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "tui:\n  theme: x\n", string(data))
}

func TestInitCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	result := NewInitCheck(path, dir).Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, doctor.StatusFail, result.Items[0].Status)

	require.NoError(t, WriteConfig(GenerateConfig(ConfigOptions{Fixtures: []string{"lookups/*.json"}}), path))

	result = NewInitCheck(path, dir).Run(context.Background())
	require.NotEmpty(t, result.Items)
	assert.Equal(t, "Init Validation", result.Name)

	last := result.Items[len(result.Items)-1]
	assert.Equal(t, "Lookup source", last.Label)
	assert.Equal(t, doctor.StatusPass, last.Status)
	assert.Equal(t, "fixtures", last.Detail)
}
