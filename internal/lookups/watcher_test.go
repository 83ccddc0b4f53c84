package lookups

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/rollbook/internal/core/lookup"
)

func TestFixtureWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, string(lookup.CategoryGSM)+".json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"Code":"120","Description":"120 GSM"}]`), 0o644))

	w, err := NewFixtureWatcher(NewFileProvider(filepath.Join(dir, "*.json")))
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	sets := make(chan lookup.Set, 4)
	w.OnRefresh(func(s lookup.Set) { sets <- s })

	w.Start()
	t.Cleanup(func() { w.Stop(context.Background()) })

	require.NoError(t, os.WriteFile(path, []byte(`[{"Code":"140","Description":"140 GSM"}]`), 0o644))

	select {
	case set := <-sets:
		_, ok := set.Find(lookup.CategoryGSM, "140")
		assert.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload")
	}
}

func TestFixtureWatcher_StopWithoutStart(t *testing.T) {
	w, err := NewFixtureWatcher(NewFileProvider(filepath.Join(t.TempDir(), "*.json")))
	require.NoError(t, err)
	w.Stop(context.Background())
}

func TestIsFixtureEvent(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"json write", fsnotify.Event{Name: "/f/SORD_CUSTOMER.json", Op: fsnotify.Write}, true},
		{"yaml create", fsnotify.Event{Name: "/f/SORD_FHPGD_BF.yml", Op: fsnotify.Create}, true},
		{"removed", fsnotify.Event{Name: "/f/SORD_FHP_City.YAML", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "/f/SORD_CUSTOMER.json", Op: fsnotify.Chmod}, false},
		{"hidden", fsnotify.Event{Name: "/f/.SORD_CUSTOMER.json", Op: fsnotify.Write}, false},
		{"swap file", fsnotify.Event{Name: "/f/SORD_CUSTOMER.json.swp", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isFixtureEvent(tt.event))
		})
	}
}

func TestFixtureDirs(t *testing.T) {
	dirs := fixtureDirs([]string{"/data/lookups/*.json", "/data/lookups/*.yaml", "/data/more/**/*.json"})
	assert.Equal(t, []string{"/data/lookups", "/data/more"}, dirs)
}
