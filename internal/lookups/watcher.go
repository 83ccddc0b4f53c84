package lookups

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/colonyops/rollbook/internal/core/logging"
	"github.com/colonyops/rollbook/internal/core/lookup"
)

const fixtureDebounce = 200 * time.Millisecond

// FixtureWatcher reloads fixture files when they change on disk. Only the
// fixed directory prefix of each pattern is watched, so files added to new
// subdirectories of a ** pattern are picked up on the next change to a
// watched directory.
type FixtureWatcher struct {
	provider *FileProvider
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      zerolog.Logger

	mu        sync.Mutex
	onRefresh []func(lookup.Set)

	cancel context.CancelFunc
	done   chan struct{}
}

// NewFixtureWatcher watches the directories of the provider's patterns.
func NewFixtureWatcher(provider *FileProvider) (*FixtureWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	for _, dir := range fixtureDirs(provider.patterns) {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	return &FixtureWatcher{
		provider: provider,
		watcher:  watcher,
		debounce: fixtureDebounce,
		log:      logging.Component("lookups.watcher"),
	}, nil
}

// OnRefresh registers fn to receive the set loaded after each change.
func (w *FixtureWatcher) OnRefresh(fn func(lookup.Set)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onRefresh = append(w.onRefresh, fn)
}

// Start begins watching in the background.
func (w *FixtureWatcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.run(ctx)
	w.log.Debug().Strs("dirs", w.watcher.WatchList()).Msg("fixture watcher started")
}

// Stop closes the watcher and waits for a running reload to finish or ctx to
// end.
func (w *FixtureWatcher) Stop(ctx context.Context) {
	if w.cancel == nil {
		_ = w.watcher.Close()
		return
	}

	w.cancel()
	_ = w.watcher.Close()

	select {
	case <-w.done:
	case <-ctx.Done():
	}
}

func (w *FixtureWatcher) run(ctx context.Context) {
	defer close(w.done)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isFixtureEvent(event) {
				continue
			}

			w.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("fixture changed")

			// Editors write in bursts; wait for changes to settle.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *FixtureWatcher) reload(ctx context.Context) {
	set := LoadSaleOrder(ctx, w.provider)

	w.mu.Lock()
	subs := make([]func(lookup.Set), len(w.onRefresh))
	copy(subs, w.onRefresh)
	w.mu.Unlock()

	for _, fn := range subs {
		fn(set)
	}
}

func isFixtureEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}

	switch strings.ToLower(filepath.Ext(base)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// fixtureDirs returns the unique fixed directory prefixes of patterns.
func fixtureDirs(patterns []string) []string {
	seen := map[string]bool{}
	var dirs []string
	for _, pattern := range patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		dir := filepath.FromSlash(base)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
