package lookups

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/colonyops/rollbook/internal/core/kv"
	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/colonyops/rollbook/internal/data/db"
	"github.com/colonyops/rollbook/internal/data/stores"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream unavailable")

// fakeProvider serves fixed records per category and counts calls.
type fakeProvider struct {
	mu      sync.Mutex
	records map[lookup.Category][]lookup.Record
	fail    map[lookup.Category]bool
	calls   map[lookup.Category]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		records: make(map[lookup.Category][]lookup.Record),
		fail:    make(map[lookup.Category]bool),
		calls:   make(map[lookup.Category]int),
	}
}

func (f *fakeProvider) Fetch(ctx context.Context, c lookup.Category) ([]lookup.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[c]++
	if f.fail[c] {
		return nil, errUpstream
	}
	return f.records[c], nil
}

func (f *fakeProvider) set(c lookup.Category, recs ...lookup.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[c] = recs
}

func (f *fakeProvider) setFail(c lookup.Category, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[c] = fail
}

func (f *fakeProvider) count(c lookup.Category) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[c]
}

var errReadOnly = errors.New("kv is read-only")

// readOnlyKV rejects every write.
type readOnlyKV struct {
	kv.KV
}

func (readOnlyKV) Set(context.Context, string, any) error { return errReadOnly }

func (readOnlyKV) SetTTL(context.Context, string, any, time.Duration) error { return errReadOnly }

func newTestKV(t *testing.T) kv.KV {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return stores.NewKVStore(database)
}
