package kv_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/colonyops/rollbook/internal/core/kv"
	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/colonyops/rollbook/internal/data/db"
	"github.com/colonyops/rollbook/internal/data/stores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) kv.KV {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return stores.NewKVStore(database)
}

func TestTypedKV_SetAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)
	typed := kv.Scoped[string](store, "test")

	require.NoError(t, typed.Set(ctx, "greeting", "hello"))

	got, err := typed.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestTypedKV_ScopedPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)

	items := kv.Scoped[int](store, "Item")
	gsm := kv.Scoped[int](store, "GSM")

	require.NoError(t, items.Set(ctx, "count", 10))
	require.NoError(t, gsm.Set(ctx, "count", 20))

	a, err := items.Get(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, 10, a)

	b, err := gsm.Get(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, 20, b)

	keys, err := store.ListKeys(ctx)
	require.NoError(t, err)
	assert.Contains(t, keys, "Item:count")
	assert.Contains(t, keys, "GSM:count")

	scoped, err := items.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"count"}, scoped)
}

func TestTypedKV_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)
	typed := kv.Scoped[string](store, "ns")

	require.NoError(t, typed.Set(ctx, "key", "val"))
	require.NoError(t, typed.Delete(ctx, "key"))

	has, err := typed.Has(ctx, "key")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestTypedKV_TTL(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)
	typed := kv.Scoped[string](store, "ttl")

	require.NoError(t, typed.SetTTL(ctx, "temp", "gone", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := typed.Get(ctx, "temp")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.True(t, kv.IsMissing(err))
}

func TestTypedKV_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)
	typed := kv.Scoped[string](store, "ttl")

	require.NoError(t, typed.SetTTL(ctx, "forever", "here", 0))

	entry, err := store.GetRaw(ctx, "ttl:forever")
	require.NoError(t, err)
	assert.Nil(t, entry.ExpiresAt)
	assert.False(t, entry.Expired(time.Now().Add(24*time.Hour)))
}

func TestTypedKV_Records(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)
	typed := kv.Scoped[[]lookup.Record](store, "lookup")

	records := lookup.NormalizeJSON([]byte(`[{"Code":"G1","Description":"120 GSM","ColumnHeaders":"Grade|Shade","Additional":"A|Natural"}]`))
	require.NoError(t, typed.Set(ctx, "GSM", records))

	got, err := typed.Get(ctx, "GSM")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "G1", got[0].Code)
	assert.Equal(t, []string{"Grade", "Shade"}, got[0].ColumnHeaders)
	assert.Equal(t, []string{"A", "Natural"}, got[0].Additional)
}

func TestTypedKV_Remember(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)
	typed := kv.Scoped[[]string](store, "remember")

	calls := 0
	fetch := func(context.Context) ([]string, error) {
		calls++
		return []string{"Kg.", "Nos."}, nil
	}

	v, hit, err := typed.Remember(ctx, "units", time.Hour, fetch)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"Kg.", "Nos."}, v)

	v, hit, err = typed.Remember(ctx, "units", time.Hour, fetch)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"Kg.", "Nos."}, v)
	assert.Equal(t, 1, calls)
}

func TestTypedKV_RememberFetchError(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)
	typed := kv.Scoped[string](store, "remember")

	boom := errors.New("upstream down")
	_, _, err := typed.Remember(ctx, "x", time.Hour, func(context.Context) (string, error) {
		return "", boom
	})
	require.ErrorIs(t, err, boom)

	has, err := typed.Has(ctx, "x")
	require.NoError(t, err)
	assert.False(t, has)
}
