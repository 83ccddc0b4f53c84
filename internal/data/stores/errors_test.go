package stores

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/colonyops/rollbook/internal/data/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(sql.ErrNoRows))
	assert.True(t, IsNotFoundError(fmt.Errorf("kv get: %w", sql.ErrNoRows)))
	assert.False(t, IsNotFoundError(fmt.Errorf("other")))
}

func TestIsCorruptionError_Message(t *testing.T) {
	assert.True(t, IsCorruptionError(fmt.Errorf("database disk image is malformed")))
	assert.True(t, IsCorruptionError(fmt.Errorf("open: file is not a database (26)")))
	assert.False(t, IsCorruptionError(fmt.Errorf("timeout")))
	assert.False(t, IsCorruptionError(nil))
}

func TestIsBusyError_Message(t *testing.T) {
	assert.True(t, IsBusyError(fmt.Errorf("save: database is locked (5) (SQLITE_BUSY)")))
	assert.False(t, IsBusyError(fmt.Errorf("timeout")))
	assert.False(t, IsBusyError(nil))
}

func TestWithBusyRetry(t *testing.T) {
	busy := errors.New("database is locked")

	calls := 0
	err := withBusyRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return busy
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = withBusyRetry(context.Background(), func() error {
		calls++
		return busy
	})
	require.ErrorIs(t, err, busy)
	assert.Equal(t, busyRetries+1, calls)

	calls = 0
	other := errors.New("constraint failed")
	err = withBusyRetry(context.Background(), func() error {
		calls++
		return other
	})
	require.ErrorIs(t, err, other)
	assert.Equal(t, 1, calls)
}

func TestRecoverFromCorruption(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, db.FileName)
	require.NoError(t, os.WriteFile(dbPath, []byte("garbage"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("wal"), 0o644))

	backup, err := RecoverFromCorruption(dir)
	require.NoError(t, err)
	assert.FileExists(t, backup)
	assert.FileExists(t, backup+"-wal")

	assert.NoFileExists(t, dbPath)
	assert.NoFileExists(t, dbPath+"-wal")

	database, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	_ = database.Close()
}

func TestRecoverFromCorruption_NothingToMove(t *testing.T) {
	backup, err := RecoverFromCorruption(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, backup)
}

func TestOpenWithRecovery_Healthy(t *testing.T) {
	database, backup, err := OpenWithRecovery(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	assert.Empty(t, backup)
}

func TestOpenWithRecovery_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, db.FileName)
	require.NoError(t, os.WriteFile(dbPath, bytes.Repeat([]byte("not a database "), 400), 0o644))

	database, backup, err := OpenWithRecovery(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NotEmpty(t, backup)
	assert.FileExists(t, backup)

	// the new database is usable
	store := NewKVStore(database)
	require.NoError(t, store.Set(context.Background(), "k", "v"))
}
