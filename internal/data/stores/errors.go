package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/colonyops/rollbook/internal/data/db"
)

const (
	busyRetries = 3
	busyBackoff = 50 * time.Millisecond
)

// IsBusyError reports whether err is SQLITE_BUSY, which happens when another
// rollbook process holds the write lock past the busy timeout.
func IsBusyError(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_BUSY
	}
	return strings.Contains(err.Error(), "database is locked")
}

// IsCorruptionError reports whether err means the database file cannot be
// read as SQLite. A file that cannot be opened at all (permissions, missing
// directory) is not corruption.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CORRUPT || code == sqlite3.SQLITE_NOTADB
	}

	msg := err.Error()
	return strings.Contains(msg, "database disk image is malformed") ||
		strings.Contains(msg, "file is not a database")
}

// IsNotFoundError returns true if the error is a "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// withBusyRetry runs fn, retrying with a growing pause while the database
// reports busy.
func withBusyRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= busyRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return err
			case <-time.After(time.Duration(attempt) * busyBackoff):
			}
		}
		if err = fn(); !IsBusyError(err) {
			return err
		}
	}
	return err
}

// OpenWithRecovery opens the database in dataDir. If the file is corrupt it
// is moved aside and a fresh database is created; the returned path names
// the moved file and is empty when no recovery was needed.
func OpenWithRecovery(dataDir string, opts db.OpenOptions) (*db.DB, string, error) {
	database, err := db.Open(dataDir, opts)
	if err == nil {
		return database, "", nil
	}
	if !IsCorruptionError(err) {
		return nil, "", err
	}

	backup, recoverErr := RecoverFromCorruption(dataDir)
	if recoverErr != nil {
		return nil, "", fmt.Errorf("%w (recovery failed: %v)", err, recoverErr)
	}

	database, err = db.Open(dataDir, opts)
	if err != nil {
		return nil, backup, fmt.Errorf("reopen after recovery: %w", err)
	}
	return database, backup, nil
}

// RecoverFromCorruption moves the database file and its WAL and SHM
// companions aside so a new database can be created. It returns the path the
// database was moved to, or "" when there was no file.
func RecoverFromCorruption(dataDir string) (string, error) {
	dbPath := filepath.Join(dataDir, db.FileName)
	backupPath := filepath.Join(dataDir, fmt.Sprintf("%s.corrupt.%s", db.FileName, time.Now().Format("20060102-150405")))

	moved := backupPath
	if err := os.Rename(dbPath, backupPath); err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("move corrupt database: %w", err)
		}
		moved = ""
	}

	// Stale WAL/SHM files would be replayed into the new database.
	for _, suffix := range []string{"-wal", "-shm"} {
		path := dbPath + suffix
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.Rename(path, backupPath+suffix); err != nil {
			if rmErr := os.Remove(path); rmErr != nil {
				return "", fmt.Errorf("move %s file: %w", strings.TrimPrefix(suffix, "-"), err)
			}
		}
	}

	return moved, nil
}
