package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// MaxLogSize is the size at which an existing log file is rotated to
// "<file>.1" before the next run appends to it.
const MaxLogSize = 5 << 20

// New returns a logger that appends JSON lines to file. Each run is tagged
// with its pid, since the editor and one-shot commands share the file. An
// empty file discards logs; the editor owns the terminal.
//
// The level parameter can be one of: debug, info, warn, error, fatal.
func New(level string, file string) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}

	var writer io.Writer = io.Discard
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("create logs dir: %w", err)
		}
		if err := rotate(file, MaxLogSize); err != nil {
			return zerolog.Logger{}, closer, err
		}

		osFile, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, closer, err
		}
		closer = func() { _ = osFile.Close() }
		writer = osFile
	}

	l := zerolog.New(writer).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger().
		Level(lvl)

	return l, closer, nil
}

// rotate moves file to file.1, replacing an older rotation, once it has
// grown past limit.
func rotate(file string, limit int64) error {
	info, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() < limit {
		return nil
	}
	if err := os.Rename(file, file+".1"); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	return nil
}
