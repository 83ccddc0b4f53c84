// Package notify models user-facing notifications raised while editing an
// order: lookup failures, save results, validation problems.
package notify

import (
	"context"
	"time"
)

// Level represents the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Sources identify which part of the application raised a notification.
const (
	SourceEditor  = "editor"
	SourceLookups = "lookups"
	SourceExport  = "export"
)

// Notification represents a single notification event.
type Notification struct {
	ID        int64
	Level     Level
	Source    string
	OrderID   string
	Message   string
	CreatedAt time.Time
}

// Store persists notifications to durable storage.
type Store interface {
	Save(ctx context.Context, n Notification) (int64, error)
	List(ctx context.Context) ([]Notification, error)
	ListForOrder(ctx context.Context, orderID string) ([]Notification, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// ParseLevel converts a stored level string, defaulting unknown values to info.
func ParseLevel(s string) Level {
	switch Level(s) {
	case LevelWarning, LevelError:
		return Level(s)
	default:
		return LevelInfo
	}
}
