package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/colonyops/rollbook/internal/core/logging"
	"github.com/colonyops/rollbook/internal/core/notify"
)

// Subscriber is a callback invoked when a notification is published.
type Subscriber func(notify.Notification)

// Bus is a synchronous in-process notification bus. It dispatches notifications
// to subscribers inline and persists them to a Store. The Bus is safe for use
// from the Bubble Tea Update loop (single-threaded).
type Bus struct {
	store       notify.Store
	subscribers []Subscriber
	orderID     string
	mu          sync.Mutex
}

// NewBus creates a notification bus backed by the given store.
// If store is nil, notifications are dispatched to subscribers but not persisted.
func NewBus(store notify.Store) *Bus {
	return &Bus{
		store: store,
	}
}

// SetOrder tags every later notification without an order id with id.
func (b *Bus) SetOrder(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orderID = id
}

// Subscribe registers a callback that will be invoked on every Publish.
func (b *Bus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish dispatches a notification to all subscribers and persists it to the store.
func (b *Bus) Publish(n notify.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	b.mu.Lock()
	if n.OrderID == "" {
		n.OrderID = b.orderID
	}
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	// Persist first so the notification has an ID for subscribers.
	if b.store != nil {
		id, err := b.store.Save(context.Background(), n)
		if err != nil {
			logger := logging.Component("notify")
			logger.Error().
				Err(err).
				Str("source", n.Source).
				Str("message", n.Message).
				Msg("failed to persist notification")
		} else {
			n.ID = id
		}
	}

	for _, fn := range subs {
		fn(n)
	}
}

// Errorf publishes an error-level notification from source.
func (b *Bus) Errorf(source, format string, args ...any) {
	b.publishf(notify.LevelError, source, format, args...)
}

// Warnf publishes a warning-level notification from source.
func (b *Bus) Warnf(source, format string, args ...any) {
	b.publishf(notify.LevelWarning, source, format, args...)
}

// Infof publishes an info-level notification from source.
func (b *Bus) Infof(source, format string, args ...any) {
	b.publishf(notify.LevelInfo, source, format, args...)
}

func (b *Bus) publishf(level notify.Level, source, format string, args ...any) {
	b.Publish(notify.Notification{
		Level:   level,
		Source:  source,
		Message: fmt.Sprintf(format, args...),
	})
}

// History returns all persisted notifications (newest first).
// Returns nil if no store is configured.
func (b *Bus) History() ([]notify.Notification, error) {
	if b.store == nil {
		return nil, nil
	}
	return b.store.List(context.Background())
}

// OrderHistory returns the persisted notifications of the current order.
func (b *Bus) OrderHistory() ([]notify.Notification, error) {
	if b.store == nil {
		return nil, nil
	}
	b.mu.Lock()
	id := b.orderID
	b.mu.Unlock()
	return b.store.ListForOrder(context.Background(), id)
}

// Clear deletes all persisted notifications.
func (b *Bus) Clear() error {
	if b.store == nil {
		return nil
	}
	return b.store.Clear(context.Background())
}
