package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies order_id and category from the event context onto log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if orderID := GetOrderID(ctx); orderID != "" {
		e.Str("order_id", orderID)
	}

	if category := GetCategory(ctx); category != "" {
		e.Str("category", category)
	}
}
