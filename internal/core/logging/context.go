package logging

import "context"

type contextKey string

const (
	orderIDKey  contextKey = "order_id"
	categoryKey contextKey = "category"
)

// WithOrderID adds the ID of the order being edited to the context.
func WithOrderID(ctx context.Context, orderID string) context.Context {
	return context.WithValue(ctx, orderIDKey, orderID)
}

// WithCategory adds a lookup category to the context.
func WithCategory(ctx context.Context, category string) context.Context {
	return context.WithValue(ctx, categoryKey, category)
}

// GetOrderID retrieves the order ID from the context.
// Returns empty string if not present.
func GetOrderID(ctx context.Context) string {
	if id, ok := ctx.Value(orderIDKey).(string); ok {
		return id
	}
	return ""
}

// GetCategory retrieves the lookup category from the context.
// Returns empty string if not present.
func GetCategory(ctx context.Context) string {
	if c, ok := ctx.Value(categoryKey).(string); ok {
		return c
	}
	return ""
}
