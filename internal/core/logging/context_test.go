package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetOrderID(ctx))
	assert.Empty(t, GetCategory(ctx))

	ctx = WithOrderID(ctx, "order-1")
	ctx = WithCategory(ctx, "Item")

	assert.Equal(t, "order-1", GetOrderID(ctx))
	assert.Equal(t, "Item", GetCategory(ctx))
}
