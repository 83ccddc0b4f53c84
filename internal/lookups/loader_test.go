package lookups

import (
	"context"
	"testing"

	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSaleOrder_AllCategories(t *testing.T) {
	upstream := newFakeProvider()
	for _, c := range lookup.SaleOrderCategories() {
		upstream.set(c, lookup.Record{Code: string(c) + "-1"})
	}

	set := LoadSaleOrder(context.Background(), upstream)

	assert.Empty(t, set.Errors)
	for _, c := range lookup.SaleOrderCategories() {
		require.Len(t, set.Get(c), 1, c)
		assert.Equal(t, 1, upstream.count(c))
	}
}

func TestLoadSaleOrder_FailureDegrades(t *testing.T) {
	upstream := newFakeProvider()
	upstream.set(lookup.CategoryBF, lookup.Record{Code: "16"})
	upstream.setFail(lookup.CategoryItem, true)

	set := LoadSaleOrder(context.Background(), upstream, lookup.CategoryBF, lookup.CategoryItem, lookup.CategoryGSM)

	assert.Len(t, set.Get(lookup.CategoryBF), 1)

	items := set.Get(lookup.CategoryItem)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.ErrorIs(t, set.Failed(lookup.CategoryItem), errUpstream)

	// a category with no records is empty, not failed
	assert.NotNil(t, set.Get(lookup.CategoryGSM))
	assert.NoError(t, set.Failed(lookup.CategoryGSM))
}

func TestLoadSaleOrder_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewFileProvider(t.TempDir() + "/*.json")
	set := LoadSaleOrder(ctx, p, lookup.CategoryCity)

	assert.Error(t, set.Failed(lookup.CategoryCity))
	assert.Empty(t, set.Get(lookup.CategoryCity))
}
