package lookups

import (
	"context"
	"testing"
	"time"

	"github.com/colonyops/rollbook/internal/core/config"
	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSource(t *testing.T) {
	store := newTestKV(t)

	t.Run("fixtures win", func(t *testing.T) {
		src := NewSource(config.LookupsConfig{URL: "https://erp.example.com", Fixtures: []string{"*.json"}, CacheTTL: time.Hour}, store)
		assert.IsType(t, &FileProvider{}, src.Provider)
		assert.Nil(t, src.Cache)
	})

	t.Run("url with cache", func(t *testing.T) {
		src := NewSource(config.LookupsConfig{URL: "https://erp.example.com", CacheTTL: time.Hour}, store)
		require.NotNil(t, src.Cache)
		assert.IsType(t, &CachedProvider{}, src.Provider)
	})

	t.Run("url without cache", func(t *testing.T) {
		src := NewSource(config.LookupsConfig{URL: "https://erp.example.com"}, store)
		assert.Nil(t, src.Cache)
		assert.IsType(t, &HTTPProvider{}, src.Provider)

		src = NewSource(config.LookupsConfig{URL: "https://erp.example.com", CacheTTL: time.Hour}, nil)
		assert.Nil(t, src.Cache)
	})

	t.Run("unconfigured", func(t *testing.T) {
		src := NewSource(config.LookupsConfig{}, store)
		_, err := src.Fetch(context.Background(), lookup.CategoryItem)
		assert.ErrorIs(t, err, ErrNoSource)
	})
}
