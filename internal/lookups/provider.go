package lookups

import (
	"context"
	"errors"

	"github.com/colonyops/rollbook/internal/core/config"
	"github.com/colonyops/rollbook/internal/core/kv"
	"github.com/colonyops/rollbook/internal/core/lookup"
)

// ErrNoSource is returned by an unconfigured provider.
var ErrNoSource = errors.New("no lookup source configured: set lookups.url or lookups.fixtures")

// Source is the provider built from configuration together with the cache
// layer, when one is in use.
type Source struct {
	lookup.Provider
	Cache *CachedProvider
}

// NewSource builds the provider chain described by cfg. Fixtures win over the
// URL. When store is non-nil and cfg.CacheTTL is positive, remote fetches are
// cached; fixtures are never cached.
func NewSource(cfg config.LookupsConfig, store kv.KV) Source {
	switch {
	case cfg.UsesFixtures():
		return Source{Provider: NewFileProvider(cfg.Fixtures...)}
	case cfg.URL != "":
		var p lookup.Provider = NewHTTPProvider(cfg.URL, cfg.Timeout)
		if store == nil || cfg.CacheTTL <= 0 {
			return Source{Provider: p}
		}
		cached := NewCachedProvider(p, store, cfg.CacheTTL)
		return Source{Provider: cached, Cache: cached}
	default:
		return Source{Provider: unconfigured{}}
	}
}

type unconfigured struct{}

func (unconfigured) Fetch(context.Context, lookup.Category) ([]lookup.Record, error) {
	return nil, ErrNoSource
}
