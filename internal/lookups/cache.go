package lookups

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/rollbook/internal/core/kv"
	"github.com/colonyops/rollbook/internal/core/logging"
	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/rs/zerolog"
)

// cacheNamespace prefixes every cached category key.
const cacheNamespace = "lookup"

// CachedProvider serves lookup records from a persistent KV store, falling
// back to the wrapped provider on a miss. Failed fetches are never cached.
type CachedProvider struct {
	next  lookup.Provider
	cache *kv.TypedKV[[]lookup.Record]
	ttl   time.Duration
	log   zerolog.Logger
}

var _ lookup.Provider = (*CachedProvider)(nil)

// NewCachedProvider wraps next with a cache in store. Entries expire after
// ttl; a non-positive ttl keeps them until invalidated.
func NewCachedProvider(next lookup.Provider, store kv.KV, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		next:  next,
		cache: kv.Scoped[[]lookup.Record](store, cacheNamespace),
		ttl:   ttl,
		log:   logging.Component("lookups.cache"),
	}
}

// Fetch returns cached records for category, fetching and storing them on a
// miss. A cache that cannot be read or written is logged and bypassed.
func (p *CachedProvider) Fetch(ctx context.Context, category lookup.Category) ([]lookup.Record, error) {
	var fetchErr error
	records, hit, err := p.cache.Remember(ctx, string(category), p.ttl, func(ctx context.Context) ([]lookup.Record, error) {
		recs, err := p.next.Fetch(ctx, category)
		fetchErr = err
		return recs, err
	})

	switch {
	case err == nil:
		if hit {
			p.log.Debug().Str("category", string(category)).Int("records", len(records)).Msg("lookup cache hit")
		}
		return records, nil
	case fetchErr != nil:
		return nil, fetchErr
	case records != nil:
		// fetched fine, only the write failed
		p.log.Warn().Err(err).Str("category", string(category)).Msg("failed to cache lookup records")
		return records, nil
	default:
		p.log.Warn().Err(err).Str("category", string(category)).Msg("lookup cache unavailable")
		return p.next.Fetch(ctx, category)
	}
}

// Refresh fetches category from the wrapped provider and replaces the cached
// entry. On failure the existing entry is kept. When only the cache write
// fails the fetched records are returned along with the error.
func (p *CachedProvider) Refresh(ctx context.Context, category lookup.Category) ([]lookup.Record, error) {
	records, err := p.next.Fetch(ctx, category)
	if err != nil {
		return nil, err
	}
	if err := p.cache.SetTTL(ctx, string(category), records, p.ttl); err != nil {
		return records, fmt.Errorf("cache %s: %w", category, err)
	}
	return records, nil
}

// Invalidate drops the cached records of category.
func (p *CachedProvider) Invalidate(ctx context.Context, category lookup.Category) error {
	if err := p.cache.Delete(ctx, string(category)); err != nil {
		return fmt.Errorf("invalidate %s: %w", category, err)
	}
	return nil
}

// Cached lists the categories currently held in the cache.
func (p *CachedProvider) Cached(ctx context.Context) ([]lookup.Category, error) {
	keys, err := p.cache.Keys(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]lookup.Category, 0, len(keys))
	for _, k := range keys {
		out = append(out, lookup.Category(k))
	}
	return out, nil
}
