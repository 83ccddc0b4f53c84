package lookups

import (
	"context"
	"fmt"
	"sync"

	"github.com/colonyops/rollbook/internal/core/logging"
	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Refresher periodically re-fetches cached categories so long-lived caches
// pick up upstream changes.
type Refresher struct {
	cron       *cron.Cron
	provider   *CachedProvider
	categories []lookup.Category
	log        zerolog.Logger

	mu        sync.Mutex
	onRefresh []func(lookup.Set)
}

// NewRefresher schedules refreshes of categories with a standard five-field
// cron expression (descriptors such as @hourly are accepted).
func NewRefresher(schedule string, provider *CachedProvider, categories ...lookup.Category) (*Refresher, error) {
	if len(categories) == 0 {
		categories = lookup.SaleOrderCategories()
	}

	r := &Refresher{
		cron:       cron.New(),
		provider:   provider,
		categories: categories,
		log:        logging.Component("lookups.refresher"),
	}

	if _, err := r.cron.AddFunc(schedule, func() { r.RefreshNow(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}

	return r, nil
}

// OnRefresh registers fn to receive the set produced by each refresh.
func (r *Refresher) OnRefresh(fn func(lookup.Set)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRefresh = append(r.onRefresh, fn)
}

// Start runs the schedule in the background.
func (r *Refresher) Start() {
	r.cron.Start()
	r.log.Debug().Int("categories", len(r.categories)).Msg("lookup refresher started")
}

// Stop halts the schedule and waits for a running refresh to finish or ctx
// to end.
func (r *Refresher) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// RefreshNow re-fetches every category. A category that fails keeps its
// cached records; only a category with nothing cached is reported in the
// returned set's Errors.
func (r *Refresher) RefreshNow(ctx context.Context) lookup.Set {
	set := LoadSaleOrder(ctx, refreshing{r.provider}, r.categories...)

	if n := len(set.Errors); n > 0 {
		r.log.Warn().Int("failed", n).Msg("lookup refresh incomplete")
	}

	r.mu.Lock()
	subs := make([]func(lookup.Set), len(r.onRefresh))
	copy(subs, r.onRefresh)
	r.mu.Unlock()

	for _, fn := range subs {
		fn(set)
	}
	return set
}

// refreshing adapts CachedProvider.Refresh to lookup.Provider. A category
// that cannot be refreshed falls back to its cached records so subscribers
// never lose data they already had.
type refreshing struct {
	p *CachedProvider
}

func (r refreshing) Fetch(ctx context.Context, c lookup.Category) ([]lookup.Record, error) {
	records, err := r.p.Refresh(ctx, c)
	switch {
	case err == nil:
		return records, nil
	case records != nil:
		r.p.log.Warn().Err(err).Str("category", string(c)).Msg("refreshed lookup records not cached")
		return records, nil
	}

	cached, cacheErr := r.p.cache.Get(ctx, string(c))
	if cacheErr != nil {
		return nil, err
	}

	r.p.log.Warn().Err(err).Str("category", string(c)).Int("records", len(cached)).Msg("lookup refresh failed, keeping cached records")
	if cached == nil {
		cached = []lookup.Record{}
	}
	return cached, nil
}
