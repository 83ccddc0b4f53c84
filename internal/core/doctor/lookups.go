package doctor

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/colonyops/rollbook/internal/core/lookup"
)

// LookupsCheck fetches every category once and reports how many records
// each returned.
type LookupsCheck struct {
	provider   lookup.Provider
	categories []lookup.Category
	timeout    time.Duration
}

// NewLookupsCheck creates a new lookup reachability check. A zero timeout
// means no per-category deadline.
func NewLookupsCheck(provider lookup.Provider, timeout time.Duration, categories ...lookup.Category) *LookupsCheck {
	if len(categories) == 0 {
		categories = lookup.SaleOrderCategories()
	}
	return &LookupsCheck{provider: provider, categories: categories, timeout: timeout}
}

func (c *LookupsCheck) Name() string {
	return "Lookups"
}

func (c *LookupsCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	for _, cat := range c.categories {
		fetchCtx, cancel := ctx, context.CancelFunc(func() {})
		if c.timeout > 0 {
			fetchCtx, cancel = context.WithTimeout(ctx, c.timeout)
		}
		records, err := c.provider.Fetch(fetchCtx, cat)
		cancel()

		switch {
		case err != nil:
			result.Items = append(result.Items, CheckItem{
				Label:  string(cat),
				Status: StatusFail,
				Detail: err.Error(),
			})
		case len(records) == 0:
			result.Items = append(result.Items, CheckItem{
				Label:  string(cat),
				Status: StatusWarn,
				Detail: "no records",
			})
		default:
			result.Items = append(result.Items, CheckItem{
				Label:  string(cat),
				Status: StatusPass,
				Detail: fmt.Sprintf("%d records", len(records)),
			})
		}
	}

	return result
}

// LookupCache is the part of the lookup cache inspected by CacheCheck.
type LookupCache interface {
	Cached(ctx context.Context) ([]lookup.Category, error)
	Refresh(ctx context.Context, category lookup.Category) ([]lookup.Record, error)
}

// CacheCheck reports which categories are held in the lookup cache. With
// autofix enabled, missing categories are fetched into the cache.
type CacheCheck struct {
	cache      LookupCache
	categories []lookup.Category
	autofix    bool
}

// NewCacheCheck creates a new lookup cache check.
func NewCacheCheck(cache LookupCache, autofix bool, categories ...lookup.Category) *CacheCheck {
	if len(categories) == 0 {
		categories = lookup.SaleOrderCategories()
	}
	return &CacheCheck{cache: cache, categories: categories, autofix: autofix}
}

func (c *CacheCheck) Name() string {
	return "Lookup Cache"
}

func (c *CacheCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	cached, err := c.cache.Cached(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "cache",
			Status: StatusFail,
			Detail: fmt.Sprintf("list cached categories: %v", err),
		})
		return result
	}

	for _, cat := range c.categories {
		if slices.Contains(cached, cat) {
			result.Items = append(result.Items, CheckItem{
				Label:  string(cat),
				Status: StatusPass,
				Detail: "cached",
			})
			continue
		}

		if !c.autofix {
			result.Items = append(result.Items, CheckItem{
				Label:   string(cat),
				Status:  StatusWarn,
				Detail:  "not cached",
				Fixable: true,
			})
			continue
		}

		records, err := c.cache.Refresh(ctx, cat)
		if err != nil {
			result.Items = append(result.Items, CheckItem{
				Label:   string(cat),
				Status:  StatusFail,
				Detail:  fmt.Sprintf("prime failed: %v", err),
				Fixable: true,
			})
			continue
		}
		result.Items = append(result.Items, CheckItem{
			Label:  string(cat),
			Status: StatusPass,
			Detail: fmt.Sprintf("primed with %d records", len(records)),
		})
	}

	return result
}
