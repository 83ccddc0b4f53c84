package lookups

import (
	"context"
	"sync"

	"github.com/colonyops/rollbook/internal/core/logging"
	"github.com/colonyops/rollbook/internal/core/lookup"
	"golang.org/x/sync/errgroup"
)

// fetchConcurrency bounds simultaneous category fetches.
const fetchConcurrency = 4

// LoadSaleOrder fetches every category concurrently. It never fails: a
// category whose fetch fails is stored with no records and its error is
// recorded in Set.Errors, so the editor can show an error state for that
// field alone. With no categories given, all sales-order categories load.
func LoadSaleOrder(ctx context.Context, provider lookup.Provider, categories ...lookup.Category) lookup.Set {
	if len(categories) == 0 {
		categories = lookup.SaleOrderCategories()
	}

	log := logging.Component("lookups")
	set := lookup.NewSet()

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(fetchConcurrency)

	for _, c := range categories {
		g.Go(func() error {
			cctx := logging.WithCategory(ctx, string(c))
			records, err := provider.Fetch(cctx, c)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				log.Error().Ctx(cctx).Err(err).Msg("lookup fetch failed")
				set.Records[c] = []lookup.Record{}
				set.Errors[c] = err
				return nil
			}
			if records == nil {
				records = []lookup.Record{}
			}
			set.Records[c] = records
			return nil
		})
	}

	_ = g.Wait()
	return set
}
