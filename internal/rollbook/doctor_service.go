package rollbook

import (
	"context"

	"github.com/colonyops/rollbook/internal/core/config"
	"github.com/colonyops/rollbook/internal/core/doctor"
	"github.com/colonyops/rollbook/internal/core/order"
	"github.com/colonyops/rollbook/internal/lookups"
)

// DoctorService runs health checks on the rollbook setup.
type DoctorService struct {
	config *config.Config
	schema doctor.SchemaReporter
	orders order.Store
	source lookups.Source
}

// NewDoctorService creates a new DoctorService. A nil schema skips the
// database check.
func NewDoctorService(cfg *config.Config, schema doctor.SchemaReporter, orders order.Store, source lookups.Source) *DoctorService {
	return &DoctorService{config: cfg, schema: schema, orders: orders, source: source}
}

// RunChecks executes all doctor checks and returns results. With autofix,
// uncached lookup categories are fetched into the cache.
func (d *DoctorService) RunChecks(ctx context.Context, configPath string, autofix bool) []doctor.Result {
	checks := []doctor.Check{
		doctor.NewConfigCheck(d.config, configPath),
		doctor.NewDataDirCheck(d.config.DataDir),
	}
	if d.schema != nil {
		checks = append(checks, doctor.NewDatabaseCheck(d.schema))
	}
	checks = append(checks,
		doctor.NewOrdersCheck(d.orders),
		doctor.NewLookupsCheck(d.source, d.config.Lookups.Timeout),
	)
	if d.source.Cache != nil {
		checks = append(checks, doctor.NewCacheCheck(d.source.Cache, autofix))
	}
	return doctor.RunAll(ctx, checks)
}
