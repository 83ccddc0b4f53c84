// Package rollbook wires configuration, persistence and lookup sources into
// the services used by the CLI commands and the editor.
package rollbook

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/rollbook/internal/core/config"
	"github.com/colonyops/rollbook/internal/core/logging"
	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/colonyops/rollbook/internal/data/db"
	"github.com/colonyops/rollbook/internal/data/stores"
	"github.com/colonyops/rollbook/internal/lookups"
	"github.com/colonyops/rollbook/internal/rollbook/sweep"
	"github.com/colonyops/rollbook/internal/rollbook/updatecheck"
)

const sweepInterval = 5 * time.Minute

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// App is the central entry point for rollbook operations. Commands and the
// editor consume App instead of cherry-picking raw dependencies.
type App struct {
	Config  *config.Config
	DB      *db.DB
	KV      *stores.KVStore
	Notices *stores.NotifyStore
	Orders  *OrderService
	Doctor  *DoctorService
	Updates *updatecheck.Checker
	Lookups lookups.Source
	Build   BuildInfo

	refresher backgroundRefresher
	refreshes chan lookup.Set
	stop      context.CancelFunc
}

// backgroundRefresher is satisfied by the cron cache refresher and the
// fixture watcher.
type backgroundRefresher interface {
	OnRefresh(fn func(lookup.Set))
	Start()
	Stop(ctx context.Context)
}

// NewApp constructs an App from an open database. A background refresher is
// created when a cache and a refresh schedule are configured, or when
// fixtures are watched.
func NewApp(cfg *config.Config, database *db.DB, build BuildInfo) (*App, error) {
	kvStore := stores.NewKVStore(database)
	source := lookups.NewSource(cfg.Lookups, kvStore)
	orders := NewOrderService(stores.NewOrderStore(database), cfg.Editor)

	app := &App{
		Config:  cfg,
		DB:      database,
		KV:      kvStore,
		Notices: stores.NewNotifyStore(database),
		Orders:  orders,
		Updates: updatecheck.NewChecker(kvStore, ""),
		Lookups: source,
		Build:   build,
	}
	app.Doctor = NewDoctorService(cfg, database, orders.store, source)

	switch {
	case source.Cache != nil && cfg.Lookups.RefreshSchedule != "":
		r, err := lookups.NewRefresher(cfg.Lookups.RefreshSchedule, source.Cache)
		if err != nil {
			return nil, fmt.Errorf("lookup refresher: %w", err)
		}
		app.refresher = r

	case cfg.Lookups.WatchFixtures:
		if files, ok := source.Provider.(*lookups.FileProvider); ok {
			w, err := lookups.NewFixtureWatcher(files)
			if err != nil {
				// The editor still works from the fixtures loaded at start.
				logger := logging.Component("app")
				logger.Warn().Err(err).Msg("fixture watcher disabled")
				break
			}
			app.refresher = w
		}
	}

	if app.refresher != nil {
		app.refreshes = make(chan lookup.Set, 1)
		app.refresher.OnRefresh(app.publishRefresh)
	}

	return app, nil
}

// publishRefresh hands set to the editor, replacing an unread older set.
func (a *App) publishRefresh(set lookup.Set) {
	for {
		select {
		case a.refreshes <- set:
			return
		default:
		}
		select {
		case <-a.refreshes:
		default:
		}
	}
}

// Refreshes delivers lookup sets produced by the background refresher. It is
// nil when no refresher runs.
func (a *App) Refreshes() <-chan lookup.Set {
	if a.refreshes == nil {
		return nil
	}
	return a.refreshes
}

// LoadLookups fetches every sales-order category.
func (a *App) LoadLookups(ctx context.Context) lookup.Set {
	ctx, cancel := context.WithTimeout(ctx, a.lookupTimeout())
	defer cancel()
	return lookups.LoadSaleOrder(ctx, a.Lookups)
}

func (a *App) lookupTimeout() time.Duration {
	// ten categories at a concurrency of four run in three batches
	return 3 * a.Config.Lookups.Timeout
}

// Start launches background work: the KV sweep and, when configured, the
// lookup refresher or fixture watcher.
func (a *App) Start(ctx context.Context) {
	ctx, a.stop = context.WithCancel(ctx)
	go sweep.Start(ctx, a.KV, sweepInterval)

	if a.refresher != nil {
		a.refresher.Start()
	}
}

// Close stops background work. The database is owned by the caller.
func (a *App) Close(ctx context.Context) {
	if a.stop != nil {
		a.stop()
	}
	if a.refresher != nil {
		stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		a.refresher.Stop(stopCtx)
		logger := logging.Component("app")
		logger.Debug().Msg("lookup refresher stopped")
	}
}
