// Package sweep purges expired lookup cache entries in the background.
package sweep

import (
	"context"
	"time"

	"github.com/colonyops/rollbook/internal/core/kv"
	"github.com/colonyops/rollbook/internal/core/logging"
)

// Start sweeps s every interval until ctx is cancelled. It blocks, so callers
// run it in a goroutine.
func Start(ctx context.Context, s kv.Sweeper, interval time.Duration) {
	log := logging.Component("kv.sweep")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.SweepExpired(ctx); err != nil {
				log.Debug().Err(err).Msg("kv sweep failed")
			}
		}
	}
}
