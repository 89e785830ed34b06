package surrealcms

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Sync performs catch-up synchronization between the two stores of a CQRS
// configuration for the given time window.
//
// Forward sync copies PostgreSQL changes to SurrealDB using the configured
// strategy: change-log replay when change tracking is enabled, otherwise a
// timestamp window scan. Reverse sync always scans timestamps, because the
// change log lives on the PostgreSQL side.
//
// Sync refuses to run in single-store configurations (there is nothing to
// sync against) and in read-only mode (it needs write access to the
// destination). Individual record failures are logged and skipped, and a
// pass over the same window is idempotent, so a failed run can simply be
// repeated.
func (a *App) Sync(ctx context.Context, direction string, since, until time.Time) error {
	if a.config.PostgresOnly {
		return fmt.Errorf("sync not available in PostgreSQL-only mode")
	}
	if a.config.SurrealOnly {
		return fmt.Errorf("sync not available in SurrealDB-only mode")
	}
	if a.config.ReadOnly {
		return fmt.Errorf("sync cannot run in read-only mode as it needs write access to databases")
	}

	if a.cqrs == nil {
		return fmt.Errorf("sync requires a CQRS store but app has %T", a.store)
	}

	switch direction {
	case "forward":
		log.Info().
			Str("strategy", string(a.cqrs.GetSyncStrategy())).
			Time("since", since).Time("until", until).
			Msg("performing forward sync (PostgreSQL -> SurrealDB)")
		if err := a.cqrs.SyncWithStrategy(ctx, since, until); err != nil {
			return fmt.Errorf("forward sync failed: %w", err)
		}
		log.Info().Msg("forward sync completed")

	case "reverse":
		log.Info().
			Time("since", since).Time("until", until).
			Msg("performing reverse sync (SurrealDB -> PostgreSQL)")
		if err := a.cqrs.ReverseSyncMissedUpdates(ctx, since, until); err != nil {
			return fmt.Errorf("reverse sync failed: %w", err)
		}
		log.Info().Msg("reverse sync completed")

	default:
		return fmt.Errorf("invalid sync direction: %s (must be 'forward' or 'reverse')", direction)
	}

	return nil
}
