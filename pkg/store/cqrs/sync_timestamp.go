package cqrs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/surrealdb/surrealcms/pkg/store"
)

// SyncMissedUpdates performs timestamp-based catch-up from the primary to
// the secondary store. Every record created or updated in [since, until) on
// the primary is copied over: created on the secondary when missing, replaced
// when present. Individual record failures are logged and skipped so one bad
// record cannot stall the whole window; failures to enumerate a table abort
// the run.
//
// Deletes are invisible to this strategy. A record removed from the primary
// simply stops appearing in modification windows, so stale copies can linger
// on the secondary until a change-tracking sync or a manual reconciliation
// removes them.
func (c *CQRSStore) SyncMissedUpdates(ctx context.Context, since, until time.Time) error {
	return syncMissedUpdates(ctx, c.primary, c.secondary, since, until)
}

// ReverseSyncMissedUpdates runs the same catch-up in the opposite direction,
// from the secondary back to the primary. Used for rollback after a trial
// period in reversed mode, when writes that landed on the secondary must be
// carried back before abandoning the migration.
func (c *CQRSStore) ReverseSyncMissedUpdates(ctx context.Context, since, until time.Time) error {
	return syncMissedUpdates(ctx, c.secondary, c.primary, since, until)
}

// syncMissedUpdates copies records modified in [since, until) from one store
// to the other. Entity types are processed parents first (users, projects,
// pages, databases, entries, assets) so a freshly synced child never lands
// before the record it references.
func syncMissedUpdates(ctx context.Context, from, to store.Store, since, until time.Time) error {
	userIDs, err := from.ListModifiedUserIDs(ctx, since, until)
	if err != nil {
		return fmt.Errorf("failed to list modified users: %w", err)
	}
	for _, id := range userIDs {
		user, err := from.GetUser(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get user %s: %w", id, err)
		}
		if user == nil {
			continue
		}
		existing, _ := to.GetUser(ctx, id)
		if existing == nil {
			if err := to.CreateUser(ctx, user); err != nil {
				log.Warn().Err(err).Stringer("id", id).Msg("failed to sync create user")
			}
		} else {
			if err := to.UpdateUser(ctx, user); err != nil {
				log.Warn().Err(err).Stringer("id", id).Msg("failed to sync update user")
			}
		}
	}

	projectIDs, err := from.ListModifiedProjectIDs(ctx, since, until)
	if err != nil {
		return fmt.Errorf("failed to list modified projects: %w", err)
	}
	for _, id := range projectIDs {
		project, err := from.GetProject(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get project %s: %w", id, err)
		}
		if project == nil {
			continue
		}
		existing, _ := to.GetProject(ctx, id)
		if existing == nil {
			if err := to.CreateProject(ctx, project); err != nil {
				log.Warn().Err(err).Stringer("id", id).Msg("failed to sync create project")
			}
		} else {
			if err := to.UpdateProject(ctx, project); err != nil {
				log.Warn().Err(err).Stringer("id", id).Msg("failed to sync update project")
			}
		}
	}

	pageIDs, err := from.ListModifiedPageIDs(ctx, since, until)
	if err != nil {
		return fmt.Errorf("failed to list modified pages: %w", err)
	}
	for _, id := range pageIDs {
		page, err := from.GetPage(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get page %s: %w", id, err)
		}
		if page == nil {
			continue
		}
		existing, _ := to.GetPage(ctx, id)
		if existing == nil {
			if err := to.CreatePage(ctx, page); err != nil {
				log.Warn().Err(err).Stringer("id", id).Msg("failed to sync create page")
			}
		} else {
			if err := to.UpdatePage(ctx, page); err != nil {
				log.Warn().Err(err).Stringer("id", id).Msg("failed to sync update page")
			}
		}
	}

	databaseIDs, err := from.ListModifiedDatabaseIDs(ctx, since, until)
	if err != nil {
		return fmt.Errorf("failed to list modified databases: %w", err)
	}
	for _, id := range databaseIDs {
		database, err := from.GetDatabase(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get database %s: %w", id, err)
		}
		if database == nil {
			continue
		}
		existing, _ := to.GetDatabase(ctx, id)
		if existing == nil {
			if err := to.CreateDatabase(ctx, database); err != nil {
				log.Warn().Err(err).Stringer("id", id).Msg("failed to sync create database")
			}
		} else {
			if err := to.UpdateDatabase(ctx, database); err != nil {
				log.Warn().Err(err).Stringer("id", id).Msg("failed to sync update database")
			}
		}
	}

	entryIDs, err := from.ListModifiedEntryIDs(ctx, since, until)
	if err != nil {
		return fmt.Errorf("failed to list modified entries: %w", err)
	}
	for _, id := range entryIDs {
		entry, err := from.GetEntry(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get entry %s: %w", id, err)
		}
		if entry == nil {
			continue
		}
		existing, _ := to.GetEntry(ctx, id)
		if existing == nil {
			if err := to.CreateEntry(ctx, entry); err != nil {
				log.Warn().Err(err).Stringer("id", id).Msg("failed to sync create entry")
			}
		} else {
			if err := to.UpdateEntry(ctx, entry); err != nil {
				log.Warn().Err(err).Stringer("id", id).Msg("failed to sync update entry")
			}
		}
	}

	assetIDs, err := from.ListModifiedAssetIDs(ctx, since, until)
	if err != nil {
		return fmt.Errorf("failed to list modified assets: %w", err)
	}
	for _, id := range assetIDs {
		asset, err := from.GetAsset(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get asset %s: %w", id, err)
		}
		if asset == nil {
			continue
		}
		existing, _ := to.GetAsset(ctx, id)
		if existing == nil {
			if err := to.CreateAsset(ctx, asset); err != nil {
				log.Warn().Err(err).Stringer("id", id).Msg("failed to sync create asset")
			}
		} else {
			if err := to.UpdateAsset(ctx, asset); err != nil {
				log.Warn().Err(err).Stringer("id", id).Msg("failed to sync update asset")
			}
		}
	}

	return nil
}
