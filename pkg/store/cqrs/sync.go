package cqrs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/surrealdb/surrealcms/pkg/models"
	"github.com/surrealdb/surrealcms/pkg/store"
)

// SyncWithStrategy performs catch-up synchronization using the configured
// strategy.
func (c *CQRSStore) SyncWithStrategy(ctx context.Context, since, until time.Time) error {
	c.mu.RLock()
	strategy := c.syncStrategy
	c.mu.RUnlock()

	switch strategy {
	case SyncStrategyTimestamp:
		return c.SyncMissedUpdates(ctx, since, until)
	case SyncStrategyChangeTracking:
		return c.SyncFromChangeTracking(ctx, since, until)
	default:
		return fmt.Errorf("unknown sync strategy: %s", strategy)
	}
}

// SyncFromChangeTracking replays the primary's change log onto the secondary
// store. Changes are processed oldest first; a change that fails to apply is
// marked with its error and retried on the next pass rather than stopping
// the run. Falls back to timestamp sync when the primary has no tracking
// table.
func (c *CQRSStore) SyncFromChangeTracking(ctx context.Context, since, until time.Time) error {
	tracker, ok := c.primary.(store.ChangeTracker)
	if !ok {
		return c.SyncMissedUpdates(ctx, since, until)
	}

	// Process in batches of 1000.
	changes, err := tracker.ListChangesSince(ctx, since, 1000)
	if err != nil {
		return fmt.Errorf("failed to list changes: %w", err)
	}

	for _, change := range changes {
		if change.ChangedAt.After(until) {
			continue
		}

		if err := c.processChange(ctx, change); err != nil {
			if markErr := tracker.MarkChangeError(ctx, change.ID, err.Error()); markErr != nil {
				log.Warn().Err(markErr).Uint64("change_id", change.ID).
					Msg("failed to record change error")
			}
			log.Warn().Err(err).
				Uint64("change_id", change.ID).
				Str("entity_type", change.EntityType).
				Str("entity_id", change.EntityID).
				Msg("failed to replay change")
			continue
		}
		if err := tracker.MarkChangeProcessed(ctx, change.ID); err != nil {
			log.Warn().Err(err).Uint64("change_id", change.ID).
				Msg("failed to mark change processed")
		}
	}

	return nil
}

// processChange applies a single change from the tracking table to the
// secondary store.
func (c *CQRSStore) processChange(ctx context.Context, change *models.ChangeTracking) error {
	switch change.Operation {
	case models.ChangeOperationCreate, models.ChangeOperationUpdate:
		return c.processEntityChange(ctx, change)
	case models.ChangeOperationDelete:
		return c.processDeleteChange(ctx, change)
	default:
		return fmt.Errorf("unknown change operation: %s", change.Operation)
	}
}

// processEntityChange handles CREATE and UPDATE changes. The payload column
// holds the full entity snapshot at the time of the write, so both replay as
// a create-or-update against the secondary. Deciding by what the secondary
// already has, rather than by the recorded operation, keeps replay
// idempotent when a window is processed twice.
func (c *CQRSStore) processEntityChange(ctx context.Context, change *models.ChangeTracking) error {
	switch change.EntityType {
	case models.EntityTypeUser:
		var user models.User
		if err := mapToStruct(change.Payload, &user); err != nil {
			return fmt.Errorf("failed to unmarshal user: %w", err)
		}
		existing, _ := c.secondary.GetUser(ctx, user.ID)
		if existing == nil {
			return c.secondary.CreateUser(ctx, &user)
		}
		return c.secondary.UpdateUser(ctx, &user)

	case models.EntityTypeProject:
		var project models.Project
		if err := mapToStruct(change.Payload, &project); err != nil {
			return fmt.Errorf("failed to unmarshal project: %w", err)
		}
		existing, _ := c.secondary.GetProject(ctx, project.ID)
		if existing == nil {
			return c.secondary.CreateProject(ctx, &project)
		}
		return c.secondary.UpdateProject(ctx, &project)

	case models.EntityTypePage:
		var page models.Page
		if err := mapToStruct(change.Payload, &page); err != nil {
			return fmt.Errorf("failed to unmarshal page: %w", err)
		}
		existing, _ := c.secondary.GetPage(ctx, page.ID)
		if existing == nil {
			return c.secondary.CreatePage(ctx, &page)
		}
		return c.secondary.UpdatePage(ctx, &page)

	case models.EntityTypeDatabase:
		var database models.Database
		if err := mapToStruct(change.Payload, &database); err != nil {
			return fmt.Errorf("failed to unmarshal database: %w", err)
		}
		existing, _ := c.secondary.GetDatabase(ctx, database.ID)
		if existing == nil {
			return c.secondary.CreateDatabase(ctx, &database)
		}
		return c.secondary.UpdateDatabase(ctx, &database)

	case models.EntityTypeEntry:
		var entry models.Entry
		if err := mapToStruct(change.Payload, &entry); err != nil {
			return fmt.Errorf("failed to unmarshal entry: %w", err)
		}
		existing, _ := c.secondary.GetEntry(ctx, entry.ID)
		if existing == nil {
			return c.secondary.CreateEntry(ctx, &entry)
		}
		return c.secondary.UpdateEntry(ctx, &entry)

	case models.EntityTypeAsset:
		var asset models.Asset
		if err := mapToStruct(change.Payload, &asset); err != nil {
			return fmt.Errorf("failed to unmarshal asset: %w", err)
		}
		existing, _ := c.secondary.GetAsset(ctx, asset.ID)
		if existing == nil {
			return c.secondary.CreateAsset(ctx, &asset)
		}
		return c.secondary.UpdateAsset(ctx, &asset)

	default:
		return fmt.Errorf("unknown entity type: %s", change.EntityType)
	}
}

// processDeleteChange handles DELETE changes. Cascading deletes were
// expanded into one change per removed record when the log was written, so
// replaying a delete never needs to recompute the cascade; deleting an
// already absent record is a no-op on both backends.
func (c *CQRSStore) processDeleteChange(ctx context.Context, change *models.ChangeTracking) error {
	switch change.EntityType {
	case models.EntityTypeUser:
		id, err := models.ParseUserID(change.EntityID)
		if err != nil {
			return fmt.Errorf("failed to parse user ID: %w", err)
		}
		return c.secondary.DeleteUser(ctx, id)

	case models.EntityTypeProject:
		id, err := models.ParseProjectID(change.EntityID)
		if err != nil {
			return fmt.Errorf("failed to parse project ID: %w", err)
		}
		return c.secondary.DeleteProject(ctx, id)

	case models.EntityTypePage:
		id, err := models.ParsePageID(change.EntityID)
		if err != nil {
			return fmt.Errorf("failed to parse page ID: %w", err)
		}
		return c.secondary.DeletePage(ctx, id)

	case models.EntityTypeDatabase:
		id, err := models.ParseDatabaseID(change.EntityID)
		if err != nil {
			return fmt.Errorf("failed to parse database ID: %w", err)
		}
		return c.secondary.DeleteDatabase(ctx, id)

	case models.EntityTypeEntry:
		id, err := models.ParseEntryID(change.EntityID)
		if err != nil {
			return fmt.Errorf("failed to parse entry ID: %w", err)
		}
		return c.secondary.DeleteEntry(ctx, id)

	case models.EntityTypeAsset:
		id, err := models.ParseAssetID(change.EntityID)
		if err != nil {
			return fmt.Errorf("failed to parse asset ID: %w", err)
		}
		return c.secondary.DeleteAsset(ctx, id)

	default:
		return fmt.Errorf("unknown entity type: %s", change.EntityType)
	}
}

// mapToStruct converts a change payload back into its entity struct. The
// payload was produced by marshaling the entity to JSON, so the reverse trip
// restores typed IDs and timestamps through their own UnmarshalJSON
// implementations.
func mapToStruct(data models.JSONMap, target any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal change payload: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to unmarshal change payload: %w", err)
	}
	return nil
}

// GetSyncStats reports tracking-table statistics when the primary supports
// change tracking.
func (c *CQRSStore) GetSyncStats(ctx context.Context) (*store.ChangeStats, error) {
	if tracker, ok := c.primary.(store.ChangeTracker); ok {
		return tracker.GetChangeStats(ctx)
	}
	return nil, fmt.Errorf("sync stats only available with change tracking strategy")
}

// StartContinuousSync launches a background loop that synchronizes changes
// on the given interval until the context is canceled. Each tick covers the
// window since the previous one; failures are logged and the next tick
// retries from where the last successful window ended.
func (c *CQRSStore) StartContinuousSync(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		lastSync := time.Now()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				now := time.Now()
				if err := c.SyncWithStrategy(ctx, lastSync, now); err != nil {
					log.Error().Err(err).Msg("continuous sync failed")
					continue
				}
				lastSync = now
			}
		}
	}()
}
