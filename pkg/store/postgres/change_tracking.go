package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/surrealdb/surrealcms/pkg/models"
	"github.com/surrealdb/surrealcms/pkg/store"
)

// changeLog starts a query against the change tracking table.
func (s *PostgresStore) changeLog(ctx context.Context) *gorm.DB {
	return s.getDB().WithContext(ctx).Model(&models.ChangeTracking{})
}

// snapshotPayload converts an entity to the JSONMap snapshot stored with
// create and update changes. Deletes carry no payload.
func snapshotPayload(operation models.ChangeOperation, entity any) (models.JSONMap, error) {
	if entity == nil || operation == models.ChangeOperationDelete {
		return nil, nil
	}
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	var payload models.JSONMap
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to JSONMap: %w", err)
	}
	return payload, nil
}

// recordChange appends a change row inside the caller's transaction so the
// log and the domain tables commit or roll back together.
func (s *PostgresStore) recordChange(tx *gorm.DB, entityType string, entityID string, operation models.ChangeOperation, entity any) error {
	payload, err := snapshotPayload(operation, entity)
	if err != nil {
		return err
	}
	return tx.Create(&models.ChangeTracking{
		EntityType: entityType,
		EntityID:   entityID,
		Operation:  operation,
		ChangedAt:  time.Now(),
		Payload:    payload,
	}).Error
}

// RecordChange appends a change row outside any data transaction, for
// callers that already hold a prepared payload.
func (s *PostgresStore) RecordChange(ctx context.Context, entityType string, entityID string, operation models.ChangeOperation, payload models.JSONMap) error {
	return s.getDB().WithContext(ctx).Create(&models.ChangeTracking{
		EntityType: entityType,
		EntityID:   entityID,
		Operation:  operation,
		ChangedAt:  time.Now(),
		Payload:    payload,
	}).Error
}

// ListUnprocessedChanges returns changes awaiting replay in ChangedAt order.
// Rows with an error message are included so failed replays get retried.
func (s *PostgresStore) ListUnprocessedChanges(ctx context.Context, limit int) ([]*models.ChangeTracking, error) {
	query := s.changeLog(ctx).
		Where("processed_at IS NULL OR error_message <> ''").
		Order("changed_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var changes []*models.ChangeTracking
	err := query.Find(&changes).Error
	return changes, err
}

// ListChangesSince returns changes recorded at or after the given time, in
// ChangedAt order.
func (s *PostgresStore) ListChangesSince(ctx context.Context, since time.Time, limit int) ([]*models.ChangeTracking, error) {
	query := s.changeLog(ctx).
		Where("changed_at >= ?", since).
		Order("changed_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var changes []*models.ChangeTracking
	err := query.Find(&changes).Error
	return changes, err
}

// MarkChangeProcessed records a successful replay, clearing any error left
// from earlier attempts.
func (s *PostgresStore) MarkChangeProcessed(ctx context.Context, changeID uint64) error {
	now := time.Now()
	return s.changeLog(ctx).
		Where("id = ?", changeID).
		Updates(map[string]any{
			"processed_at":  &now,
			"error_message": "",
		}).Error
}

// MarkChangeError records a failed replay and bumps the retry count.
func (s *PostgresStore) MarkChangeError(ctx context.Context, changeID uint64, errorMessage string) error {
	return s.changeLog(ctx).
		Where("id = ?", changeID).
		Updates(map[string]any{
			"error_message": errorMessage,
			"retry_count":   gorm.Expr("retry_count + 1"),
		}).Error
}

// GetChangeStats summarizes the tracking table in a single aggregate scan,
// using FILTER clauses so the counts and window bounds come back in one row.
func (s *PostgresStore) GetChangeStats(ctx context.Context) (*store.ChangeStats, error) {
	var row struct {
		TotalChanges     int64
		ProcessedChanges int64
		PendingChanges   int64
		FailedChanges    int64
		OldestPending    *time.Time
		LatestChange     *time.Time
	}
	err := s.changeLog(ctx).Select(
		"COUNT(*) AS total_changes, " +
			"COUNT(*) FILTER (WHERE processed_at IS NOT NULL AND error_message = '') AS processed_changes, " +
			"COUNT(*) FILTER (WHERE processed_at IS NULL) AS pending_changes, " +
			"COUNT(*) FILTER (WHERE error_message <> '') AS failed_changes, " +
			"MIN(changed_at) FILTER (WHERE processed_at IS NULL) AS oldest_pending, " +
			"MAX(changed_at) AS latest_change").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &store.ChangeStats{
		TotalChanges:      row.TotalChanges,
		ProcessedChanges:  row.ProcessedChanges,
		PendingChanges:    row.PendingChanges,
		FailedChanges:     row.FailedChanges,
		OldestPendingTime: row.OldestPending,
		LatestChangeTime:  row.LatestChange,
	}, nil
}

// PurgeProcessedChanges deletes successfully replayed rows older than the
// given time. Errored rows are kept regardless of age; they still need a
// retry or an operator's attention.
func (s *PostgresStore) PurgeProcessedChanges(ctx context.Context, before time.Time) error {
	return s.getDB().WithContext(ctx).
		Where("processed_at IS NOT NULL AND processed_at < ? AND error_message = ''", before).
		Delete(&models.ChangeTracking{}).Error
}
