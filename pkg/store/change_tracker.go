package store

import (
	"context"
	"time"

	"github.com/surrealdb/surrealcms/pkg/models"
)

// ChangeTracker is implemented by stores that maintain a change tracking
// table alongside the domain tables. The CQRS store prefers this over
// timestamp scans when the source store supports it: the table captures
// deletes, which timestamps cannot.
type ChangeTracker interface {
	// RecordChange appends a change record. Implementations call this in
	// the same transaction as the data modification so the log never
	// disagrees with the tables.
	RecordChange(ctx context.Context, entityType string, entityID string, operation models.ChangeOperation, payload models.JSONMap) error

	// ListUnprocessedChanges returns changes not yet synchronized, ordered
	// by ChangedAt for sequential replay.
	ListUnprocessedChanges(ctx context.Context, limit int) ([]*models.ChangeTracking, error)

	// ListChangesSince returns changes recorded at or after the given
	// time, for catch-up after an outage.
	ListChangesSince(ctx context.Context, since time.Time, limit int) ([]*models.ChangeTracking, error)

	// MarkChangeProcessed records a successful replay of the change.
	MarkChangeProcessed(ctx context.Context, changeID uint64) error

	// MarkChangeError records a failed replay and increments the retry
	// count.
	MarkChangeError(ctx context.Context, changeID uint64, errorMessage string) error

	// GetChangeStats summarizes the state of the tracking table.
	GetChangeStats(ctx context.Context) (*ChangeStats, error)

	// PurgeProcessedChanges deletes processed records older than the given
	// time, bounding table growth while keeping a retention window for
	// audit.
	PurgeProcessedChanges(ctx context.Context, before time.Time) error
}

// ChangeStats summarizes the change tracking table.
type ChangeStats struct {
	TotalChanges      int64
	ProcessedChanges  int64
	PendingChanges    int64
	FailedChanges     int64
	OldestPendingTime *time.Time
	LatestChangeTime  *time.Time
}
