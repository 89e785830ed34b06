package cqrs_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surrealdb/surrealcms/pkg/models"
	"github.com/surrealdb/surrealcms/pkg/store"
	"github.com/surrealdb/surrealcms/pkg/store/cqrs"
	"github.com/surrealdb/surrealcms/pkg/store/memory"
)

// trackingStore is a memory store with an in-process change log, standing in
// for postgres.TrackingStore in replay tests.
type trackingStore struct {
	*memory.MemoryStore

	mu      sync.Mutex
	nextID  uint64
	changes []*models.ChangeTracking
}

var _ store.ChangeTracker = (*trackingStore)(nil)

func newTrackingStore() *trackingStore {
	return &trackingStore{MemoryStore: memory.NewMemoryStore()}
}

func (ts *trackingStore) addChange(entityType, entityID string, op models.ChangeOperation, payload models.JSONMap, at time.Time) *models.ChangeTracking {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.nextID++
	change := &models.ChangeTracking{
		ID:         ts.nextID,
		EntityType: entityType,
		EntityID:   entityID,
		Operation:  op,
		ChangedAt:  at,
		Payload:    payload,
	}
	ts.changes = append(ts.changes, change)
	return change
}

func (ts *trackingStore) RecordChange(ctx context.Context, entityType, entityID string, operation models.ChangeOperation, payload models.JSONMap) error {
	ts.addChange(entityType, entityID, operation, payload, time.Now())
	return nil
}

func (ts *trackingStore) ListUnprocessedChanges(ctx context.Context, limit int) ([]*models.ChangeTracking, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	result := []*models.ChangeTracking{}
	for _, c := range ts.changes {
		if c.ProcessedAt == nil {
			result = append(result, c)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (ts *trackingStore) ListChangesSince(ctx context.Context, since time.Time, limit int) ([]*models.ChangeTracking, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	result := []*models.ChangeTracking{}
	for _, c := range ts.changes {
		if !c.ChangedAt.Before(since) {
			result = append(result, c)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (ts *trackingStore) find(changeID uint64) *models.ChangeTracking {
	for _, c := range ts.changes {
		if c.ID == changeID {
			return c
		}
	}
	return nil
}

func (ts *trackingStore) MarkChangeProcessed(ctx context.Context, changeID uint64) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	c := ts.find(changeID)
	if c == nil {
		return fmt.Errorf("change %d not found", changeID)
	}
	now := time.Now()
	c.ProcessedAt = &now
	return nil
}

func (ts *trackingStore) MarkChangeError(ctx context.Context, changeID uint64, errorMessage string) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	c := ts.find(changeID)
	if c == nil {
		return fmt.Errorf("change %d not found", changeID)
	}
	c.ErrorMessage = errorMessage
	c.RetryCount++
	return nil
}

func (ts *trackingStore) GetChangeStats(ctx context.Context) (*store.ChangeStats, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	stats := &store.ChangeStats{}
	for _, c := range ts.changes {
		stats.TotalChanges++
		if c.ProcessedAt != nil {
			stats.ProcessedChanges++
		} else {
			stats.PendingChanges++
		}
		if c.ErrorMessage != "" {
			stats.FailedChanges++
		}
	}
	return stats, nil
}

func (ts *trackingStore) PurgeProcessedChanges(ctx context.Context, before time.Time) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	kept := ts.changes[:0]
	for _, c := range ts.changes {
		if c.ProcessedAt != nil && c.ProcessedAt.Before(before) {
			continue
		}
		kept = append(kept, c)
	}
	ts.changes = kept
	return nil
}

// payloadFor builds the JSON snapshot that TrackingStore records alongside
// each write.
func payloadFor(t *testing.T, entity any) models.JSONMap {
	t.Helper()
	raw, err := json.Marshal(entity)
	require.NoError(t, err)
	var payload models.JSONMap
	require.NoError(t, json.Unmarshal(raw, &payload))
	return payload
}

func TestSyncMissedUpdatesCopiesAllEntities(t *testing.T) {
	ctx := context.Background()
	primary := memory.NewMemoryStore()
	secondary := memory.NewMemoryStore()
	cs := cqrs.NewCQRSStore(primary, secondary, cqrs.ModeSingle)

	user := &models.User{Email: "owner@example.com", Name: "Owner"}
	require.NoError(t, primary.CreateUser(ctx, user))
	project := &models.Project{Name: "Site", OwnerID: user.ID}
	require.NoError(t, primary.CreateProject(ctx, project))
	page := &models.Page{ProjectID: project.ID, Title: "Home"}
	require.NoError(t, primary.CreatePage(ctx, page))
	database := &models.Database{ProjectID: project.ID, Name: "Tasks", DefaultView: models.ViewTable}
	require.NoError(t, primary.CreateDatabase(ctx, database))
	entry := &models.Entry{DatabaseID: database.ID, Data: `{"title": "First"}`}
	require.NoError(t, primary.CreateEntry(ctx, entry))
	asset := &models.Asset{ProjectID: project.ID, Name: "logo.png", URL: "https://cdn.example.com/logo.png"}
	require.NoError(t, primary.CreateAsset(ctx, asset))

	since := time.Now().Add(-time.Hour)
	until := time.Now().Add(time.Hour)
	require.NoError(t, cs.SyncMissedUpdates(ctx, since, until))

	gotUser, err := secondary.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, gotUser)
	gotProject, err := secondary.GetProject(ctx, project.ID)
	require.NoError(t, err)
	require.NotNil(t, gotProject)
	gotPage, err := secondary.GetPage(ctx, page.ID)
	require.NoError(t, err)
	assert.NotNil(t, gotPage)
	gotDatabase, err := secondary.GetDatabase(ctx, database.ID)
	require.NoError(t, err)
	assert.NotNil(t, gotDatabase)
	gotEntry, err := secondary.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.NotNil(t, gotEntry)
	gotAsset, err := secondary.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.NotNil(t, gotAsset)

	// A second pass over the same window updates in place instead of
	// duplicating.
	project.Name = "Site v2"
	require.NoError(t, primary.UpdateProject(ctx, project))
	require.NoError(t, cs.SyncMissedUpdates(ctx, since, time.Now().Add(time.Hour)))

	projects, err := secondary.ListProjects(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Site v2", projects[0].Name)
}

func TestSyncMissedUpdatesWindow(t *testing.T) {
	ctx := context.Background()
	primary := memory.NewMemoryStore()
	secondary := memory.NewMemoryStore()
	cs := cqrs.NewCQRSStore(primary, secondary, cqrs.ModeSingle)

	stale := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	old := &models.User{Email: "old@example.com", Name: "Old", CreatedAt: stale, UpdatedAt: stale}
	require.NoError(t, primary.CreateUser(ctx, old))
	fresh := &models.User{Email: "fresh@example.com", Name: "Fresh"}
	require.NoError(t, primary.CreateUser(ctx, fresh))

	since := time.Now().Add(-time.Hour)
	until := time.Now().Add(time.Hour)
	require.NoError(t, cs.SyncMissedUpdates(ctx, since, until))

	got, err := secondary.GetUser(ctx, fresh.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	got, err = secondary.GetUser(ctx, old.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Touching the stale record pulls it into the next window.
	require.NoError(t, primary.UpdateUser(ctx, old))
	require.NoError(t, cs.SyncMissedUpdates(ctx, since, time.Now().Add(time.Hour)))

	got, err = secondary.GetUser(ctx, old.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestReverseSyncMissedUpdates(t *testing.T) {
	ctx := context.Background()
	primary := memory.NewMemoryStore()
	secondary := memory.NewMemoryStore()
	cs := cqrs.NewCQRSStore(primary, secondary, cqrs.ModeSingle)

	user := &models.User{Email: "back@example.com", Name: "Back"}
	require.NoError(t, secondary.CreateUser(ctx, user))

	require.NoError(t, cs.ReverseSyncMissedUpdates(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour)))

	got, err := primary.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestSyncWithStrategyRejectsUnknown(t *testing.T) {
	cs := cqrs.NewCQRSStore(memory.NewMemoryStore(), memory.NewMemoryStore(), cqrs.ModeSingle)
	cs.SetSyncStrategy(cqrs.SyncStrategy("bogus"))

	err := cs.SyncWithStrategy(context.Background(), time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sync strategy")
}

func TestSyncFromChangeTrackingReplaysLog(t *testing.T) {
	ctx := context.Background()
	tracker := newTrackingStore()
	secondary := memory.NewMemoryStore()
	cs := cqrs.NewCQRSStore(tracker, secondary, cqrs.ModeSingle)
	cs.SetSyncStrategy(cqrs.SyncStrategyChangeTracking)

	now := time.Now()
	user := &models.User{ID: models.NewUserID(), Email: "owner@example.com", Name: "Owner", CreatedAt: now, UpdatedAt: now}
	project := &models.Project{ID: models.NewProjectID(), Name: "Docs", OwnerID: user.ID, CreatedAt: now, UpdatedAt: now}
	renamed := *project
	renamed.Name = "Docs v2"
	dropped := &models.User{ID: models.NewUserID(), Email: "gone@example.com", Name: "Gone", CreatedAt: now, UpdatedAt: now}

	c1 := tracker.addChange("user", user.ID.String(), models.ChangeOperationCreate, payloadFor(t, user), now)
	c2 := tracker.addChange("project", project.ID.String(), models.ChangeOperationCreate, payloadFor(t, project), now)
	c3 := tracker.addChange("project", project.ID.String(), models.ChangeOperationUpdate, payloadFor(t, &renamed), now.Add(time.Second))
	c4 := tracker.addChange("user", dropped.ID.String(), models.ChangeOperationCreate, payloadFor(t, dropped), now.Add(time.Second))
	c5 := tracker.addChange("user", dropped.ID.String(), models.ChangeOperationDelete, nil, now.Add(2*time.Second))
	future := tracker.addChange("user", user.ID.String(), models.ChangeOperationUpdate, payloadFor(t, user), now.Add(time.Hour))

	require.NoError(t, cs.SyncFromChangeTracking(ctx, now.Add(-time.Minute), now.Add(time.Minute)))

	gotUser, err := secondary.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, gotUser)
	assert.Equal(t, "owner@example.com", gotUser.Email)

	gotProject, err := secondary.GetProject(ctx, project.ID)
	require.NoError(t, err)
	require.NotNil(t, gotProject)
	assert.Equal(t, "Docs v2", gotProject.Name)

	gotDropped, err := secondary.GetUser(ctx, dropped.ID)
	require.NoError(t, err)
	assert.Nil(t, gotDropped)

	for _, c := range []*models.ChangeTracking{c1, c2, c3, c4, c5} {
		assert.NotNil(t, c.ProcessedAt, "change %d should be processed", c.ID)
	}
	// Changes past the window stay pending for the next pass.
	assert.Nil(t, future.ProcessedAt)
}

func TestSyncFromChangeTrackingMarksFailures(t *testing.T) {
	ctx := context.Background()
	tracker := newTrackingStore()
	secondary := memory.NewMemoryStore()
	cs := cqrs.NewCQRSStore(tracker, secondary, cqrs.ModeSingle)
	cs.SetSyncStrategy(cqrs.SyncStrategyChangeTracking)

	now := time.Now()
	bad := tracker.addChange("gadget", "g1", models.ChangeOperationCreate, models.JSONMap{"name": "widget"}, now)
	user := &models.User{ID: models.NewUserID(), Email: "ok@example.com", Name: "OK", CreatedAt: now, UpdatedAt: now}
	good := tracker.addChange("user", user.ID.String(), models.ChangeOperationCreate, payloadFor(t, user), now)

	// One poisoned change must not stall the rest of the log.
	require.NoError(t, cs.SyncFromChangeTracking(ctx, now.Add(-time.Minute), now.Add(time.Minute)))

	assert.Nil(t, bad.ProcessedAt)
	assert.Contains(t, bad.ErrorMessage, "unknown entity type")
	assert.Equal(t, 1, bad.RetryCount)

	assert.NotNil(t, good.ProcessedAt)
	got, err := secondary.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestSyncFromChangeTrackingIsIdempotent(t *testing.T) {
	ctx := context.Background()
	tracker := newTrackingStore()
	secondary := memory.NewMemoryStore()
	cs := cqrs.NewCQRSStore(tracker, secondary, cqrs.ModeSingle)
	cs.SetSyncStrategy(cqrs.SyncStrategyChangeTracking)

	now := time.Now()
	user := &models.User{ID: models.NewUserID(), Email: "twice@example.com", Name: "Twice", CreatedAt: now, UpdatedAt: now}
	tracker.addChange("user", user.ID.String(), models.ChangeOperationCreate, payloadFor(t, user), now)

	since := now.Add(-time.Minute)
	until := now.Add(time.Minute)
	require.NoError(t, cs.SyncFromChangeTracking(ctx, since, until))
	require.NoError(t, cs.SyncFromChangeTracking(ctx, since, until))

	got, err := secondary.GetUserByEmail(ctx, "twice@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
}

func TestSyncFromChangeTrackingFallsBackToTimestamps(t *testing.T) {
	ctx := context.Background()
	primary := memory.NewMemoryStore()
	secondary := memory.NewMemoryStore()
	cs := cqrs.NewCQRSStore(primary, secondary, cqrs.ModeSingle)
	cs.SetSyncStrategy(cqrs.SyncStrategyChangeTracking)

	user := &models.User{Email: "fallback@example.com", Name: "Fallback"}
	require.NoError(t, primary.CreateUser(ctx, user))

	// The primary keeps no change log, so the sync degrades to the
	// timestamp scan.
	require.NoError(t, cs.SyncFromChangeTracking(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour)))

	got, err := secondary.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestGetSyncStats(t *testing.T) {
	ctx := context.Background()
	tracker := newTrackingStore()
	cs := cqrs.NewCQRSStore(tracker, memory.NewMemoryStore(), cqrs.ModeSingle)

	now := time.Now()
	done := tracker.addChange("user", "u1", models.ChangeOperationCreate, nil, now)
	tracker.addChange("user", "u2", models.ChangeOperationCreate, nil, now)
	require.NoError(t, tracker.MarkChangeProcessed(ctx, done.ID))

	stats, err := cs.GetSyncStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalChanges)
	assert.Equal(t, int64(1), stats.ProcessedChanges)
	assert.Equal(t, int64(1), stats.PendingChanges)

	plain := cqrs.NewCQRSStore(memory.NewMemoryStore(), memory.NewMemoryStore(), cqrs.ModeSingle)
	_, err = plain.GetSyncStats(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "change tracking")
}

func TestStartContinuousSync(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	primary := memory.NewMemoryStore()
	secondary := memory.NewMemoryStore()
	cs := cqrs.NewCQRSStore(primary, secondary, cqrs.ModeSingle)

	cs.StartContinuousSync(ctx, 10*time.Millisecond)

	// Let the loop record its starting point before writing, so the write
	// falls inside the first sync window.
	time.Sleep(50 * time.Millisecond)
	user := &models.User{Email: "ticker@example.com", Name: "Ticker"}
	require.NoError(t, primary.CreateUser(ctx, user))

	require.Eventually(t, func() bool {
		got, err := secondary.GetUser(ctx, user.ID)
		return err == nil && got != nil
	}, 3*time.Second, 20*time.Millisecond)
}
