package cqrs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/surrealdb/surrealcms/pkg/models"
	"github.com/surrealdb/surrealcms/pkg/store"
)

// MigrationMode defines how reads and writes are routed between the two stores.
type MigrationMode string

const (
	// ModeSingle operates with only the primary store, used before migration
	// starts or after it completes. No synchronization overhead.
	ModeSingle MigrationMode = "single"

	// ModeReadOnly rejects all write operations while reads continue from the
	// primary store. Used during the final catch-up sync at switchover.
	ModeReadOnly MigrationMode = "read_only"

	// ModeSwitching reads from the secondary store while writes still go to
	// the primary. Validates that the secondary can serve live traffic.
	ModeSwitching MigrationMode = "switching"

	// ModeReversed sends both reads and writes to the secondary store, with
	// the primary kept around for rollback until SwapStores commits.
	ModeReversed MigrationMode = "reversed"
)

// ParseMigrationMode validates a mode string from configuration.
func ParseMigrationMode(s string) (MigrationMode, error) {
	switch MigrationMode(s) {
	case ModeSingle, ModeReadOnly, ModeSwitching, ModeReversed:
		return MigrationMode(s), nil
	case "":
		return ModeSingle, nil
	default:
		return "", fmt.Errorf("unknown migration mode %q", s)
	}
}

// SyncStrategy defines how catch-up synchronization finds changed records.
type SyncStrategy string

const (
	// SyncStrategyTimestamp scans created_at/updated_at windows. Works with
	// any backend but may recopy unchanged records and cannot see deletes.
	SyncStrategyTimestamp SyncStrategy = "timestamp"

	// SyncStrategyChangeTracking replays the change log written by the
	// tracking store. Captures creates, updates and deletes exactly, but
	// requires the primary to implement store.ChangeTracker.
	SyncStrategyChangeTracking SyncStrategy = "change_tracking"
)

// CQRSStore implements the Store interface across a primary and a secondary
// backend without dual-writing.
//
// Writes always land on exactly one store (which one depends on the mode);
// the other store catches up through background synchronization. This keeps
// the failure model simple: there is no partially applied write spanning two
// databases, and rollback at any phase means pointing the mode back at the
// store that never stopped being correct.
type CQRSStore struct {
	primary      store.Store
	secondary    store.Store
	mode         MigrationMode
	syncStrategy SyncStrategy
	mu           sync.RWMutex
}

// NewCQRSStore pairs a primary and secondary store in the given starting mode.
// The sync strategy defaults to timestamp-based; call SetSyncStrategy to use
// change tracking when the primary supports it.
func NewCQRSStore(primary, secondary store.Store, mode MigrationMode) *CQRSStore {
	return &CQRSStore{
		primary:      primary,
		secondary:    secondary,
		mode:         mode,
		syncStrategy: SyncStrategyTimestamp,
	}
}

// SetMode changes the migration mode. Leaving read-only is restricted to the
// modes that preserve consistency: the final sync ran while writes were
// frozen, so the next step is either validating the secondary (switching) or
// abandoning the migration (single).
func (c *CQRSStore) SetMode(mode MigrationMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeReadOnly && mode != ModeSwitching && mode != ModeSingle {
		return fmt.Errorf("can only transition from read_only to switching or single mode")
	}

	c.mode = mode
	return nil
}

// GetMode returns the current migration mode.
func (c *CQRSStore) GetMode() MigrationMode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// SetSyncStrategy selects how SyncWithStrategy finds changes.
func (c *CQRSStore) SetSyncStrategy(strategy SyncStrategy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncStrategy = strategy
}

// GetSyncStrategy returns the current synchronization strategy.
func (c *CQRSStore) GetSyncStrategy() SyncStrategy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.syncStrategy
}

// SwapStores exchanges primary and secondary. Called after a successful
// migration so the old secondary becomes the new primary.
func (c *CQRSStore) SwapStores() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.primary, c.secondary = c.secondary, c.primary
}

// getReadStore returns the store that serves read operations in the current mode.
func (c *CQRSStore) getReadStore() store.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch c.mode {
	case ModeSwitching, ModeReversed:
		return c.secondary
	default:
		return c.primary
	}
}

// getWriteStore returns the store that accepts writes, or an error in
// read-only mode.
func (c *CQRSStore) getWriteStore() (store.Store, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.mode == ModeReadOnly {
		return nil, fmt.Errorf("system is in read-only mode during migration")
	}

	if c.mode == ModeReversed {
		return c.secondary, nil
	}

	return c.primary, nil
}

// Migrate runs schema migration on both stores so either can hold the full
// data set. The primary migrates first; a failure there leaves the secondary
// untouched.
func (c *CQRSStore) Migrate(ctx context.Context) error {
	if err := c.primary.Migrate(ctx); err != nil {
		return fmt.Errorf("primary migration failed: %w", err)
	}
	if c.secondary != nil {
		if err := c.secondary.Migrate(ctx); err != nil {
			return fmt.Errorf("secondary migration failed: %w", err)
		}
	}
	return nil
}

// Close closes both stores, returning the primary's error first if both fail.
func (c *CQRSStore) Close() error {
	var primaryErr, secondaryErr error

	primaryErr = c.primary.Close()
	if c.secondary != nil {
		secondaryErr = c.secondary.Close()
	}

	if primaryErr != nil {
		return primaryErr
	}
	return secondaryErr
}

// User operations

func (c *CQRSStore) CreateUser(ctx context.Context, user *models.User) error {
	s, err := c.getWriteStore()
	if err != nil {
		return err
	}
	return s.CreateUser(ctx, user)
}

func (c *CQRSStore) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	return c.getReadStore().GetUser(ctx, id)
}

func (c *CQRSStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return c.getReadStore().GetUserByEmail(ctx, email)
}

func (c *CQRSStore) UpdateUser(ctx context.Context, user *models.User) error {
	s, err := c.getWriteStore()
	if err != nil {
		return err
	}
	return s.UpdateUser(ctx, user)
}

func (c *CQRSStore) DeleteUser(ctx context.Context, id models.UserID) error {
	s, err := c.getWriteStore()
	if err != nil {
		return err
	}
	return s.DeleteUser(ctx, id)
}

// Project operations

func (c *CQRSStore) CreateProject(ctx context.Context, project *models.Project) error {
	s, err := c.getWriteStore()
	if err != nil {
		return err
	}
	return s.CreateProject(ctx, project)
}

func (c *CQRSStore) GetProject(ctx context.Context, id models.ProjectID) (*models.Project, error) {
	return c.getReadStore().GetProject(ctx, id)
}

func (c *CQRSStore) UpdateProject(ctx context.Context, project *models.Project) error {
	s, err := c.getWriteStore()
	if err != nil {
		return err
	}
	return s.UpdateProject(ctx, project)
}

func (c *CQRSStore) DeleteProject(ctx context.Context, id models.ProjectID) error {
	s, err := c.getWriteStore()
	if err != nil {
		return err
	}
	return s.DeleteProject(ctx, id)
}

func (c *CQRSStore) ListProjects(ctx context.Context, ownerID models.UserID) ([]*models.Project, error) {
	return c.getReadStore().ListProjects(ctx, ownerID)
}

// Page operations

func (c *CQRSStore) CreatePage(ctx context.Context, page *models.Page) error {
	s, err := c.getWriteStore()
	if err != nil {
		return err
	}
	return s.CreatePage(ctx, page)
}

func (c *CQRSStore) GetPage(ctx context.Context, id models.PageID) (*models.Page, error) {
	return c.getReadStore().GetPage(ctx, id)
}

func (c *CQRSStore) UpdatePage(ctx context.Context, page *models.Page) error {
	s, err := c.getWriteStore()
	if err != nil {
		return err
	}
	return s.UpdatePage(ctx, page)
}

func (c *CQRSStore) DeletePage(ctx context.Context, id models.PageID) error {
	s, err := c.getWriteStore()
	if err != nil {
		return err
	}
	return s.DeletePage(ctx, id)
}

func (c *CQRSStore) ListPages(ctx context.Context, projectID models.ProjectID) ([]*models.Page, error) {
	return c.getReadStore().ListPages(ctx, projectID)
}

// Database operations

func (c *CQRSStore) CreateDatabase(ctx context.Context, database *models.Database) error {
	s, err := c.getWriteStore()
	if err != nil {
		return err
	}
	return s.CreateDatabase(ctx, database)
}

func (c *CQRSStore) GetDatabase(ctx context.Context, id models.DatabaseID) (*models.Database, error) {
	return c.getReadStore().GetDatabase(ctx, id)
}

func (c *CQRSStore) UpdateDatabase(ctx context.Context, database *models.Database) error {
	s, err := c.getWriteStore()
	if err != nil {
		return err
	}
	return s.UpdateDatabase(ctx, database)
}

func (c *CQRSStore) DeleteDatabase(ctx context.Context, id models.DatabaseID) error {
	s, err := c.getWriteStore()
	if err != nil {
		return err
	}
	return s.DeleteDatabase(ctx, id)
}

func (c *CQRSStore) ListDatabases(ctx context.Context, projectID models.ProjectID) ([]*models.Database, error) {
	return c.getReadStore().ListDatabases(ctx, projectID)
}

// Entry operations

func (c *CQRSStore) CreateEntry(ctx context.Context, entry *models.Entry) error {
	s, err := c.getWriteStore()
	if err != nil {
		return err
	}
	return s.CreateEntry(ctx, entry)
}

func (c *CQRSStore) GetEntry(ctx context.Context, id models.EntryID) (*models.Entry, error) {
	return c.getReadStore().GetEntry(ctx, id)
}

func (c *CQRSStore) UpdateEntry(ctx context.Context, entry *models.Entry) error {
	s, err := c.getWriteStore()
	if err != nil {
		return err
	}
	return s.UpdateEntry(ctx, entry)
}

func (c *CQRSStore) DeleteEntry(ctx context.Context, id models.EntryID) error {
	s, err := c.getWriteStore()
	if err != nil {
		return err
	}
	return s.DeleteEntry(ctx, id)
}

func (c *CQRSStore) ListEntries(ctx context.Context, databaseID models.DatabaseID) ([]*models.Entry, error) {
	return c.getReadStore().ListEntries(ctx, databaseID)
}

// Asset operations

func (c *CQRSStore) CreateAsset(ctx context.Context, asset *models.Asset) error {
	s, err := c.getWriteStore()
	if err != nil {
		return err
	}
	return s.CreateAsset(ctx, asset)
}

func (c *CQRSStore) GetAsset(ctx context.Context, id models.AssetID) (*models.Asset, error) {
	return c.getReadStore().GetAsset(ctx, id)
}

func (c *CQRSStore) UpdateAsset(ctx context.Context, asset *models.Asset) error {
	s, err := c.getWriteStore()
	if err != nil {
		return err
	}
	return s.UpdateAsset(ctx, asset)
}

func (c *CQRSStore) DeleteAsset(ctx context.Context, id models.AssetID) error {
	s, err := c.getWriteStore()
	if err != nil {
		return err
	}
	return s.DeleteAsset(ctx, id)
}

func (c *CQRSStore) ListAssets(ctx context.Context, projectID models.ProjectID) ([]*models.Asset, error) {
	return c.getReadStore().ListAssets(ctx, projectID)
}

// Timestamp-based catch-up queries answer from the primary store. The sync
// helpers address source and destination explicitly, so these methods exist
// for interface completeness.

func (c *CQRSStore) ListModifiedUserIDs(ctx context.Context, since, until time.Time) ([]models.UserID, error) {
	return c.primary.ListModifiedUserIDs(ctx, since, until)
}

func (c *CQRSStore) ListModifiedProjectIDs(ctx context.Context, since, until time.Time) ([]models.ProjectID, error) {
	return c.primary.ListModifiedProjectIDs(ctx, since, until)
}

func (c *CQRSStore) ListModifiedPageIDs(ctx context.Context, since, until time.Time) ([]models.PageID, error) {
	return c.primary.ListModifiedPageIDs(ctx, since, until)
}

func (c *CQRSStore) ListModifiedDatabaseIDs(ctx context.Context, since, until time.Time) ([]models.DatabaseID, error) {
	return c.primary.ListModifiedDatabaseIDs(ctx, since, until)
}

func (c *CQRSStore) ListModifiedEntryIDs(ctx context.Context, since, until time.Time) ([]models.EntryID, error) {
	return c.primary.ListModifiedEntryIDs(ctx, since, until)
}

func (c *CQRSStore) ListModifiedAssetIDs(ctx context.Context, since, until time.Time) ([]models.AssetID, error) {
	return c.primary.ListModifiedAssetIDs(ctx, since, until)
}
