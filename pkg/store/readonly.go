package store

import (
	"context"
	"errors"

	"github.com/surrealdb/surrealcms/pkg/models"
)

// ReadOnlyStore wraps a Store and rejects write operations while the
// isReadOnly function reports true.
//
// The wrapper serves the final catch-up phase of a store migration: writes
// are blocked so the target can drain the remaining differences, then the
// flag flips back and normal operation resumes without recreating the
// store. Read operations always pass through.
type ReadOnlyStore struct {
	Store
	isReadOnly func() bool
}

// NewReadOnlyStore wraps a store with a dynamic read-only switch.
func NewReadOnlyStore(store Store, isReadOnly func() bool) Store {
	return &ReadOnlyStore{
		Store:      store,
		isReadOnly: isReadOnly,
	}
}

// Unwrap returns the underlying store.
func (r *ReadOnlyStore) Unwrap() Store {
	return r.Store
}

// guard runs the write unless the switch is on. The error text surfaces
// verbatim through the API.
func (r *ReadOnlyStore) guard(write func() error) error {
	if r.isReadOnly() {
		return errors.New("write rejected: store is in read-only mode")
	}
	return write()
}

func (r *ReadOnlyStore) CreateUser(ctx context.Context, user *models.User) error {
	return r.guard(func() error { return r.Store.CreateUser(ctx, user) })
}

func (r *ReadOnlyStore) UpdateUser(ctx context.Context, user *models.User) error {
	return r.guard(func() error { return r.Store.UpdateUser(ctx, user) })
}

func (r *ReadOnlyStore) DeleteUser(ctx context.Context, id models.UserID) error {
	return r.guard(func() error { return r.Store.DeleteUser(ctx, id) })
}

func (r *ReadOnlyStore) CreateProject(ctx context.Context, project *models.Project) error {
	return r.guard(func() error { return r.Store.CreateProject(ctx, project) })
}

func (r *ReadOnlyStore) UpdateProject(ctx context.Context, project *models.Project) error {
	return r.guard(func() error { return r.Store.UpdateProject(ctx, project) })
}

func (r *ReadOnlyStore) DeleteProject(ctx context.Context, id models.ProjectID) error {
	return r.guard(func() error { return r.Store.DeleteProject(ctx, id) })
}

func (r *ReadOnlyStore) CreatePage(ctx context.Context, page *models.Page) error {
	return r.guard(func() error { return r.Store.CreatePage(ctx, page) })
}

func (r *ReadOnlyStore) UpdatePage(ctx context.Context, page *models.Page) error {
	return r.guard(func() error { return r.Store.UpdatePage(ctx, page) })
}

func (r *ReadOnlyStore) DeletePage(ctx context.Context, id models.PageID) error {
	return r.guard(func() error { return r.Store.DeletePage(ctx, id) })
}

func (r *ReadOnlyStore) CreateDatabase(ctx context.Context, database *models.Database) error {
	return r.guard(func() error { return r.Store.CreateDatabase(ctx, database) })
}

func (r *ReadOnlyStore) UpdateDatabase(ctx context.Context, database *models.Database) error {
	return r.guard(func() error { return r.Store.UpdateDatabase(ctx, database) })
}

func (r *ReadOnlyStore) DeleteDatabase(ctx context.Context, id models.DatabaseID) error {
	return r.guard(func() error { return r.Store.DeleteDatabase(ctx, id) })
}

func (r *ReadOnlyStore) CreateEntry(ctx context.Context, entry *models.Entry) error {
	return r.guard(func() error { return r.Store.CreateEntry(ctx, entry) })
}

func (r *ReadOnlyStore) UpdateEntry(ctx context.Context, entry *models.Entry) error {
	return r.guard(func() error { return r.Store.UpdateEntry(ctx, entry) })
}

func (r *ReadOnlyStore) DeleteEntry(ctx context.Context, id models.EntryID) error {
	return r.guard(func() error { return r.Store.DeleteEntry(ctx, id) })
}

func (r *ReadOnlyStore) CreateAsset(ctx context.Context, asset *models.Asset) error {
	return r.guard(func() error { return r.Store.CreateAsset(ctx, asset) })
}

func (r *ReadOnlyStore) UpdateAsset(ctx context.Context, asset *models.Asset) error {
	return r.guard(func() error { return r.Store.UpdateAsset(ctx, asset) })
}

func (r *ReadOnlyStore) DeleteAsset(ctx context.Context, id models.AssetID) error {
	return r.guard(func() error { return r.Store.DeleteAsset(ctx, id) })
}

// Migrate counts as a write: schema changes during the frozen window would
// leave the two sides disagreeing about table shapes.
func (r *ReadOnlyStore) Migrate(ctx context.Context) error {
	return r.guard(func() error { return r.Store.Migrate(ctx) })
}

// Read operations and the ListModified*IDs methods pass through via the
// embedded Store.
