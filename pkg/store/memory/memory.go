// Package memory provides an in-memory implementation of the
// [github.com/surrealdb/surrealcms/pkg/store.Store] interface.
//
// MemoryStore keeps every record in process-local maps guarded by a single
// RWMutex. It honors the full store contract, including cascading deletes
// and timestamp-window queries, which makes it the reference backend for
// tests: CQRS routing, synchronization and HTTP handler tests all run
// against it without a database. Nothing survives a restart, so it is not a
// production backend.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/surrealdb/surrealcms/pkg/models"
)

// MemoryStore holds all records in maps keyed by typed ID. Every method
// stores and returns copies, so callers can mutate what they get back
// without reaching into the store's state.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[models.UserID]*models.User
	projects  map[models.ProjectID]*models.Project
	pages     map[models.PageID]*models.Page
	databases map[models.DatabaseID]*models.Database
	entries   map[models.EntryID]*models.Entry
	assets    map[models.AssetID]*models.Asset
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[models.UserID]*models.User),
		projects:  make(map[models.ProjectID]*models.Project),
		pages:     make(map[models.PageID]*models.Page),
		databases: make(map[models.DatabaseID]*models.Database),
		entries:   make(map[models.EntryID]*models.Entry),
		assets:    make(map[models.AssetID]*models.Asset),
	}
}

// Migrate is a no-op; the maps need no schema.
func (m *MemoryStore) Migrate(ctx context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }

// inWindow reports whether either timestamp falls in [since, until).
func inWindow(createdAt, updatedAt, since, until time.Time) bool {
	in := func(t time.Time) bool { return !t.Before(since) && t.Before(until) }
	return in(createdAt) || in(updatedAt)
}

// User operations

func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = models.NewUserID()
	}
	if _, ok := m.users[user.ID]; ok {
		return fmt.Errorf("user %s already exists", user.ID)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = time.Now()
	}
	u := *user
	m.users[u.ID] = &u
	return nil
}

func (m *MemoryStore) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	u := *user
	return &u, nil
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Email == email {
			u := *user
			return &u, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return fmt.Errorf("user %s not found", user.ID)
	}
	user.UpdatedAt = time.Now()
	u := *user
	m.users[u.ID] = &u
	return nil
}

func (m *MemoryStore) DeleteUser(ctx context.Context, id models.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, id)
	return nil
}

// Project operations

func (m *MemoryStore) CreateProject(ctx context.Context, project *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if project.ID.IsZero() {
		project.ID = models.NewProjectID()
	}
	if _, ok := m.projects[project.ID]; ok {
		return fmt.Errorf("project %s already exists", project.ID)
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now()
	}
	if project.UpdatedAt.IsZero() {
		project.UpdatedAt = time.Now()
	}
	p := *project
	m.projects[p.ID] = &p
	return nil
}

func (m *MemoryStore) GetProject(ctx context.Context, id models.ProjectID) (*models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	project, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	p := *project
	return &p, nil
}

func (m *MemoryStore) UpdateProject(ctx context.Context, project *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[project.ID]; !ok {
		return fmt.Errorf("project %s not found", project.ID)
	}
	project.UpdatedAt = time.Now()
	p := *project
	m.projects[p.ID] = &p
	return nil
}

// DeleteProject removes the project and cascades to its pages, databases,
// entries and assets, mirroring the transactional cascade of the SQL store.
func (m *MemoryStore) DeleteProject(ctx context.Context, id models.ProjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for entryID, entry := range m.entries {
		if database, ok := m.databases[entry.DatabaseID]; ok && database.ProjectID == id {
			delete(m.entries, entryID)
		}
	}
	for databaseID, database := range m.databases {
		if database.ProjectID == id {
			delete(m.databases, databaseID)
		}
	}
	for pageID, page := range m.pages {
		if page.ProjectID == id {
			delete(m.pages, pageID)
		}
	}
	for assetID, asset := range m.assets {
		if asset.ProjectID == id {
			delete(m.assets, assetID)
		}
	}
	delete(m.projects, id)
	return nil
}

func (m *MemoryStore) ListProjects(ctx context.Context, ownerID models.UserID) ([]*models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	projects := []*models.Project{}
	for _, project := range m.projects {
		if project.OwnerID == ownerID {
			p := *project
			projects = append(projects, &p)
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})
	return projects, nil
}

// Page operations

func (m *MemoryStore) CreatePage(ctx context.Context, page *models.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if page.ID.IsZero() {
		page.ID = models.NewPageID()
	}
	if _, ok := m.pages[page.ID]; ok {
		return fmt.Errorf("page %s already exists", page.ID)
	}
	if page.CreatedAt.IsZero() {
		page.CreatedAt = time.Now()
	}
	if page.UpdatedAt.IsZero() {
		page.UpdatedAt = time.Now()
	}
	p := *page
	m.pages[p.ID] = &p
	return nil
}

func (m *MemoryStore) GetPage(ctx context.Context, id models.PageID) (*models.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	page, ok := m.pages[id]
	if !ok {
		return nil, nil
	}
	p := *page
	return &p, nil
}

func (m *MemoryStore) UpdatePage(ctx context.Context, page *models.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pages[page.ID]; !ok {
		return fmt.Errorf("page %s not found", page.ID)
	}
	page.UpdatedAt = time.Now()
	p := *page
	m.pages[p.ID] = &p
	return nil
}

func (m *MemoryStore) DeletePage(ctx context.Context, id models.PageID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.pages, id)
	return nil
}

func (m *MemoryStore) ListPages(ctx context.Context, projectID models.ProjectID) ([]*models.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pages := []*models.Page{}
	for _, page := range m.pages {
		if page.ProjectID == projectID {
			p := *page
			pages = append(pages, &p)
		}
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].CreatedAt.Before(pages[j].CreatedAt)
	})
	return pages, nil
}

// Database operations

func (m *MemoryStore) CreateDatabase(ctx context.Context, database *models.Database) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if database.ID.IsZero() {
		database.ID = models.NewDatabaseID()
	}
	if _, ok := m.databases[database.ID]; ok {
		return fmt.Errorf("database %s already exists", database.ID)
	}
	if database.CreatedAt.IsZero() {
		database.CreatedAt = time.Now()
	}
	if database.UpdatedAt.IsZero() {
		database.UpdatedAt = time.Now()
	}
	d := *database
	m.databases[d.ID] = &d
	return nil
}

func (m *MemoryStore) GetDatabase(ctx context.Context, id models.DatabaseID) (*models.Database, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	database, ok := m.databases[id]
	if !ok {
		return nil, nil
	}
	d := *database
	return &d, nil
}

func (m *MemoryStore) UpdateDatabase(ctx context.Context, database *models.Database) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.databases[database.ID]; !ok {
		return fmt.Errorf("database %s not found", database.ID)
	}
	database.UpdatedAt = time.Now()
	d := *database
	m.databases[d.ID] = &d
	return nil
}

// DeleteDatabase removes only the database record. Entries keep their
// database_id and become orphans, per the non-owning relationship.
func (m *MemoryStore) DeleteDatabase(ctx context.Context, id models.DatabaseID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.databases, id)
	return nil
}

func (m *MemoryStore) ListDatabases(ctx context.Context, projectID models.ProjectID) ([]*models.Database, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	databases := []*models.Database{}
	for _, database := range m.databases {
		if database.ProjectID == projectID {
			d := *database
			databases = append(databases, &d)
		}
	}
	sort.Slice(databases, func(i, j int) bool {
		return databases[i].CreatedAt.Before(databases[j].CreatedAt)
	})
	return databases, nil
}

// Entry operations

func (m *MemoryStore) CreateEntry(ctx context.Context, entry *models.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID.IsZero() {
		entry.ID = models.NewEntryID()
	}
	if _, ok := m.entries[entry.ID]; ok {
		return fmt.Errorf("entry %s already exists", entry.ID)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}
	e := *entry
	m.entries[e.ID] = &e
	return nil
}

func (m *MemoryStore) GetEntry(ctx context.Context, id models.EntryID) (*models.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	e := *entry
	return &e, nil
}

func (m *MemoryStore) UpdateEntry(ctx context.Context, entry *models.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[entry.ID]; !ok {
		return fmt.Errorf("entry %s not found", entry.ID)
	}
	entry.UpdatedAt = time.Now()
	e := *entry
	m.entries[e.ID] = &e
	return nil
}

func (m *MemoryStore) DeleteEntry(ctx context.Context, id models.EntryID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) ListEntries(ctx context.Context, databaseID models.DatabaseID) ([]*models.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := []*models.Entry{}
	for _, entry := range m.entries {
		if entry.DatabaseID == databaseID {
			e := *entry
			entries = append(entries, &e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

// Asset operations

func (m *MemoryStore) CreateAsset(ctx context.Context, asset *models.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if asset.ID.IsZero() {
		asset.ID = models.NewAssetID()
	}
	if _, ok := m.assets[asset.ID]; ok {
		return fmt.Errorf("asset %s already exists", asset.ID)
	}
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now()
	}
	if asset.UpdatedAt.IsZero() {
		asset.UpdatedAt = time.Now()
	}
	a := *asset
	m.assets[a.ID] = &a
	return nil
}

func (m *MemoryStore) GetAsset(ctx context.Context, id models.AssetID) (*models.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	asset, ok := m.assets[id]
	if !ok {
		return nil, nil
	}
	a := *asset
	return &a, nil
}

func (m *MemoryStore) UpdateAsset(ctx context.Context, asset *models.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.assets[asset.ID]; !ok {
		return fmt.Errorf("asset %s not found", asset.ID)
	}
	asset.UpdatedAt = time.Now()
	a := *asset
	m.assets[a.ID] = &a
	return nil
}

func (m *MemoryStore) DeleteAsset(ctx context.Context, id models.AssetID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.assets, id)
	return nil
}

func (m *MemoryStore) ListAssets(ctx context.Context, projectID models.ProjectID) ([]*models.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	assets := []*models.Asset{}
	for _, asset := range m.assets {
		if asset.ProjectID == projectID {
			a := *asset
			assets = append(assets, &a)
		}
	}
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].CreatedAt.Before(assets[j].CreatedAt)
	})
	return assets, nil
}

// Timestamp-based change detection

func (m *MemoryStore) ListModifiedUserIDs(ctx context.Context, since, until time.Time) ([]models.UserID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := []models.UserID{}
	for id, user := range m.users {
		if inWindow(user.CreatedAt, user.UpdatedAt, since, until) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MemoryStore) ListModifiedProjectIDs(ctx context.Context, since, until time.Time) ([]models.ProjectID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := []models.ProjectID{}
	for id, project := range m.projects {
		if inWindow(project.CreatedAt, project.UpdatedAt, since, until) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MemoryStore) ListModifiedPageIDs(ctx context.Context, since, until time.Time) ([]models.PageID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := []models.PageID{}
	for id, page := range m.pages {
		if inWindow(page.CreatedAt, page.UpdatedAt, since, until) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MemoryStore) ListModifiedDatabaseIDs(ctx context.Context, since, until time.Time) ([]models.DatabaseID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := []models.DatabaseID{}
	for id, database := range m.databases {
		if inWindow(database.CreatedAt, database.UpdatedAt, since, until) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MemoryStore) ListModifiedEntryIDs(ctx context.Context, since, until time.Time) ([]models.EntryID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := []models.EntryID{}
	for id, entry := range m.entries {
		if inWindow(entry.CreatedAt, entry.UpdatedAt, since, until) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MemoryStore) ListModifiedAssetIDs(ctx context.Context, since, until time.Time) ([]models.AssetID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := []models.AssetID{}
	for id, asset := range m.assets {
		if inWindow(asset.CreatedAt, asset.UpdatedAt, since, until) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
