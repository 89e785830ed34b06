// Package store defines the persistence abstraction for the surrealcms
// application.
//
// The [Store] interface lets the application run against different database
// backends behind one API. Three implementations exist:
//
//   - [github.com/surrealdb/surrealcms/pkg/store/postgres.PostgresStore] uses
//     GORM for relational operations with ACID transactions.
//   - [github.com/surrealdb/surrealcms/pkg/store/surrealdb.SurrealStoreCBOR]
//     uses native SurrealQL over the CBOR protocol without an ORM.
//   - [github.com/surrealdb/surrealcms/pkg/store/cqrs.CQRSStore] coordinates
//     dual writes between the two for zero-downtime migration.
//
// Page content, database schemas, and entry data cross this boundary as
// opaque serialized strings. The store never parses them; round-trip
// fidelity and malformed-content recovery belong to the content and editor
// packages.
//
// The ListModified*IDs methods exist for the CQRS store's timestamp-based
// catch-up synchronization. Single-store deployments never call them, but
// every backend implements them so any store can serve as a migration
// source or target.
package store

import (
	"context"
	"time"

	"github.com/surrealdb/surrealcms/pkg/models"
)

// Store is the complete persistence interface for the surrealcms domain:
// users, projects, and the pages, databases, entries, and assets within a
// project.
//
// Contracts shared by every implementation:
//
//   - Create methods accept entities with caller-generated IDs and generate
//     one when the ID is zero. Timestamps are managed by the store.
//   - Get methods return nil without error for missing records; errors are
//     reserved for connection and query failures.
//   - Update methods replace the whole entity, not selected fields, and
//     fail if no record matches the ID.
//   - List methods return empty slices for no results, never nil.
//   - All methods take a context.Context and respect its cancellation.
type Store interface {
	// User operations. Email is unique across users and serves as the
	// login identifier.

	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser returns the user with the given ID, or nil if none exists.
	GetUser(ctx context.Context, id models.UserID) (*models.User, error)

	// GetUserByEmail returns the user with the given email address, or nil
	// if none exists. Used by authentication lookups.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateUser replaces an existing user account.
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser removes a user account. Projects owned by the user are
	// not cascaded; the application decides their fate first.
	DeleteUser(ctx context.Context, id models.UserID) error

	// Project operations. Projects are the top-level containers owning
	// pages, databases, and assets.

	// CreateProject persists a new project. OwnerID must reference an
	// existing user.
	CreateProject(ctx context.Context, project *models.Project) error

	// GetProject returns the project with the given ID, or nil if none
	// exists.
	GetProject(ctx context.Context, id models.ProjectID) (*models.Project, error)

	// UpdateProject replaces an existing project. OwnerID is immutable
	// after creation.
	UpdateProject(ctx context.Context, project *models.Project) error

	// DeleteProject removes a project and everything under it: pages,
	// databases with their entries, and assets.
	DeleteProject(ctx context.Context, id models.ProjectID) error

	// ListProjects returns all projects owned by the given user, ordered
	// by creation time.
	ListProjects(ctx context.Context, ownerID models.UserID) ([]*models.Project, error)

	// Page operations. A page's block sequence travels in the opaque
	// Content string; the store does not interpret it.

	// CreatePage persists a new page under its project.
	CreatePage(ctx context.Context, page *models.Page) error

	// GetPage returns the page with the given ID, or nil if none exists.
	GetPage(ctx context.Context, id models.PageID) (*models.Page, error)

	// UpdatePage replaces an existing page. ProjectID is immutable after
	// creation.
	UpdatePage(ctx context.Context, page *models.Page) error

	// DeletePage removes a page. Database reference blocks elsewhere that
	// point into the page are not touched; they resolve to not-found.
	DeletePage(ctx context.Context, id models.PageID) error

	// ListPages returns all pages within the given project, ordered by
	// creation time.
	ListPages(ctx context.Context, projectID models.ProjectID) ([]*models.Page, error)

	// Database operations. A database's property schema travels in the
	// opaque Schema string.

	// CreateDatabase persists a new user-defined database under its
	// project.
	CreateDatabase(ctx context.Context, database *models.Database) error

	// GetDatabase returns the database with the given ID, or nil if none
	// exists.
	GetDatabase(ctx context.Context, id models.DatabaseID) (*models.Database, error)

	// UpdateDatabase replaces an existing database. ProjectID is immutable
	// after creation.
	UpdateDatabase(ctx context.Context, database *models.Database) error

	// DeleteDatabase removes a database. Its entries are not cascaded;
	// they stay fetchable by ID as orphans. Pages keep any reference
	// blocks pointing at the database; they resolve to not-found
	// afterwards.
	DeleteDatabase(ctx context.Context, id models.DatabaseID) error

	// ListDatabases returns all databases within the given project,
	// ordered by creation time.
	ListDatabases(ctx context.Context, projectID models.ProjectID) ([]*models.Database, error)

	// Entry operations. An entry's property values travel in the opaque
	// Data string, keyed by property name.

	// CreateEntry persists a new entry under its database.
	CreateEntry(ctx context.Context, entry *models.Entry) error

	// GetEntry returns the entry with the given ID, or nil if none exists.
	GetEntry(ctx context.Context, id models.EntryID) (*models.Entry, error)

	// UpdateEntry replaces an existing entry. DatabaseID is immutable
	// after creation.
	UpdateEntry(ctx context.Context, entry *models.Entry) error

	// DeleteEntry removes an entry.
	DeleteEntry(ctx context.Context, id models.EntryID) error

	// ListEntries returns all entries within the given database, ordered
	// by creation time. Text search over entries happens above the store,
	// in the editor package, because values live inside the opaque Data
	// string.
	ListEntries(ctx context.Context, databaseID models.DatabaseID) ([]*models.Entry, error)

	// Asset operations. Assets record references to files uploaded through
	// the external storage collaborator; the bytes themselves never pass
	// through the store.

	// CreateAsset persists a new asset reference under its project.
	CreateAsset(ctx context.Context, asset *models.Asset) error

	// GetAsset returns the asset with the given ID, or nil if none exists.
	GetAsset(ctx context.Context, id models.AssetID) (*models.Asset, error)

	// UpdateAsset replaces an existing asset reference.
	UpdateAsset(ctx context.Context, asset *models.Asset) error

	// DeleteAsset removes an asset reference. Gallery and image blocks
	// keep whatever reference they hold; missing assets degrade at render
	// time.
	DeleteAsset(ctx context.Context, id models.AssetID) error

	// ListAssets returns all asset references within the given project,
	// ordered by creation time.
	ListAssets(ctx context.Context, projectID models.ProjectID) ([]*models.Asset, error)

	// Migrate initializes or updates the backend schema. It is idempotent
	// and safe to run at every startup.
	//
	//   - PostgreSQL: GORM auto-migration of tables, indexes, constraints
	//   - SurrealDB: no-op apart from connection checks; the backend is
	//     schema-flexible
	//   - CQRS: migrates both underlying stores
	Migrate(ctx context.Context) error

	// Close releases connections and resources. The store is unusable
	// afterwards regardless of the returned error. Multiple calls are
	// safe.
	Close() error

	// Timestamp-based change detection for CQRS synchronization. Each
	// method returns the IDs of records whose creation or update time
	// falls in [since, until). Empty result sets are valid and return
	// empty slices, not errors.

	ListModifiedUserIDs(ctx context.Context, since, until time.Time) ([]models.UserID, error)
	ListModifiedProjectIDs(ctx context.Context, since, until time.Time) ([]models.ProjectID, error)
	ListModifiedPageIDs(ctx context.Context, since, until time.Time) ([]models.PageID, error)
	ListModifiedDatabaseIDs(ctx context.Context, since, until time.Time) ([]models.DatabaseID, error)
	ListModifiedEntryIDs(ctx context.Context, since, until time.Time) ([]models.EntryID, error)
	ListModifiedAssetIDs(ctx context.Context, since, until time.Time) ([]models.AssetID, error)
}
