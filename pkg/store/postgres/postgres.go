// Package postgres implements the
// [github.com/surrealdb/surrealcms/pkg/store.Store] interface on PostgreSQL
// using GORM.
//
// The schema maps the models package one table per entity: users, projects,
// pages, databases, entries, assets. GORM struct tags on the models define
// the constraints and indexes; [PostgresStore.Migrate] applies them through
// AutoMigrate, which only adds schema elements and never drops data, so it
// is safe to run at every startup.
//
// Page content, database schemas, and entry data are stored in plain text
// columns. PostgreSQL never indexes or queries inside them; they are opaque
// to this layer.
//
// Deletes are soft: every model carries a gorm.DeletedAt column and GORM
// filters deleted rows from all queries automatically. The one cascade that
// spans tables, project deletion taking its pages, databases, entries, and
// assets with it, runs in a single transaction here because the soft-delete
// scheme rules out database-level ON DELETE CASCADE. Database deletion is
// deliberately not cascaded; entries reference their database without being
// owned by it.
//
// The ListModified*IDs methods support the CQRS store's timestamp-based
// synchronization, selecting IDs whose creation or update time falls in
// [since, until).
//
// For change-tracking based synchronization, wrap the store with
// [NewPostgresStoreWithChangeTracking], which records every write in a
// tracking table within the same transaction.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/surrealdb/surrealcms/pkg/models"
	"github.com/surrealdb/surrealcms/pkg/store"
)

// PostgresStore implements the Store interface using PostgreSQL with GORM.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore connects to PostgreSQL with the given DSN.
func NewPostgresStore(dsn string) (store.Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) getDB() *gorm.DB {
	return s.db
}

// Migrate creates or updates the tables, indexes, and constraints for the
// surrealcms data model using GORM's AutoMigrate. It is idempotent: only
// missing schema elements are added, existing data is preserved.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Page{},
		&models.Database{},
		&models.Entry{},
		&models.Asset{},
		&models.ChangeTracking{},
	)
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// User operations

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.getDB().WithContext(ctx).Create(user).Error
}

func (s *PostgresStore) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	var user models.User
	err := s.getDB().WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.getDB().WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, user *models.User) error {
	return s.getDB().WithContext(ctx).Save(user).Error
}

func (s *PostgresStore) DeleteUser(ctx context.Context, id models.UserID) error {
	return s.getDB().WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}

// Project operations

func (s *PostgresStore) CreateProject(ctx context.Context, project *models.Project) error {
	return s.getDB().WithContext(ctx).Create(project).Error
}

func (s *PostgresStore) GetProject(ctx context.Context, id models.ProjectID) (*models.Project, error) {
	var project models.Project
	err := s.getDB().WithContext(ctx).First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

func (s *PostgresStore) UpdateProject(ctx context.Context, project *models.Project) error {
	return s.getDB().WithContext(ctx).Save(project).Error
}

// DeleteProject removes the project and everything under it in one
// transaction. Entries are reached through their databases because they
// carry no project column of their own.
func (s *PostgresStore) DeleteProject(ctx context.Context, id models.ProjectID) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var databaseIDs []models.DatabaseID
		if err := tx.Model(&models.Database{}).Where("project_id = ?", id).Pluck("id", &databaseIDs).Error; err != nil {
			return err
		}
		if len(databaseIDs) > 0 {
			if err := tx.Delete(&models.Entry{}, "database_id IN ?", databaseIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.Database{}, "project_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Page{}, "project_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Asset{}, "project_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, "id = ?", id).Error
	})
}

func (s *PostgresStore) ListProjects(ctx context.Context, ownerID models.UserID) ([]*models.Project, error) {
	var projects []*models.Project
	err := s.getDB().WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at").Find(&projects).Error
	return projects, err
}

// Page operations

func (s *PostgresStore) CreatePage(ctx context.Context, page *models.Page) error {
	return s.getDB().WithContext(ctx).Create(page).Error
}

func (s *PostgresStore) GetPage(ctx context.Context, id models.PageID) (*models.Page, error) {
	var page models.Page
	err := s.getDB().WithContext(ctx).First(&page, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &page, nil
}

func (s *PostgresStore) UpdatePage(ctx context.Context, page *models.Page) error {
	return s.getDB().WithContext(ctx).Save(page).Error
}

func (s *PostgresStore) DeletePage(ctx context.Context, id models.PageID) error {
	return s.getDB().WithContext(ctx).Delete(&models.Page{}, "id = ?", id).Error
}

func (s *PostgresStore) ListPages(ctx context.Context, projectID models.ProjectID) ([]*models.Page, error) {
	var pages []*models.Page
	err := s.getDB().WithContext(ctx).Where("project_id = ?", projectID).Order("created_at").Find(&pages).Error
	return pages, err
}

// Database operations

func (s *PostgresStore) CreateDatabase(ctx context.Context, database *models.Database) error {
	return s.getDB().WithContext(ctx).Create(database).Error
}

func (s *PostgresStore) GetDatabase(ctx context.Context, id models.DatabaseID) (*models.Database, error) {
	var database models.Database
	err := s.getDB().WithContext(ctx).First(&database, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &database, nil
}

func (s *PostgresStore) UpdateDatabase(ctx context.Context, database *models.Database) error {
	return s.getDB().WithContext(ctx).Save(database).Error
}

// DeleteDatabase removes only the database row; entries are a non-owning
// relationship and stay behind as orphans.
func (s *PostgresStore) DeleteDatabase(ctx context.Context, id models.DatabaseID) error {
	return s.getDB().WithContext(ctx).Delete(&models.Database{}, "id = ?", id).Error
}

func (s *PostgresStore) ListDatabases(ctx context.Context, projectID models.ProjectID) ([]*models.Database, error) {
	var databases []*models.Database
	err := s.getDB().WithContext(ctx).Where("project_id = ?", projectID).Order("created_at").Find(&databases).Error
	return databases, err
}

// Entry operations

func (s *PostgresStore) CreateEntry(ctx context.Context, entry *models.Entry) error {
	return s.getDB().WithContext(ctx).Create(entry).Error
}

func (s *PostgresStore) GetEntry(ctx context.Context, id models.EntryID) (*models.Entry, error) {
	var entry models.Entry
	err := s.getDB().WithContext(ctx).First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (s *PostgresStore) UpdateEntry(ctx context.Context, entry *models.Entry) error {
	return s.getDB().WithContext(ctx).Save(entry).Error
}

func (s *PostgresStore) DeleteEntry(ctx context.Context, id models.EntryID) error {
	return s.getDB().WithContext(ctx).Delete(&models.Entry{}, "id = ?", id).Error
}

func (s *PostgresStore) ListEntries(ctx context.Context, databaseID models.DatabaseID) ([]*models.Entry, error) {
	var entries []*models.Entry
	err := s.getDB().WithContext(ctx).Where("database_id = ?", databaseID).Order("created_at").Find(&entries).Error
	return entries, err
}

// Asset operations

func (s *PostgresStore) CreateAsset(ctx context.Context, asset *models.Asset) error {
	return s.getDB().WithContext(ctx).Create(asset).Error
}

func (s *PostgresStore) GetAsset(ctx context.Context, id models.AssetID) (*models.Asset, error) {
	var asset models.Asset
	err := s.getDB().WithContext(ctx).First(&asset, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &asset, nil
}

func (s *PostgresStore) UpdateAsset(ctx context.Context, asset *models.Asset) error {
	return s.getDB().WithContext(ctx).Save(asset).Error
}

func (s *PostgresStore) DeleteAsset(ctx context.Context, id models.AssetID) error {
	return s.getDB().WithContext(ctx).Delete(&models.Asset{}, "id = ?", id).Error
}

func (s *PostgresStore) ListAssets(ctx context.Context, projectID models.ProjectID) ([]*models.Asset, error) {
	var assets []*models.Asset
	err := s.getDB().WithContext(ctx).Where("project_id = ?", projectID).Order("created_at").Find(&assets).Error
	return assets, err
}

// Timestamp-based catch-up methods for CQRS consistency

func (s *PostgresStore) ListModifiedUserIDs(ctx context.Context, since, until time.Time) ([]models.UserID, error) {
	var ids []models.UserID
	err := s.getDB().WithContext(ctx).
		Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", since, until).
		Or("updated_at >= ? AND updated_at < ?", since, until).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *PostgresStore) ListModifiedProjectIDs(ctx context.Context, since, until time.Time) ([]models.ProjectID, error) {
	var ids []models.ProjectID
	err := s.getDB().WithContext(ctx).
		Model(&models.Project{}).
		Where("created_at >= ? AND created_at < ?", since, until).
		Or("updated_at >= ? AND updated_at < ?", since, until).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *PostgresStore) ListModifiedPageIDs(ctx context.Context, since, until time.Time) ([]models.PageID, error) {
	var ids []models.PageID
	err := s.getDB().WithContext(ctx).
		Model(&models.Page{}).
		Where("created_at >= ? AND created_at < ?", since, until).
		Or("updated_at >= ? AND updated_at < ?", since, until).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *PostgresStore) ListModifiedDatabaseIDs(ctx context.Context, since, until time.Time) ([]models.DatabaseID, error) {
	var ids []models.DatabaseID
	err := s.getDB().WithContext(ctx).
		Model(&models.Database{}).
		Where("created_at >= ? AND created_at < ?", since, until).
		Or("updated_at >= ? AND updated_at < ?", since, until).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *PostgresStore) ListModifiedEntryIDs(ctx context.Context, since, until time.Time) ([]models.EntryID, error) {
	var ids []models.EntryID
	err := s.getDB().WithContext(ctx).
		Model(&models.Entry{}).
		Where("created_at >= ? AND created_at < ?", since, until).
		Or("updated_at >= ? AND updated_at < ?", since, until).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *PostgresStore) ListModifiedAssetIDs(ctx context.Context, since, until time.Time) ([]models.AssetID, error) {
	var ids []models.AssetID
	err := s.getDB().WithContext(ctx).
		Model(&models.Asset{}).
		Where("created_at >= ? AND created_at < ?", since, until).
		Or("updated_at >= ? AND updated_at < ?", since, until).
		Pluck("id", &ids).Error
	return ids, err
}
