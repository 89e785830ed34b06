package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/surrealdb/surrealcms/pkg/models"
)

// TrackingStore is a PostgresStore whose write operations also append to
// the change tracking table, inside the same transaction as the write
// itself. It satisfies both store.Store and store.ChangeTracker, so the
// CQRS store can replay its log instead of scanning timestamps. Cascading
// deletes record one change per removed row, including the children, so a
// replay on another store removes exactly the same records.
type TrackingStore struct {
	*PostgresStore
}

// NewPostgresStoreWithChangeTracking connects to PostgreSQL and returns a
// store that logs every write to the change tracking table.
func NewPostgresStoreWithChangeTracking(dsn string) (*TrackingStore, error) {
	inner, err := NewPostgresStore(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres store: %w", err)
	}
	pgStore, ok := inner.(*PostgresStore)
	if !ok {
		return nil, fmt.Errorf("unexpected store type %T", inner)
	}
	return &TrackingStore{PostgresStore: pgStore}, nil
}

// Unwrap returns the store without change tracking.
func (s *TrackingStore) Unwrap() *PostgresStore {
	return s.PostgresStore
}

func (s *TrackingStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return s.recordChange(tx, models.EntityTypeUser, user.ID.String(), models.ChangeOperationCreate, user)
	})
}

func (s *TrackingStore) UpdateUser(ctx context.Context, user *models.User) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		return s.recordChange(tx, models.EntityTypeUser, user.ID.String(), models.ChangeOperationUpdate, user)
	})
}

func (s *TrackingStore) DeleteUser(ctx context.Context, id models.UserID) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.User{}, "id = ?", id).Error; err != nil {
			return err
		}
		return s.recordChange(tx, models.EntityTypeUser, id.String(), models.ChangeOperationDelete, nil)
	})
}

func (s *TrackingStore) CreateProject(ctx context.Context, project *models.Project) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		return s.recordChange(tx, models.EntityTypeProject, project.ID.String(), models.ChangeOperationCreate, project)
	})
}

func (s *TrackingStore) UpdateProject(ctx context.Context, project *models.Project) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(project).Error; err != nil {
			return err
		}
		return s.recordChange(tx, models.EntityTypeProject, project.ID.String(), models.ChangeOperationUpdate, project)
	})
}

func (s *TrackingStore) DeleteProject(ctx context.Context, id models.ProjectID) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var databaseIDs []models.DatabaseID
		if err := tx.Model(&models.Database{}).Where("project_id = ?", id).Pluck("id", &databaseIDs).Error; err != nil {
			return err
		}
		var entryIDs []models.EntryID
		if len(databaseIDs) > 0 {
			if err := tx.Model(&models.Entry{}).Where("database_id IN ?", databaseIDs).Pluck("id", &entryIDs).Error; err != nil {
				return err
			}
		}
		var pageIDs []models.PageID
		if err := tx.Model(&models.Page{}).Where("project_id = ?", id).Pluck("id", &pageIDs).Error; err != nil {
			return err
		}
		var assetIDs []models.AssetID
		if err := tx.Model(&models.Asset{}).Where("project_id = ?", id).Pluck("id", &assetIDs).Error; err != nil {
			return err
		}

		if len(entryIDs) > 0 {
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
		if err := tx.Delete(&models.Project{}, "id = ?", id).Error; err != nil {
			return err
		}

		for _, entryID := range entryIDs {
			if err := s.recordChange(tx, models.EntityTypeEntry, entryID.String(), models.ChangeOperationDelete, nil); err != nil {
				return err
			}
		}
		for _, databaseID := range databaseIDs {
			if err := s.recordChange(tx, models.EntityTypeDatabase, databaseID.String(), models.ChangeOperationDelete, nil); err != nil {
				return err
			}
		}
		for _, pageID := range pageIDs {
			if err := s.recordChange(tx, models.EntityTypePage, pageID.String(), models.ChangeOperationDelete, nil); err != nil {
				return err
			}
		}
		for _, assetID := range assetIDs {
			if err := s.recordChange(tx, models.EntityTypeAsset, assetID.String(), models.ChangeOperationDelete, nil); err != nil {
				return err
			}
		}
		return s.recordChange(tx, models.EntityTypeProject, id.String(), models.ChangeOperationDelete, nil)
	})
}

func (s *TrackingStore) CreatePage(ctx context.Context, page *models.Page) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(page).Error; err != nil {
			return err
		}
		return s.recordChange(tx, models.EntityTypePage, page.ID.String(), models.ChangeOperationCreate, page)
	})
}

func (s *TrackingStore) UpdatePage(ctx context.Context, page *models.Page) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(page).Error; err != nil {
			return err
		}
		return s.recordChange(tx, models.EntityTypePage, page.ID.String(), models.ChangeOperationUpdate, page)
	})
}

func (s *TrackingStore) DeletePage(ctx context.Context, id models.PageID) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Page{}, "id = ?", id).Error; err != nil {
			return err
		}
		return s.recordChange(tx, models.EntityTypePage, id.String(), models.ChangeOperationDelete, nil)
	})
}

func (s *TrackingStore) CreateDatabase(ctx context.Context, database *models.Database) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(database).Error; err != nil {
			return err
		}
		return s.recordChange(tx, models.EntityTypeDatabase, database.ID.String(), models.ChangeOperationCreate, database)
	})
}

func (s *TrackingStore) UpdateDatabase(ctx context.Context, database *models.Database) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(database).Error; err != nil {
			return err
		}
		return s.recordChange(tx, models.EntityTypeDatabase, database.ID.String(), models.ChangeOperationUpdate, database)
	})
}

func (s *TrackingStore) DeleteDatabase(ctx context.Context, id models.DatabaseID) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Database{}, "id = ?", id).Error; err != nil {
			return err
		}
		return s.recordChange(tx, models.EntityTypeDatabase, id.String(), models.ChangeOperationDelete, nil)
	})
}

func (s *TrackingStore) CreateEntry(ctx context.Context, entry *models.Entry) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return s.recordChange(tx, models.EntityTypeEntry, entry.ID.String(), models.ChangeOperationCreate, entry)
	})
}

func (s *TrackingStore) UpdateEntry(ctx context.Context, entry *models.Entry) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(entry).Error; err != nil {
			return err
		}
		return s.recordChange(tx, models.EntityTypeEntry, entry.ID.String(), models.ChangeOperationUpdate, entry)
	})
}

func (s *TrackingStore) DeleteEntry(ctx context.Context, id models.EntryID) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Entry{}, "id = ?", id).Error; err != nil {
			return err
		}
		return s.recordChange(tx, models.EntityTypeEntry, id.String(), models.ChangeOperationDelete, nil)
	})
}

func (s *TrackingStore) CreateAsset(ctx context.Context, asset *models.Asset) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(asset).Error; err != nil {
			return err
		}
		return s.recordChange(tx, models.EntityTypeAsset, asset.ID.String(), models.ChangeOperationCreate, asset)
	})
}

func (s *TrackingStore) UpdateAsset(ctx context.Context, asset *models.Asset) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(asset).Error; err != nil {
			return err
		}
		return s.recordChange(tx, models.EntityTypeAsset, asset.ID.String(), models.ChangeOperationUpdate, asset)
	})
}

func (s *TrackingStore) DeleteAsset(ctx context.Context, id models.AssetID) error {
	return s.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Asset{}, "id = ?", id).Error; err != nil {
			return err
		}
		return s.recordChange(tx, models.EntityTypeAsset, id.String(), models.ChangeOperationDelete, nil)
	})
}
