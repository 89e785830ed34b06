package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// ViewKind represents the default presentation of a user-defined database
type ViewKind string

const (
	ViewTable    ViewKind = "table"
	ViewList     ViewKind = "list"
	ViewPageGrid ViewKind = "page_grid"
)

// JSONMap is a flexible key-value map for storing dynamic data across different
// database backends. It adapts to each database's native format: PostgreSQL's
// JSONB for efficient querying and indexing, and SurrealDB's object type for
// nested document storage.
//
// In this application it backs the change tracking payloads, where the captured
// entity snapshot varies by entity type and a rigid column layout would not fit.
type JSONMap map[string]any

// Value implements the driver.Valuer interface for database storage
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface for database retrieval
func (j *JSONMap) Scan(value any) error {
	if value == nil {
		*j = make(map[string]any)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		bytes = []byte(value.(string))
	}
	return json.Unmarshal(bytes, j)
}

// User represents a user account using typed IDs
type User struct {
	ID        UserID         `gorm:"type:uuid;primary_key" json:"id"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Name      string         `gorm:"not null" json:"name"`
	AvatarURL string         `json:"avatar_url,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate ID if not set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID.IsZero() {
		u.ID = NewUserID()
	}
	return nil
}

// Project represents a top-level container listed on the dashboard.
// A production system would validate name length, implement project limits
// per user, and include per-project settings as JSONB.
type Project struct {
	ID          ProjectID      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"not null" json:"name"` // Should include length validation and sanitization
	Description string         `json:"description,omitempty"`
	OwnerID     UserID         `gorm:"type:uuid;not null" json:"owner_id"`
	Owner       *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate ID if not set
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID.IsZero() {
		p.ID = NewProjectID()
	}
	return nil
}

// Page represents one editable document. Its block sequence is stored in
// Content as a single serialized string; the content package owns the
// round-trip between that string and the in-memory block list. The store
// layer never inspects Content.
type Page struct {
	ID        PageID         `gorm:"type:uuid;primary_key" json:"id"`
	ProjectID ProjectID      `gorm:"type:uuid;not null" json:"project_id"`
	Project   *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"type:text" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate ID if not set
func (p *Page) BeforeCreate(tx *gorm.DB) error {
	if p.ID.IsZero() {
		p.ID = NewPageID()
	}
	return nil
}

// Database represents a user-defined record schema (not a storage engine).
// Its ordered property list is stored in Schema as a single serialized
// string, mirroring how Page stores its block sequence.
type Database struct {
	ID          DatabaseID     `gorm:"type:uuid;primary_key" json:"id"`
	ProjectID   ProjectID      `gorm:"type:uuid;not null" json:"project_id"`
	Project     *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description,omitempty"`
	DefaultView ViewKind       `gorm:"not null;default:table" json:"default_view"`
	Schema      string         `gorm:"type:text" json:"schema"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate ID if not set
func (d *Database) BeforeCreate(tx *gorm.DB) error {
	if d.ID.IsZero() {
		d.ID = NewDatabaseID()
	}
	if d.DefaultView == "" {
		d.DefaultView = ViewTable
	}
	return nil
}

// Entry represents one record conforming to a Database's property list.
// Data holds the serialized property-name to value mapping as a single
// string. The DatabaseID reference is non-owning: deleting a database leaves
// its entries in place as orphans, still fetchable by ID.
type Entry struct {
	ID         EntryID        `gorm:"type:uuid;primary_key" json:"id"`
	DatabaseID DatabaseID     `gorm:"type:uuid;not null;index" json:"database_id"`
	Data       string         `gorm:"type:text" json:"data"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate ID if not set
func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID.IsZero() {
		e.ID = NewEntryID()
	}
	return nil
}

// Asset represents a reference to a file uploaded through the external
// storage collaborator. The application records the resulting URL and
// metadata; it never performs uploads itself.
type Asset struct {
	ID          AssetID        `gorm:"type:uuid;primary_key" json:"id"`
	ProjectID   ProjectID      `gorm:"type:uuid;not null" json:"project_id"`
	Name        string         `gorm:"not null" json:"name"`
	URL         string         `gorm:"not null" json:"url"`
	ContentType string         `json:"content_type,omitempty"`
	Size        int64          `json:"size,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate ID if not set
func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID.IsZero() {
		a.ID = NewAssetID()
	}
	return nil
}
