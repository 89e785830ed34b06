package models

import (
	"time"
)

// ChangeOperation is the kind of write a change record captures.
type ChangeOperation string

const (
	ChangeOperationCreate ChangeOperation = "CREATE"
	ChangeOperationUpdate ChangeOperation = "UPDATE"
	ChangeOperationDelete ChangeOperation = "DELETE"
)

// Entity kind tokens stored in ChangeTracking.EntityType. The replay side
// switches over these to pick the typed ID parser and store method, so the
// writer and the replayer must agree on the exact strings.
const (
	EntityTypeUser     = "user"
	EntityTypeProject  = "project"
	EntityTypePage     = "page"
	EntityTypeDatabase = "database"
	EntityTypeEntry    = "entry"
	EntityTypeAsset    = "asset"
)

// ChangeTracking is one row of the change log the tracking store appends to
// in the same transaction as every write. During a store migration the log
// is replayed against the secondary backend in ChangedAt order.
//
// A log row beats timestamp scanning on two counts: deletes appear in it
// (a deleted row has no UpdatedAt left to scan for), and a row is either
// replayed or it is not, while timestamp windows can straddle a write.
//
// Payload carries the full entity snapshot for creates and updates so
// replay never has to read the primary tables; deletes carry only the ID.
type ChangeTracking struct {
	ID           uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	EntityType   string          `gorm:"not null;index:idx_entity_timestamp" json:"entity_type"`
	EntityID     string          `gorm:"not null;index:idx_entity_timestamp" json:"entity_id"`
	Operation    ChangeOperation `gorm:"not null" json:"operation"`
	ChangedAt    time.Time       `gorm:"not null;index:idx_entity_timestamp" json:"changed_at"`
	ProcessedAt  *time.Time      `gorm:"index" json:"processed_at,omitempty"`
	ErrorMessage string          `gorm:"type:text" json:"error_message,omitempty"`
	RetryCount   int             `gorm:"default:0" json:"retry_count"`
	Payload      JSONMap         `gorm:"type:jsonb" json:"payload,omitempty"`
}

// TableName keeps the log out of GORM's pluralization.
func (ChangeTracking) TableName() string {
	return "change_tracking"
}

// IsProcessed reports whether the change was replayed successfully. A row
// with an error message is not processed even when ProcessedAt is set; the
// sync loop will pick it up again.
func (c *ChangeTracking) IsProcessed() bool {
	return c.ProcessedAt != nil && c.ErrorMessage == ""
}

// MarkProcessed records a successful replay, clearing any error from
// earlier attempts.
func (c *ChangeTracking) MarkProcessed(processedTime time.Time) {
	c.ProcessedAt = &processedTime
	c.ErrorMessage = ""
}

// MarkError records a failed replay attempt.
func (c *ChangeTracking) MarkError(errorMsg string) {
	c.ErrorMessage = errorMsg
	c.RetryCount++
}
