package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	surrealdb_models "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Each entity gets its own ID type wrapping a UUID so the compiler rejects
// a PageID where a DatabaseID belongs. Every type carries the same method
// set: constructors, string and zero forms, the SurrealDB record ID, and
// the JSON, CBOR, and SQL codecs, with the shared logic in the helpers at
// the bottom of the file.

// UserID is a typed ID for users
type UserID struct {
	uuid uuid.UUID
}

func NewUserID() UserID                     { return UserID{uuid: uuid.New()} }
func NewUserIDFromUUID(id uuid.UUID) UserID { return UserID{uuid: id} }

func ParseUserID(s string) (UserID, error) {
	id, err := parseTypedID("user ID", s)
	return UserID{uuid: id}, err
}

func (u UserID) UUID() uuid.UUID { return u.uuid }
func (u UserID) String() string  { return u.uuid.String() }
func (u UserID) IsZero() bool    { return u.uuid == uuid.Nil }

func (u UserID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{Table: "users", ID: u.uuid.String()}
}

func (u UserID) MarshalJSON() ([]byte, error)     { return json.Marshal(u.uuid.String()) }
func (u *UserID) UnmarshalJSON(data []byte) error { return unmarshalJSONID(data, &u.uuid) }
func (u UserID) MarshalCBOR() ([]byte, error)     { return marshalCBORID("users", u.uuid) }
func (u *UserID) UnmarshalCBOR(data []byte) error { return unmarshalCBORID(data, "users", &u.uuid) }
func (u UserID) Value() (driver.Value, error)     { return uuidValue(u.uuid) }
func (u *UserID) Scan(value any) error            { return scanUUID(value, &u.uuid) }

func (UserID) GormDataType() string { return "uuid" }

// ProjectID is a typed ID for projects
type ProjectID struct {
	uuid uuid.UUID
}

func NewProjectID() ProjectID                     { return ProjectID{uuid: uuid.New()} }
func NewProjectIDFromUUID(id uuid.UUID) ProjectID { return ProjectID{uuid: id} }

func ParseProjectID(s string) (ProjectID, error) {
	id, err := parseTypedID("project ID", s)
	return ProjectID{uuid: id}, err
}

func (p ProjectID) UUID() uuid.UUID { return p.uuid }
func (p ProjectID) String() string  { return p.uuid.String() }
func (p ProjectID) IsZero() bool    { return p.uuid == uuid.Nil }

func (p ProjectID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{Table: "projects", ID: p.uuid.String()}
}

func (p ProjectID) MarshalJSON() ([]byte, error)     { return json.Marshal(p.uuid.String()) }
func (p *ProjectID) UnmarshalJSON(data []byte) error { return unmarshalJSONID(data, &p.uuid) }
func (p ProjectID) MarshalCBOR() ([]byte, error)     { return marshalCBORID("projects", p.uuid) }
func (p *ProjectID) UnmarshalCBOR(data []byte) error { return unmarshalCBORID(data, "projects", &p.uuid) }
func (p ProjectID) Value() (driver.Value, error)     { return uuidValue(p.uuid) }
func (p *ProjectID) Scan(value any) error            { return scanUUID(value, &p.uuid) }

func (ProjectID) GormDataType() string { return "uuid" }

// PageID is a typed ID for pages
type PageID struct {
	uuid uuid.UUID
}

func NewPageID() PageID                     { return PageID{uuid: uuid.New()} }
func NewPageIDFromUUID(id uuid.UUID) PageID { return PageID{uuid: id} }

func ParsePageID(s string) (PageID, error) {
	id, err := parseTypedID("page ID", s)
	return PageID{uuid: id}, err
}

func (p PageID) UUID() uuid.UUID { return p.uuid }
func (p PageID) String() string  { return p.uuid.String() }
func (p PageID) IsZero() bool    { return p.uuid == uuid.Nil }

func (p PageID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{Table: "pages", ID: p.uuid.String()}
}

func (p PageID) MarshalJSON() ([]byte, error)     { return json.Marshal(p.uuid.String()) }
func (p *PageID) UnmarshalJSON(data []byte) error { return unmarshalJSONID(data, &p.uuid) }
func (p PageID) MarshalCBOR() ([]byte, error)     { return marshalCBORID("pages", p.uuid) }
func (p *PageID) UnmarshalCBOR(data []byte) error { return unmarshalCBORID(data, "pages", &p.uuid) }
func (p PageID) Value() (driver.Value, error)     { return uuidValue(p.uuid) }
func (p *PageID) Scan(value any) error            { return scanUUID(value, &p.uuid) }

func (PageID) GormDataType() string { return "uuid" }

// DatabaseID is a typed ID for user-defined databases (record schemas)
type DatabaseID struct {
	uuid uuid.UUID
}

func NewDatabaseID() DatabaseID                     { return DatabaseID{uuid: uuid.New()} }
func NewDatabaseIDFromUUID(id uuid.UUID) DatabaseID { return DatabaseID{uuid: id} }

func ParseDatabaseID(s string) (DatabaseID, error) {
	id, err := parseTypedID("database ID", s)
	return DatabaseID{uuid: id}, err
}

func (d DatabaseID) UUID() uuid.UUID { return d.uuid }
func (d DatabaseID) String() string  { return d.uuid.String() }
func (d DatabaseID) IsZero() bool    { return d.uuid == uuid.Nil }

func (d DatabaseID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{Table: "databases", ID: d.uuid.String()}
}

func (d DatabaseID) MarshalJSON() ([]byte, error)     { return json.Marshal(d.uuid.String()) }
func (d *DatabaseID) UnmarshalJSON(data []byte) error { return unmarshalJSONID(data, &d.uuid) }
func (d DatabaseID) MarshalCBOR() ([]byte, error)     { return marshalCBORID("databases", d.uuid) }
func (d *DatabaseID) UnmarshalCBOR(data []byte) error { return unmarshalCBORID(data, "databases", &d.uuid) }
func (d DatabaseID) Value() (driver.Value, error)     { return uuidValue(d.uuid) }
func (d *DatabaseID) Scan(value any) error            { return scanUUID(value, &d.uuid) }

func (DatabaseID) GormDataType() string { return "uuid" }

// EntryID is a typed ID for database entries
type EntryID struct {
	uuid uuid.UUID
}

func NewEntryID() EntryID                     { return EntryID{uuid: uuid.New()} }
func NewEntryIDFromUUID(id uuid.UUID) EntryID { return EntryID{uuid: id} }

func ParseEntryID(s string) (EntryID, error) {
	id, err := parseTypedID("entry ID", s)
	return EntryID{uuid: id}, err
}

func (e EntryID) UUID() uuid.UUID { return e.uuid }
func (e EntryID) String() string  { return e.uuid.String() }
func (e EntryID) IsZero() bool    { return e.uuid == uuid.Nil }

func (e EntryID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{Table: "entries", ID: e.uuid.String()}
}

func (e EntryID) MarshalJSON() ([]byte, error)     { return json.Marshal(e.uuid.String()) }
func (e *EntryID) UnmarshalJSON(data []byte) error { return unmarshalJSONID(data, &e.uuid) }
func (e EntryID) MarshalCBOR() ([]byte, error)     { return marshalCBORID("entries", e.uuid) }
func (e *EntryID) UnmarshalCBOR(data []byte) error { return unmarshalCBORID(data, "entries", &e.uuid) }
func (e EntryID) Value() (driver.Value, error)     { return uuidValue(e.uuid) }
func (e *EntryID) Scan(value any) error            { return scanUUID(value, &e.uuid) }

func (EntryID) GormDataType() string { return "uuid" }

// AssetID is a typed ID for uploaded assets
type AssetID struct {
	uuid uuid.UUID
}

func NewAssetID() AssetID                     { return AssetID{uuid: uuid.New()} }
func NewAssetIDFromUUID(id uuid.UUID) AssetID { return AssetID{uuid: id} }

func ParseAssetID(s string) (AssetID, error) {
	id, err := parseTypedID("asset ID", s)
	return AssetID{uuid: id}, err
}

func (a AssetID) UUID() uuid.UUID { return a.uuid }
func (a AssetID) String() string  { return a.uuid.String() }
func (a AssetID) IsZero() bool    { return a.uuid == uuid.Nil }

func (a AssetID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{Table: "assets", ID: a.uuid.String()}
}

func (a AssetID) MarshalJSON() ([]byte, error)     { return json.Marshal(a.uuid.String()) }
func (a *AssetID) UnmarshalJSON(data []byte) error { return unmarshalJSONID(data, &a.uuid) }
func (a AssetID) MarshalCBOR() ([]byte, error)     { return marshalCBORID("assets", a.uuid) }
func (a *AssetID) UnmarshalCBOR(data []byte) error { return unmarshalCBORID(data, "assets", &a.uuid) }
func (a AssetID) Value() (driver.Value, error)     { return uuidValue(a.uuid) }
func (a *AssetID) Scan(value any) error            { return scanUUID(value, &a.uuid) }

func (AssetID) GormDataType() string { return "uuid" }

// Helper functions

// parseTypedID parses the canonical string form, labelling the error with
// the ID kind.
func parseTypedID(kind, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", kind, err)
	}
	return id, nil
}

// unmarshalJSONID decodes the quoted canonical string form.
func unmarshalJSONID(data []byte, target *uuid.UUID) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*target = id
	return nil
}

// uuidValue implements the driver.Valuer contract shared by every ID type:
// zero IDs store as SQL NULL.
func uuidValue(id uuid.UUID) (driver.Value, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return id.String(), nil
}

// scanUUID is a helper for implementing sql.Scanner interface for PostgreSQL/GORM
func scanUUID(value any, target *uuid.UUID) error {
	if value == nil {
		*target = uuid.Nil
		return nil
	}

	switch v := value.(type) {
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return err
		}
		*target = id
	case []byte:
		id, err := uuid.ParseBytes(v)
		if err != nil {
			return err
		}
		*target = id
	default:
		return fmt.Errorf("cannot scan type %T into UUID", value)
	}
	return nil
}

// marshalCBORID encodes the tag-8 [table, id] pair SurrealDB uses for
// record IDs on the wire.
func marshalCBORID(table string, id uuid.UUID) ([]byte, error) {
	return cbor.Marshal(cbor.Tag{
		Number:  8,
		Content: []any{table, id.String()},
	})
}

// unmarshalCBORID is a helper for unmarshaling SurrealDB RecordID from CBOR.
// SurrealDB uses CBOR tag 8 to identify RecordID types in its binary protocol.
// The RecordID is encoded as [table_name, id_string] within the tag.
func unmarshalCBORID(data []byte, expectedTable string, target *uuid.UUID) error {
	if len(data) == 0 {
		return fmt.Errorf("empty CBOR data")
	}

	// Check if this is a CBOR tag (major type 6)
	majorType := data[0] >> 5
	if majorType != 6 {
		return fmt.Errorf("expected CBOR tag for RecordID, got major type %d", majorType)
	}

	var tag cbor.Tag
	if err := cbor.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("failed to unmarshal CBOR tag: %w", err)
	}

	// SurrealDB uses tag 8 for RecordID
	if tag.Number != 8 {
		return fmt.Errorf("expected RecordID tag (8), got %d", tag.Number)
	}

	arr, ok := tag.Content.([]any)
	if !ok || len(arr) != 2 {
		return fmt.Errorf("invalid RecordID format: expected [table, id] array")
	}

	table, ok := arr[0].(string)
	if !ok {
		return fmt.Errorf("invalid RecordID format: table name must be string")
	}

	if table != expectedTable {
		return fmt.Errorf("expected table %s, got %s", expectedTable, table)
	}

	idStr, ok := arr[1].(string)
	if !ok {
		return fmt.Errorf("invalid RecordID format: ID must be string")
	}

	parsedUUID, err := uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("invalid UUID in RecordID: %w", err)
	}

	*target = parsedUUID
	return nil
}
