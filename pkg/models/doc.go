// Package models defines the persistence entities for the content management
// application.
//
// The application organizes content the way modern project tools do: a
// dashboard of projects, each project holding block-based pages, user-defined
// databases (record schemas plus their entries), and an asset library of
// uploaded file references.
//
//   - [Project]: top-level container shown on the dashboard, owned by a user
//   - [Page]: one editable document; its ordered block sequence is stored as a
//     single serialized string in Page.Content
//   - [Database]: a user-defined record schema; its ordered property list is
//     stored as a single serialized string in Database.Schema
//   - [Entry]: one record conforming to a database's schema, with its values
//     stored as a single serialized string in Entry.Data
//   - [Asset]: a reference to a file uploaded through the external storage
//     collaborator (URL plus metadata, never the bytes themselves)
//   - [User]: account identity for authentication and ownership
//
// Blocks and schema properties deliberately do not get their own tables. The
// page editor works on an in-memory block list and persists it as one opaque
// string, so the store layer stays a plain CRUD surface and the content
// package alone is responsible for wire-format fidelity. The content package
// defines those in-payload shapes; this package only sees the strings.
//
// # Typed IDs
//
// Each entity has a strongly-typed identifier ([UserID], [ProjectID],
// [PageID], [DatabaseID], [EntryID], [AssetID]) wrapping a UUID. The typed
// IDs provide compile-time safety (a PageID cannot be passed where a
// DatabaseID is expected) and carry every serialization concern the two
// backends need: JSON marshaling for API responses, CBOR tag 8 marshaling to
// SurrealDB RecordIDs, and database/sql Valuer/Scanner plus GormDataType for
// PostgreSQL. One model definition therefore works unchanged against both
// stores, which is what makes the CQRS migration path possible.
//
// # Timestamps and deletion
//
// All entities carry CreatedAt/UpdatedAt maintained by the store layer and
// soft-delete through gorm.DeletedAt where supported. The modification
// timestamps double as the change-detection signal for timestamp-based
// catch-up synchronization; [ChangeTracking] provides the precise,
// transaction-scoped alternative.
package models
