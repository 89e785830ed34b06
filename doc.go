// Package surrealcms implements a headless content management service with
// block-based pages, schema-driven content databases, and dual database
// backend support (PostgreSQL and SurrealDB) with zero-downtime migration
// capabilities.
//
// The service stores structured content and serves it over a REST API; it has
// no rendering surface of its own beyond read-side HTML and plain-text
// projections. Content lives in two shapes: pages, which hold an ordered
// sequence of typed blocks, and databases, which hold schema-validated
// entries. Both shapes are edited through session-scoped editors that keep
// ordering and schema invariants intact across every mutation.
//
// # Features
//
//   - Dual Database Support: Work with PostgreSQL (using GORM) and SurrealDB (using the SurrealDB Go SDK over CBOR)
//   - CQRS Pattern: Command Query Responsibility Segregation without dual-write complexity during migration
//   - Zero-Downtime Migration: Switch between databases without service interruption using background synchronization
//   - Block Content Model: Pages composed of typed blocks (text, headings, images, galleries, embeds, database references)
//   - Structured Databases: User-defined property schemas with typed values and required-property validation
//   - RESTful API: Complete CRUD plus structural editing operations for all entities
//   - Authentication Stubs: Basic token-based sessions for demonstration (not production-ready)
//
// # Architecture Overview
//
// The application demonstrates three key architectural patterns:
//
//   - Multi-Backend Support: Use the [github.com/surrealdb/surrealcms/pkg/store.Store] interface to abstract PostgreSQL (with GORM),
//     SurrealDB (without ORM), and an in-memory implementation for tests
//   - CQRS Migration: Implement [github.com/surrealdb/surrealcms/pkg/store/cqrs.CQRSStore] for zero-downtime database migrations
//     with background synchronization and read-only switchover
//   - Command Pattern: Use the [github.com/surrealdb/surrealcms/pkg/surrealcms.Command] interface to organize application operations
//     (run, migrate, sync) with their specific configurations
//
// # Content Model
//
// Pages and databases are persisted as opaque serialized content on their
// owning rows, so every storage backend handles them identically. The
// [github.com/surrealdb/surrealcms/pkg/content] package defines the block and
// property vocabulary with its wire format, and
// [github.com/surrealdb/surrealcms/pkg/editor] layers the editing sessions on
// top: ordered block manipulation, schema evolution, entry forms, and
// reference resolution.
//
// For the persistent entities, their typed IDs, and the relationships between
// them, see [github.com/surrealdb/surrealcms/pkg/models].
//
// # Migration Strategy
//
// The application demonstrates a safe approach for zero-downtime database migration:
//
//   - Single-write pattern: Writes go to one database at a time, avoiding partial failures
//   - Background synchronization: Data is synced between databases in batches
//   - Read-only switchover: Brief read-only period ensures data consistency during the final cutover
//   - Two sync strategies: Timestamp-based (using CreatedAt/UpdatedAt) or change tracking tables
//
// This approach maintains data consistency and allows rollback at any point
// during migration, while avoiding the complexity and risks of writing to
// multiple databases simultaneously.
//
// For detailed information about migration modes, synchronization strategies,
// and operational procedures, see [github.com/surrealdb/surrealcms/pkg/store/cqrs].
//
// # Getting Started
//
// For command-line usage, configuration, and the HTTP endpoint catalog, see
// [github.com/surrealdb/surrealcms/pkg/surrealcms].
//
// # API Integration
//
// The [github.com/surrealdb/surrealcms/pkg/client] package provides a Go HTTP
// client for programmatic access to the API. The
// [github.com/surrealdb/surrealcms/pkg/surrealcmstesting] package includes
// virtual user simulation for load testing and migration verification.
//
// For testing and development, see the end-to-end tests that demonstrate
// migration scenarios and data consistency validation across different
// database backends.
package surrealcms
