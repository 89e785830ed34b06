// Package surrealcms implements the headless CMS application: a REST API
// over projects, pages, databases, entries, and assets, backed by
// PostgreSQL, SurrealDB, or both at once during a live store migration.
//
// The package is organized around three commands dispatched by [Main]:
//
//   - run: start the HTTP server ([App.Run])
//   - migrate: apply schema migrations to the configured stores ([App.Migrate])
//   - sync: catch one store up with the other ([App.Sync])
//
// Page content and database schemas travel through the API as the opaque
// wire strings defined by [github.com/surrealdb/surrealcms/pkg/content].
// The block and property endpoints are the only place those strings are
// opened up: each request loads the owning record, applies one edit through
// [github.com/surrealdb/surrealcms/pkg/editor], and persists the
// reserialized result, so a malformed stored string degrades to the
// documented defaults instead of failing the request.
//
// Store selection is configuration-driven. Single-store deployments talk
// directly to PostgreSQL or SurrealDB; dual-store deployments route through
// [github.com/surrealdb/surrealcms/pkg/store/cqrs], which gives the
// operational commands their migration-mode and synchronization controls.
package surrealcms
