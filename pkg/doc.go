// Package pkg contains all the sub-packages for the surrealcms application.
//
// This package serves as a central namespace for organizing the application's
// functionality into focused, single-purpose packages that together provide a
// block-based content management system with multi-database support and
// zero-downtime migration capabilities.
//
// # Package Architecture
//
// The sub-packages are organized in four main layers:
//
// # Application Layer
//
// [github.com/surrealdb/surrealcms/pkg/surrealcms] - Core application logic, command orchestration, and HTTP handlers.
// Contains the main application entry points and coordinates interactions between other packages.
// Use this package when implementing new commands or extending the HTTP API.
//
// # Domain Layer
//
// [github.com/surrealdb/surrealcms/pkg/models] - Persistent entities and typed IDs for the content management system.
// Defines the records that represent users, projects, pages, databases, entries, and assets.
// Use this package when working with stored data or adding new entity types.
//
// [github.com/surrealdb/surrealcms/pkg/content] - The content model: typed block content, property definitions,
// entry values, rendering, validation, and the wire encoding that moves content through the models.
// Use this package when adding block types or property kinds.
//
// [github.com/surrealdb/surrealcms/pkg/editor] - Editing operations over the content model: block sequence
// manipulation, schema editing, entry form building, reference resolution, and entry search.
// Use this package when implementing new editing behavior.
//
// # Infrastructure Layer
//
// [github.com/surrealdb/surrealcms/pkg/store] - Data persistence abstraction with the [github.com/surrealdb/surrealcms/pkg/store.Store] interface.
// Provides a unified interface for record operations across different backend implementations.
// Use this package when implementing new persistence layers.
//
// [github.com/surrealdb/surrealcms/pkg/store/postgres] - PostgreSQL implementation using GORM, with an optional
// change-tracking variant that records every write for replay.
//
// [github.com/surrealdb/surrealcms/pkg/store/surrealdb] - SurrealDB implementation using native SurrealQL,
// record links, and graph relations instead of ORM abstractions.
//
// [github.com/surrealdb/surrealcms/pkg/store/cqrs] - CQRS implementation coordinating dual writes between the
// two backends. Enables zero-downtime migration through dual-write modes and catch-up synchronization.
//
// [github.com/surrealdb/surrealcms/pkg/store/memory] - In-memory implementation backing unit tests; it holds
// the same contract as the durable stores without external processes.
//
// # Integration Layer
//
// [github.com/surrealdb/surrealcms/pkg/client] - HTTP client library for programmatic access to the surrealcms API.
// Provides typed methods for all API endpoints.
// Use this package when building integrations or test tooling.
//
// [github.com/surrealdb/surrealcms/pkg/surrealcmstesting] - Testing utilities including virtual user simulation
// for load and migration testing.
//
// # Package Dependencies
//
// The packages follow these dependency relationships:
//
//	surrealcms → store, models, client, content, editor
//	editor → content
//	store → models
//	store/postgres → store, models
//	store/surrealdb → store, models
//	store/cqrs → store, models
//	store/memory → store, models
//	client → models, content, editor
//	surrealcmstesting → client, models, content, editor
//
// content and models are deliberately independent: content types describe
// what lives inside a block or entry, models describe the records that carry
// them, and the wire encoding in content round-trips the opaque strings
// those records store.
package pkg
