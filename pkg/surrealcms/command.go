package surrealcms

// Command represents a discrete application operation with its specific
// configuration.
//
// Each implementation carries the options for one operation; shared
// database and server settings live in [Config]. Commands are produced by
// [Parse] and executed by the matching method on [App]: App.Migrate,
// App.Run, or App.Sync.
type Command interface {
	// Name returns the command identifier, matching the CLI sub-command.
	Name() string
}

// MigrateCommand applies schema migrations to the configured stores.
//
// This is schema setup, not data migration: PostgreSQL tables are created
// or updated through GORM's AutoMigrate, SurrealDB needs no explicit DDL,
// and a CQRS configuration migrates both stores so their schemas stay
// identical. Safe to run repeatedly.
type MigrateCommand struct {
	// All configuration comes from Config; per-run options such as a
	// target schema version would go here.
}

// Name returns "migrate".
func (c *MigrateCommand) Name() string {
	return "migrate"
}

// RunCommand starts the HTTP server.
//
// The server exposes the full REST API for projects, pages, databases,
// entries, and assets, plus the block and property editing endpoints and
// token-based authentication. It runs until the context passed to App.Run
// is cancelled, then shuts down gracefully.
type RunCommand struct {
	// All configuration comes from Config.
}

// Name returns "run".
func (c *RunCommand) Name() string {
	return "run"
}

// SyncCommand performs catch-up synchronization between the two stores of
// a CQRS configuration.
//
// Writes land on one store at a time, so the other accumulates drift until
// a sync pass copies the differences across. Forward sync catches SurrealDB
// up with PostgreSQL; reverse sync runs the other way for rollback. How
// changes are found depends on the configured strategy: timestamp window
// scans by default, change-log replay when the primary records changes.
//
// Sync is idempotent. Individual record failures are logged and skipped so
// one bad record cannot stall the rest of the pass.
type SyncCommand struct {
	// Direction is "forward" (PostgreSQL to SurrealDB) or "reverse".
	Direction string

	// Since is the inclusive start of the sync window in RFC3339 form.
	// Empty defaults to 24 hours before the sync starts.
	Since string

	// Until is the exclusive end of the sync window in RFC3339 form.
	// Empty defaults to the time the sync starts.
	Until string
}

// Name returns "sync".
func (c *SyncCommand) Name() string {
	return "sync"
}
