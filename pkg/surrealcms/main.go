package surrealcms

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Main is the entry point for the surrealcms application: it parses the
// arguments, builds the application, and executes the selected command.
// Tests call it directly instead of building the binary; cancelling the
// context shuts the run command down gracefully.
//
// Database connections are configured through the environment:
//
//	POSTGRES_DSN     - PostgreSQL connection string
//	SURREALDB_URL    - SurrealDB WebSocket URL (default: ws://localhost:8000/rpc)
//	SURREALDB_NS     - SurrealDB namespace (default: surrealcms)
//	SURREALDB_DB     - SurrealDB database (default: surrealcms)
//	SURREALDB_USER   - SurrealDB username (default: root)
//	SURREALDB_PASS   - SurrealDB password (default: root)
//
// A store migration progresses through the -mode flag without redeploying:
//
//  1. single: CQRS pair with PostgreSQL primary, SurrealDB catching up
//     through sync passes
//  2. read_only: writes frozen while the final catch-up sync runs
//  3. switching: reads served from SurrealDB to validate it under traffic
//  4. reversed: writes land on SurrealDB, PostgreSQL kept for rollback
//  5. -surreal-only: migration complete, PostgreSQL decommissioned
func Main(ctx context.Context, args []string) error {
	cmd, config, err := Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", config.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	app, err := New(config)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer app.Close()

	switch c := cmd.(type) {
	case *MigrateCommand:
		if err := app.Migrate(ctx, c); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	case *RunCommand:
		if err := app.Run(ctx, c); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case *SyncCommand:
		since, err := ParseTime(c.Since, time.Now().Add(-24*time.Hour))
		if err != nil {
			return fmt.Errorf("invalid since time: %w", err)
		}
		until, err := ParseTime(c.Until, time.Now())
		if err != nil {
			return fmt.Errorf("invalid until time: %w", err)
		}

		if err := app.Sync(ctx, c.Direction, since, until); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown command type: %T", cmd)
	}

	return nil
}
