package surrealcms

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Migrate initializes or updates the schema of every configured store:
// GORM AutoMigrate for PostgreSQL, an implicit no-op for SurrealDB, both
// stores in sequence for a CQRS configuration. It only adds missing schema
// elements, so running it repeatedly is safe.
func (a *App) Migrate(ctx context.Context, cmd *MigrateCommand) error {
	log.Info().Msg("running database migrations")
	if err := a.store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info().Msg("migrations completed")
	return nil
}
