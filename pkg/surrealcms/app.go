package surrealcms

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/surrealdb/surrealcms/pkg/models"
	"github.com/surrealdb/surrealcms/pkg/store"
	"github.com/surrealdb/surrealcms/pkg/store/cqrs"
	"github.com/surrealdb/surrealcms/pkg/store/postgres"
	"github.com/surrealdb/surrealcms/pkg/store/surrealdb"
)

// Config holds application configuration.
type Config struct {
	// Database configuration
	PostgresDSN   string
	SurrealDBURL  string
	SurrealDBNS   string
	SurrealDBDB   string
	SurrealDBUser string
	SurrealDBPass string

	// Mode configuration
	MigrationMode  cqrs.MigrationMode
	ChangeTracking bool          // Log writes on the primary and sync by replaying the log
	SyncInterval   time.Duration // Continuous background sync period, 0 disables
	PostgresOnly   bool
	SurrealOnly    bool
	ReadOnly       bool // When true, all write operations are rejected

	// Server configuration
	ServerPort string
	LogLevel   string
}

// App holds the application state shared by the HTTP handlers and the
// operational commands.
type App struct {
	store    store.Store
	cqrs     *cqrs.CQRSStore // nil outside dual-store configurations
	config   *Config
	readOnly bool

	// In-memory bearer-token sessions. Suitable for a single instance;
	// multiple instances need a shared session store.
	sessionMu sync.RWMutex
	sessions  map[string]*models.User
}

// New creates a new application instance, connecting to the stores the
// configuration selects.
//
// With PostgresOnly or SurrealOnly set, the application talks to that one
// store directly. Otherwise it builds a CQRS pair with PostgreSQL as the
// primary and SurrealDB as the secondary, which is what the migrate and
// sync commands operate on. ChangeTracking upgrades the primary to the
// change-logging variant and switches synchronization to log replay.
func New(config *Config) (*App, error) {
	var appStore store.Store
	var cqrsStore *cqrs.CQRSStore

	switch {
	case config.SurrealOnly:
		sdbStore, err := surrealdb.NewSurrealStoreCBOR(
			config.SurrealDBURL,
			config.SurrealDBNS,
			config.SurrealDBDB,
			config.SurrealDBUser,
			config.SurrealDBPass,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
		}
		log.Info().Msg("connected to SurrealDB")
		appStore = sdbStore

	case config.PostgresOnly:
		pgStore, err := postgres.NewPostgresStore(config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		log.Info().Msg("connected to PostgreSQL")
		appStore = pgStore

	default:
		var pgStore store.Store
		var err error
		if config.ChangeTracking {
			pgStore, err = postgres.NewPostgresStoreWithChangeTracking(config.PostgresDSN)
		} else {
			pgStore, err = postgres.NewPostgresStore(config.PostgresDSN)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		log.Info().Bool("change_tracking", config.ChangeTracking).Msg("connected to PostgreSQL")

		sdbStore, err := surrealdb.NewSurrealStoreCBOR(
			config.SurrealDBURL,
			config.SurrealDBNS,
			config.SurrealDBDB,
			config.SurrealDBUser,
			config.SurrealDBPass,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
		}
		log.Info().Msg("connected to SurrealDB")

		cqrsStore = cqrs.NewCQRSStore(pgStore, sdbStore, config.MigrationMode)
		if config.ChangeTracking {
			cqrsStore.SetSyncStrategy(cqrs.SyncStrategyChangeTracking)
		}
		appStore = cqrsStore
		log.Info().Str("mode", string(config.MigrationMode)).Msg("using CQRS store")
	}

	app := &App{
		cqrs:     cqrsStore,
		config:   config,
		readOnly: config.ReadOnly,
		sessions: make(map[string]*models.User),
	}

	// Wrap the store with read-only protection
	app.store = store.NewReadOnlyStore(appStore, app.IsReadOnly)

	return app, nil
}

// NewWithStore creates an application on an already-constructed store,
// bypassing connection setup. Tests use it to run the HTTP layer against an
// in-memory store.
func NewWithStore(config *Config, s store.Store) *App {
	app := &App{
		config:   config,
		readOnly: config.ReadOnly,
		sessions: make(map[string]*models.User),
	}
	if c, ok := s.(*cqrs.CQRSStore); ok {
		app.cqrs = c
	}
	app.store = store.NewReadOnlyStore(s, app.IsReadOnly)
	return app
}

// Close closes the application and its resources
func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Store returns the underlying store (useful for testing)
func (a *App) Store() store.Store {
	return a.store
}

// SetReadOnly toggles the application's read-only mode at runtime. While
// enabled, every write operation is rejected at the store wrapper and reads
// continue normally. The sync command relies on this to freeze writes
// during the final catch-up pass; it is also the fastest way to stop all
// mutations during an incident.
func (a *App) SetReadOnly(readOnly bool) {
	a.readOnly = readOnly
	log.Info().Bool("read_only", readOnly).Msg("application read-only mode changed")
}

// IsReadOnly reports whether the application is currently read-only. The
// store wrapper calls it on every write, so it stays trivial.
func (a *App) IsReadOnly() bool {
	return a.readOnly
}

// getEnv retrieves an environment variable with a fallback default. Empty
// values count as unset, which matters in container environments where
// variables are often present but blank.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
