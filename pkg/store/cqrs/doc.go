// Package cqrs coordinates two [github.com/surrealdb/surrealcms/pkg/store.Store]
// backends for zero-downtime migration between PostgreSQL and SurrealDB.
//
// [CQRSStore] does not dual-write. The application keeps serving traffic from
// the primary store while background synchronization copies changes to the
// secondary; a brief read-only window at switchover guarantees the two stores
// agree before reads (and later writes) move over.
//
// # Migration Modes
//
// The store routes each operation according to its [MigrationMode]:
//
//   - [ModeSingle]: reads and writes go to the primary store. The default
//     before a migration starts and after it completes. Background sync may
//     run in this mode to warm the secondary.
//   - [ModeReadOnly]: writes are rejected, reads continue from the primary.
//     Used during the final catch-up sync so no change can slip past it.
//   - [ModeSwitching]: reads come from the secondary while writes still go
//     to the primary. Validates the secondary against live traffic with a
//     trivial rollback (switch back to single).
//   - [ModeReversed]: the secondary serves both reads and writes. The last
//     rehearsal before SwapStores makes the promotion permanent.
//
// A full migration walks single -> read_only -> switching -> reversed,
// then calls [CQRSStore.SwapStores] and returns to single mode with the
// stores exchanged.
//
// # Synchronization Strategies
//
// Two [SyncStrategy] values control how catch-up finds work:
//
//   - [SyncStrategyTimestamp] scans created_at/updated_at windows on every
//     table. It needs nothing beyond the timestamp columns the models already
//     carry, but it re-copies unchanged rows that share a window and cannot
//     observe deletes.
//   - [SyncStrategyChangeTracking] replays the change log that
//     [github.com/surrealdb/surrealcms/pkg/store/postgres.TrackingStore]
//     writes transactionally alongside every mutation. It captures creates,
//     updates and deletes exactly, at the cost of requiring the tracking
//     table on the primary.
//
// When the primary does not implement
// [github.com/surrealdb/surrealcms/pkg/store.ChangeTracker], change-tracking
// sync silently falls back to timestamp sync.
//
// # Usage
//
//	primary, _ := postgres.NewPostgresStoreWithChangeTracking(dsn)
//	secondary, _ := surrealdb.NewSurrealStoreCBOR(surrealURL, ns, db, user, pass)
//
//	cs := cqrs.NewCQRSStore(primary, secondary, cqrs.ModeSingle)
//	defer cs.Close()
//
//	cs.SetSyncStrategy(cqrs.SyncStrategyChangeTracking)
//	cs.StartContinuousSync(ctx, 30*time.Second)
//
//	// ... later, at switchover:
//	cs.SetMode(cqrs.ModeReadOnly)
//	cs.SyncWithStrategy(ctx, migrationStart, time.Now())
//	cs.SetMode(cqrs.ModeSwitching)
//	// validate, then:
//	cs.SwapStores()
//	cs.SetMode(cqrs.ModeSingle)
//
// Synchronization is idempotent: records are created when missing and
// replaced when present, so re-running a window or replaying an already
// processed change cannot corrupt the destination.
package cqrs
