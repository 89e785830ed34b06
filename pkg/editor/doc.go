// Package editor implements the in-memory editing sessions for page
// content, database schemas, and entries.
//
// Each editor owns a working copy of its structure plus a snapshot of the
// last-saved state. Mutations apply synchronously to the working copy and
// move the session from idle to editing; Save serializes the working copy
// for the persistence layer and advances the snapshot; Discard reverts to
// the snapshot. Both settle the session back to idle. In-memory state is
// the source of truth between saves, so a failed persistence call loses
// nothing: the user retries the save with the edits intact.
//
// BlockEditor re-derives block positions from slice order after every
// mutation, keeping them contiguous from zero. SchemaEditor applies the
// same adjacency-swap discipline to property order, which drives column
// and field order everywhere a database renders. EntryForm edits a value
// map keyed by property name and runs the advisory required-field check.
package editor
