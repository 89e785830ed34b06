// Package content defines the tagged-union content model: the block shapes
// that make up a page and the property types that make up a database schema,
// together with their default values, display rendering, validation rules,
// and the wire formats their owning records store them in.
//
// Two closed tag sets drive everything here. [BlockType] selects one of
// seven payload structs implementing [BlockContent]; [PropertyType] selects
// one of twelve value shapes for entry data. Every dispatch over either set
// is an exhaustive switch that rejects unknown tags at the boundary. The
// sets are exported as [BlockTypes] and [PropertyTypes] so tests can iterate
// them and fail loudly when a new tag misses a dispatch site.
//
// The wire formats (block list, property list, entry value map) are each a
// single serialized string stored on the owning record. Parsing is strict,
// and the OrDefault variants implement the recovery policy for corrupted
// stored content: a page degrades to one empty text block, a schema to an
// empty property list, and entry data to an empty map, so a damaged record
// still loads instead of failing the whole view.
package content
