package editor

import "github.com/surrealdb/surrealcms/pkg/content"

// DatabaseRef describes the resolution of one database_reference block.
// An empty DatabaseID is an unresolved placeholder the user has not filled
// in yet; a non-empty ID that the lookup cannot resolve is reported as not
// found rather than an error, so a deleted database degrades to an
// explicit missing state in the page.
type DatabaseRef struct {
	BlockID    content.BlockID `json:"block_id"`
	DatabaseID string          `json:"database_id"`
	Found      bool            `json:"found"`
	Name       string          `json:"name,omitempty"`
}

// AnnotateReferences resolves every database_reference block in the
// sequence through the lookup function, which returns the database's
// display name and whether the ID resolves. Blocks of other tags are
// skipped.
func AnnotateReferences(blocks []content.Block, lookup func(id string) (string, bool)) []DatabaseRef {
	refs := make([]DatabaseRef, 0)
	for _, b := range blocks {
		ref, ok := b.Content.(content.DatabaseReferenceContent)
		if !ok {
			continue
		}
		out := DatabaseRef{BlockID: b.ID, DatabaseID: ref.DatabaseID}
		if ref.DatabaseID != "" {
			out.Name, out.Found = lookup(ref.DatabaseID)
		}
		refs = append(refs, out)
	}
	return refs
}
