package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surrealdb/surrealcms/pkg/content"
)

func TestAnnotateReferences(t *testing.T) {
	blocks := []content.Block{
		{ID: "b-text", Type: content.BlockTypeText, Content: content.TextContent{Format: content.TextFormatParagraph}},
		{ID: "b-live", Type: content.BlockTypeDatabaseReference, Content: content.DatabaseReferenceContent{
			DatabaseID: "db-1", ViewType: content.RefViewTable,
		}},
		{ID: "b-gone", Type: content.BlockTypeDatabaseReference, Content: content.DatabaseReferenceContent{
			DatabaseID: "db-deleted", ViewType: content.RefViewList,
		}},
		{ID: "b-blank", Type: content.BlockTypeDatabaseReference, Content: content.DatabaseReferenceContent{
			ViewType: content.RefViewTable,
		}},
	}
	lookup := func(id string) (string, bool) {
		if id == "db-1" {
			return "Tasks", true
		}
		return "", false
	}

	refs := AnnotateReferences(blocks, lookup)
	require.Len(t, refs, 3)

	assert.Equal(t, DatabaseRef{BlockID: "b-live", DatabaseID: "db-1", Found: true, Name: "Tasks"}, refs[0])
	assert.Equal(t, DatabaseRef{BlockID: "b-gone", DatabaseID: "db-deleted", Found: false}, refs[1])
	// A blank reference is a placeholder, not a lookup failure.
	assert.Equal(t, DatabaseRef{BlockID: "b-blank", DatabaseID: "", Found: false}, refs[2])
}

func TestAnnotateReferencesNoRefs(t *testing.T) {
	blocks := []content.Block{
		{ID: "b-1", Type: content.BlockTypeDivider, Content: content.DividerContent{}},
	}
	refs := AnnotateReferences(blocks, func(string) (string, bool) { return "", false })
	assert.Empty(t, refs)
	assert.NotNil(t, refs)
}
