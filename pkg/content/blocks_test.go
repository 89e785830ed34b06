package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every tag must have a default payload whose type matches the tag. A tag
// added to the set without a DefaultContent branch fails here.
func TestDefaultContentTotalOverTagSet(t *testing.T) {
	for _, tag := range BlockTypes() {
		c, err := DefaultContent(tag)
		require.NoError(t, err, "tag %s", tag)
		assert.Equal(t, tag, c.BlockType(), "tag %s", tag)
		assert.NoError(t, c.Validate(), "default payload for %s must validate", tag)
	}
}

func TestDefaultContentRejectsUnknownTag(t *testing.T) {
	_, err := DefaultContent("callout")
	assert.Error(t, err)

	_, err = NewBlock("callout")
	assert.Error(t, err)
}

func TestDefaultContentShapes(t *testing.T) {
	heading, err := DefaultContent(BlockTypeHeading)
	require.NoError(t, err)
	assert.Equal(t, HeadingContent{Text: "", Level: 1}, heading)

	text, err := DefaultContent(BlockTypeText)
	require.NoError(t, err)
	assert.Equal(t, TextContent{Text: "", Format: TextFormatParagraph}, text)

	ref, err := DefaultContent(BlockTypeDatabaseReference)
	require.NoError(t, err)
	assert.Equal(t, DatabaseReferenceContent{DatabaseID: "", ViewType: RefViewTable}, ref)

	gallery, err := DefaultContent(BlockTypeGallery)
	require.NoError(t, err)
	assert.Equal(t, GalleryContent{AssetIDs: []string{}, Layout: GalleryLayoutGrid}, gallery)
}

func TestNewBlockAssignsID(t *testing.T) {
	b1, err := NewBlock(BlockTypeDivider)
	require.NoError(t, err)
	b2, err := NewBlock(BlockTypeDivider)
	require.NoError(t, err)

	assert.NotEmpty(t, b1.ID)
	assert.NotEqual(t, b1.ID, b2.ID)
}

func TestContentValidation(t *testing.T) {
	assert.NoError(t, TextContent{Format: TextFormatQuote}.Validate())
	assert.Error(t, TextContent{Format: "shouty"}.Validate())

	assert.NoError(t, HeadingContent{Level: 3}.Validate())
	assert.Error(t, HeadingContent{Level: 0}.Validate())
	assert.Error(t, HeadingContent{Level: 4}.Validate())

	assert.NoError(t, DatabaseReferenceContent{ViewType: RefViewList}.Validate())
	assert.Error(t, DatabaseReferenceContent{ViewType: "kanban"}.Validate())

	assert.NoError(t, GalleryContent{Layout: GalleryLayoutMasonry}.Validate())
	assert.Error(t, GalleryContent{Layout: "carousel"}.Validate())
}
