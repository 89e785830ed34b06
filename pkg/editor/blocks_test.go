package editor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surrealdb/surrealcms/pkg/content"
)

func mustBlock(t *testing.T, tag content.BlockType) content.Block {
	t.Helper()
	b, err := content.NewBlock(tag)
	require.NoError(t, err)
	return b
}

func assertContiguous(t *testing.T, blocks []content.Block) {
	t.Helper()
	for i, b := range blocks {
		assert.Equal(t, i, b.Position, "position at index %d", i)
	}
}

func TestNewBlockEditorNormalizesPositions(t *testing.T) {
	a := mustBlock(t, content.BlockTypeText)
	b := mustBlock(t, content.BlockTypeDivider)
	a.Position = 7
	b.Position = 3

	e := NewBlockEditor([]content.Block{a, b})

	blocks := e.Blocks()
	require.Len(t, blocks, 2)
	assertContiguous(t, blocks)
	assert.Equal(t, a.ID, blocks[0].ID)
	assert.Equal(t, b.ID, blocks[1].ID)
	assert.Equal(t, StateIdle, e.State())
}

func TestInsertAppendsWhenPositionOmitted(t *testing.T) {
	e := NewBlockEditor(nil)

	first, err := e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)
	second, err := e.Insert(content.BlockTypeHeading, nil)
	require.NoError(t, err)

	blocks := e.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, first.ID, blocks[0].ID)
	assert.Equal(t, second.ID, blocks[1].ID)
	assertContiguous(t, blocks)
	assert.Equal(t, StateEditing, e.State())
}

func TestInsertAfterPosition(t *testing.T) {
	e := NewBlockEditor(nil)
	_, err := e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)
	_, err = e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)

	after := 0
	mid, err := e.Insert(content.BlockTypeDivider, &after)
	require.NoError(t, err)

	blocks := e.Blocks()
	require.Len(t, blocks, 3)
	assert.Equal(t, mid.ID, blocks[1].ID)
	assert.Equal(t, content.BlockTypeDivider, blocks[1].Type)
	assertContiguous(t, blocks)
}

func TestInsertClampsOutOfRangePositions(t *testing.T) {
	e := NewBlockEditor(nil)
	_, err := e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)

	low := -5
	front, err := e.Insert(content.BlockTypeHeading, &low)
	require.NoError(t, err)
	high := 99
	back, err := e.Insert(content.BlockTypeEmbed, &high)
	require.NoError(t, err)

	blocks := e.Blocks()
	require.Len(t, blocks, 3)
	assert.Equal(t, front.ID, blocks[0].ID)
	assert.Equal(t, back.ID, blocks[2].ID)
	assertContiguous(t, blocks)
}

func TestInsertRejectsUnknownTag(t *testing.T) {
	e := NewBlockEditor(nil)
	_, err := e.Insert(content.BlockType("callout"), nil)
	require.Error(t, err)
	assert.Equal(t, 0, e.Len())
	assert.Equal(t, StateIdle, e.State())
}

func TestInsertGivesTagDefaultContent(t *testing.T) {
	e := NewBlockEditor(nil)
	b, err := e.Insert(content.BlockTypeGallery, nil)
	require.NoError(t, err)

	gallery, ok := b.Content.(content.GalleryContent)
	require.True(t, ok)
	assert.Equal(t, content.GalleryLayoutGrid, gallery.Layout)
	assert.NotNil(t, gallery.AssetIDs)
	assert.Empty(t, gallery.AssetIDs)
}

func TestUpdateReplacesPayloadKeepsPosition(t *testing.T) {
	e := NewBlockEditor(nil)
	_, err := e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)
	target, err := e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)
	_, err = e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)

	err = e.Update(target.ID, content.TextContent{Text: "updated", Format: content.TextFormatQuote})
	require.NoError(t, err)

	blocks := e.Blocks()
	assert.Equal(t, 1, blocks[1].Position)
	assert.Equal(t, target.ID, blocks[1].ID)
	text, ok := blocks[1].Content.(content.TextContent)
	require.True(t, ok)
	assert.Equal(t, "updated", text.Text)
	assert.Equal(t, content.TextFormatQuote, text.Format)
}

func TestUpdateCanChangeBlockTag(t *testing.T) {
	e := NewBlockEditor(nil)
	b, err := e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)

	err = e.Update(b.ID, content.HeadingContent{Text: "Title", Level: 2})
	require.NoError(t, err)

	blocks := e.Blocks()
	assert.Equal(t, content.BlockTypeHeading, blocks[0].Type)
}

func TestUpdateUnknownIDFails(t *testing.T) {
	e := NewBlockEditor(nil)
	_, err := e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)
	before, err := e.Serialize()
	require.NoError(t, err)

	err = e.Update(content.BlockID("missing"), content.TextContent{Format: content.TextFormatParagraph})
	require.ErrorIs(t, err, ErrBlockNotFound)

	after, err := e.Serialize()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateRejectsInvalidContent(t *testing.T) {
	e := NewBlockEditor(nil)
	b, err := e.Insert(content.BlockTypeHeading, nil)
	require.NoError(t, err)

	err = e.Update(b.ID, content.HeadingContent{Level: 9})
	require.Error(t, err)

	blocks := e.Blocks()
	heading, ok := blocks[0].Content.(content.HeadingContent)
	require.True(t, ok)
	assert.Equal(t, 1, heading.Level)
}

func TestMoveSwapsNeighbors(t *testing.T) {
	e := NewBlockEditor(nil)
	a, err := e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)
	b, err := e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)
	c, err := e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)

	moved, err := e.Move(c.ID, DirectionUp)
	require.NoError(t, err)
	assert.True(t, moved)

	blocks := e.Blocks()
	assert.Equal(t, []content.BlockID{a.ID, c.ID, b.ID}, blockIDs(blocks))
	assertContiguous(t, blocks)
}

func TestMoveBoundariesAreNoOps(t *testing.T) {
	e := NewBlockEditor(nil)
	first, err := e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)
	last, err := e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)

	moved, err := e.Move(first.ID, DirectionUp)
	require.NoError(t, err)
	assert.False(t, moved)
	moved, err = e.Move(last.ID, DirectionDown)
	require.NoError(t, err)
	assert.False(t, moved)

	blocks := e.Blocks()
	assert.Equal(t, []content.BlockID{first.ID, last.ID}, blockIDs(blocks))
	assertContiguous(t, blocks)
}

func TestMoveUnknownIDFails(t *testing.T) {
	e := NewBlockEditor(nil)
	_, err := e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)

	_, err = e.Move(content.BlockID("missing"), DirectionUp)
	require.ErrorIs(t, err, ErrBlockNotFound)
}

func TestMoveRejectsInvalidDirection(t *testing.T) {
	e := NewBlockEditor(nil)
	b, err := e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)

	_, err = e.Move(b.ID, Direction("sideways"))
	require.ErrorIs(t, err, ErrInvalidDirection)
}

func TestRemoveClosesGap(t *testing.T) {
	e := NewBlockEditor(nil)
	a, err := e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)
	b, err := e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)
	c, err := e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)

	require.NoError(t, e.Remove(b.ID))

	blocks := e.Blocks()
	assert.Equal(t, []content.BlockID{a.ID, c.ID}, blockIDs(blocks))
	assertContiguous(t, blocks)

	err = e.Remove(content.BlockID("missing"))
	require.ErrorIs(t, err, ErrBlockNotFound)
}

// Positions stay contiguous under any interleaving of structural edits.
func TestPositionsContiguousUnderRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	e := NewBlockEditor(nil)
	tags := content.BlockTypes()

	for i := 0; i < 200; i++ {
		switch op := rng.Intn(4); {
		case op == 0 || e.Len() == 0:
			after := rng.Intn(e.Len()+2) - 1
			var at *int
			if after >= 0 {
				at = &after
			}
			_, err := e.Insert(tags[rng.Intn(len(tags))], at)
			require.NoError(t, err)
		case op == 1:
			blocks := e.Blocks()
			require.NoError(t, e.Remove(blocks[rng.Intn(len(blocks))].ID))
		case op == 2:
			blocks := e.Blocks()
			dir := DirectionUp
			if rng.Intn(2) == 0 {
				dir = DirectionDown
			}
			_, err := e.Move(blocks[rng.Intn(len(blocks))].ID, dir)
			require.NoError(t, err)
		default:
			blocks := e.Blocks()
			target := blocks[rng.Intn(len(blocks))]
			err := e.Update(target.ID, content.TextContent{Text: "t", Format: content.TextFormatParagraph})
			require.NoError(t, err)
		}
		assertContiguous(t, e.Blocks())
	}
}

func TestSaveSettlesAndRoundTrips(t *testing.T) {
	e := NewBlockEditor(nil)
	b, err := e.Insert(content.BlockTypeHeading, nil)
	require.NoError(t, err)
	require.NoError(t, e.Update(b.ID, content.HeadingContent{Text: "Roadmap", Level: 1}))
	assert.True(t, e.Dirty())

	raw, err := e.Save()
	require.NoError(t, err)
	assert.Equal(t, StateIdle, e.State())

	decoded, err := content.UnmarshalBlocks(raw)
	require.NoError(t, err)
	assert.Equal(t, e.Blocks(), decoded)
}

func TestDiscardRevertsToLastSave(t *testing.T) {
	e := NewBlockEditor(nil)
	b, err := e.Insert(content.BlockTypeText, nil)
	require.NoError(t, err)
	require.NoError(t, e.Update(b.ID, content.TextContent{Text: "keep", Format: content.TextFormatParagraph}))
	_, err = e.Save()
	require.NoError(t, err)

	require.NoError(t, e.Update(b.ID, content.TextContent{Text: "throw away", Format: content.TextFormatParagraph}))
	_, err = e.Insert(content.BlockTypeDivider, nil)
	require.NoError(t, err)
	assert.True(t, e.Dirty())

	e.Discard()

	assert.Equal(t, StateIdle, e.State())
	blocks := e.Blocks()
	require.Len(t, blocks, 1)
	text, ok := blocks[0].Content.(content.TextContent)
	require.True(t, ok)
	assert.Equal(t, "keep", text.Text)
}

func TestDiscardBeforeAnySaveRevertsToInitial(t *testing.T) {
	initial := mustBlock(t, content.BlockTypeText)
	e := NewBlockEditor([]content.Block{initial})

	_, err := e.Insert(content.BlockTypeDivider, nil)
	require.NoError(t, err)
	e.Discard()

	blocks := e.Blocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, initial.ID, blocks[0].ID)
}

func TestBlocksReturnsDeepCopy(t *testing.T) {
	e := NewBlockEditor(nil)
	b, err := e.Insert(content.BlockTypeGallery, nil)
	require.NoError(t, err)
	require.NoError(t, e.Update(b.ID, content.GalleryContent{
		AssetIDs: []string{"a1"},
		Layout:   content.GalleryLayoutMasonry,
	}))

	leaked := e.Blocks()
	gallery := leaked[0].Content.(content.GalleryContent)
	gallery.AssetIDs[0] = "tampered"

	fresh := e.Blocks()[0].Content.(content.GalleryContent)
	assert.Equal(t, []string{"a1"}, fresh.AssetIDs)
}

func TestLoadBlockEditorRecoversFromMalformedContent(t *testing.T) {
	for _, raw := range []string{"", "null", "{broken", `{"not":"a list"}`} {
		e := LoadBlockEditor(raw)
		blocks := e.Blocks()
		require.Len(t, blocks, 1, "raw %q", raw)
		assert.Equal(t, content.BlockTypeText, blocks[0].Type)
		text, ok := blocks[0].Content.(content.TextContent)
		require.True(t, ok)
		assert.Empty(t, text.Text)
		assert.Equal(t, 0, blocks[0].Position)
	}
}

func blockIDs(blocks []content.Block) []content.BlockID {
	ids := make([]content.BlockID, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}
	return ids
}
