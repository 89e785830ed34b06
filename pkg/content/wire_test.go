package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBlocks() []Block {
	return []Block{
		{ID: "b-1", Type: BlockTypeHeading, Position: 0, Content: HeadingContent{Text: "Launch plan", Level: 2}},
		{ID: "b-2", Type: BlockTypeText, Position: 1, Content: TextContent{Text: "Ship it", Format: TextFormatParagraph}},
		{ID: "b-3", Type: BlockTypeDivider, Position: 2, Content: DividerContent{}},
		{ID: "b-4", Type: BlockTypeGallery, Position: 3, Content: GalleryContent{AssetIDs: []string{"a-1", "a-2"}, Layout: GalleryLayoutMasonry}},
		{ID: "b-5", Type: BlockTypeDatabaseReference, Position: 4, Content: DatabaseReferenceContent{DatabaseID: "d-1", ViewType: RefViewList}},
		{ID: "b-6", Type: BlockTypeImage, Position: 5, Content: ImageContent{URL: "https://cdn.example.com/x.png", Caption: "x"}},
		{ID: "b-7", Type: BlockTypeEmbed, Position: 6, Content: EmbedContent{URL: "https://example.com"}},
	}
}

func TestBlocksRoundTrip(t *testing.T) {
	blocks := sampleBlocks()

	raw, err := MarshalBlocks(blocks)
	require.NoError(t, err)

	decoded, err := UnmarshalBlocks(raw)
	require.NoError(t, err)
	assert.Equal(t, blocks, decoded)
}

func TestBlocksRoundTripEmptyList(t *testing.T) {
	raw, err := MarshalBlocks([]Block{})
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	decoded, err := UnmarshalBlocks(raw)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestMarshalBlocksGolden(t *testing.T) {
	raw, err := MarshalBlocks([]Block{
		{ID: "b-1", Type: BlockTypeHeading, Content: HeadingContent{Text: "Hi", Level: 2}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"b-1","type":"heading","position":0,"content":{"text":"Hi","level":2}}]`, raw)
}

func TestUnmarshalBlocksRecomputesPositions(t *testing.T) {
	// Stored positions lie; array order wins.
	raw := `[
		{"id":"b-1","type":"text","position":7,"content":{"text":"a","format":"paragraph"}},
		{"id":"b-2","type":"text","position":0,"content":{"text":"b","format":"quote"}}
	]`
	blocks, err := UnmarshalBlocks(raw)
	require.NoError(t, err)
	assert.Equal(t, 0, blocks[0].Position)
	assert.Equal(t, 1, blocks[1].Position)
}

func TestUnmarshalBlocksGeneratesMissingIDs(t *testing.T) {
	raw := `[{"type":"divider","content":{}}]`
	blocks, err := UnmarshalBlocks(raw)
	require.NoError(t, err)
	assert.NotEmpty(t, blocks[0].ID)
}

func TestBlockUnmarshalJSONResolvesPayloadType(t *testing.T) {
	var b Block
	raw := `{"id":"b-1","type":"heading","position":3,"content":{"text":"Hi","level":2}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	assert.Equal(t, BlockID("b-1"), b.ID)
	assert.Equal(t, 3, b.Position)
	assert.Equal(t, HeadingContent{Text: "Hi", Level: 2}, b.Content)

	// Slices of blocks decode the same way, as API clients receive them.
	var list []Block
	require.NoError(t, json.Unmarshal([]byte("["+raw+"]"), &list))
	require.Len(t, list, 1)
	assert.Equal(t, b, list[0])

	assert.Error(t, json.Unmarshal([]byte(`{"type":"callout","content":{}}`), &b))
}

func TestUnmarshalBlocksErrors(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"null":            "null",
		"invalid json":    "{garbage",
		"not an array":    `{"id":"b-1"}`,
		"unknown tag":     `[{"id":"b-1","type":"callout","content":{}}]`,
		"missing content": `[{"id":"b-1","type":"text"}]`,
		"wrong shape":     `[{"id":"b-1","type":"heading","content":{"text":"x","level":"two"}}]`,
		"invalid enum":    `[{"id":"b-1","type":"text","content":{"text":"x","format":"shouty"}}]`,
	}
	for name, raw := range cases {
		_, err := UnmarshalBlocks(raw)
		assert.Error(t, err, name)
	}
}

func TestUnmarshalBlocksOrDefaultFallsBackToSingleTextBlock(t *testing.T) {
	for _, raw := range []string{"", "null", "{garbage", `[{"type":"callout","content":{}}]`} {
		blocks := UnmarshalBlocksOrDefault(raw)
		require.Len(t, blocks, 1, "input %q", raw)
		assert.Equal(t, BlockTypeText, blocks[0].Type)
		assert.Equal(t, 0, blocks[0].Position)
		assert.NotEmpty(t, blocks[0].ID)
		assert.Equal(t, TextContent{Text: "", Format: TextFormatParagraph}, blocks[0].Content)
	}
}

func TestUnmarshalBlocksOrDefaultKeepsValidContent(t *testing.T) {
	blocks := sampleBlocks()
	raw, err := MarshalBlocks(blocks)
	require.NoError(t, err)
	assert.Equal(t, blocks, UnmarshalBlocksOrDefault(raw))
}

func TestPropertiesRoundTripPreservesOrder(t *testing.T) {
	schema := []Property{
		{ID: "p-1", Name: "Title", Type: PropertyTypeText, Required: true},
		{ID: "p-2", Name: "Status", Type: PropertyTypeSelect, Options: []string{"Open", "Done"}},
		{ID: "p-3", Name: "Stars", Type: PropertyTypeRating},
	}

	raw, err := MarshalProperties(schema)
	require.NoError(t, err)

	decoded, err := UnmarshalProperties(raw)
	require.NoError(t, err)
	assert.Equal(t, schema, decoded)
}

func TestUnmarshalPropertiesErrors(t *testing.T) {
	_, err := UnmarshalProperties("")
	assert.Error(t, err)
	_, err = UnmarshalProperties("null")
	assert.Error(t, err)
	_, err = UnmarshalProperties(`[{"id":"p-1","name":"","type":"text"}]`)
	assert.Error(t, err)
	_, err = UnmarshalProperties(`[{"id":"p-1","name":"X","type":"formula"}]`)
	assert.Error(t, err)
}

func TestUnmarshalPropertiesAcceptsSelectWithoutOptions(t *testing.T) {
	schema, err := UnmarshalProperties(`[{"id":"p-1","name":"Status","type":"select"}]`)
	require.NoError(t, err)
	require.Len(t, schema, 1)
	assert.Empty(t, schema[0].Options)
}

func TestUnmarshalPropertiesOrDefaultFallsBackToEmptyList(t *testing.T) {
	schema := UnmarshalPropertiesOrDefault("{broken")
	assert.NotNil(t, schema)
	assert.Empty(t, schema)
}

func TestEntryDataRoundTrip(t *testing.T) {
	data := map[string]any{
		"Title": "Apple",
		"Count": 3.5,
		"Done":  true,
		"Tags":  []string{"fruit", "red"},
	}

	raw, err := MarshalEntryData(data)
	require.NoError(t, err)

	decoded, err := UnmarshalEntryData(raw)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestMarshalEntryDataNilMap(t *testing.T) {
	raw, err := MarshalEntryData(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", raw)
}

func TestUnmarshalEntryDataOrDefault(t *testing.T) {
	assert.Empty(t, UnmarshalEntryDataOrDefault(""))
	assert.Empty(t, UnmarshalEntryDataOrDefault("null"))
	assert.Equal(t, map[string]any{"Title": "x"}, UnmarshalEntryDataOrDefault(`{"Title":"x"}`))
}
