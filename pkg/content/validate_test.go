package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEntryRequiredText(t *testing.T) {
	title := Property{ID: NewPropertyID(), Name: "Title", Type: PropertyTypeText, Required: true}
	schema := []Property{title}

	// Whitespace-only fails the required check.
	failing := ValidateEntry(schema, map[string]any{"Title": "  "})
	assert.Equal(t, []PropertyID{title.ID}, failing)

	// Any real content passes.
	failing = ValidateEntry(schema, map[string]any{"Title": "x"})
	assert.Empty(t, failing)

	// Absent fails.
	failing = ValidateEntry(schema, map[string]any{})
	assert.Equal(t, []PropertyID{title.ID}, failing)

	// Explicit nil fails.
	failing = ValidateEntry(schema, map[string]any{"Title": nil})
	assert.Equal(t, []PropertyID{title.ID}, failing)
}

func TestValidateEntryOptionalPropertiesNeverFail(t *testing.T) {
	schema := []Property{
		{ID: NewPropertyID(), Name: "Notes", Type: PropertyTypeText},
		{ID: NewPropertyID(), Name: "Done", Type: PropertyTypeCheckbox},
	}
	assert.Empty(t, ValidateEntry(schema, map[string]any{}))
}

func TestValidateEntryNonStringPresenceSuffices(t *testing.T) {
	done := Property{ID: NewPropertyID(), Name: "Done", Type: PropertyTypeCheckbox, Required: true}
	schema := []Property{done}

	assert.Empty(t, ValidateEntry(schema, map[string]any{"Done": false}))
	assert.Equal(t, []PropertyID{done.ID}, ValidateEntry(schema, map[string]any{}))
}

func TestValidateEntryFailuresInSchemaOrder(t *testing.T) {
	a := Property{ID: NewPropertyID(), Name: "A", Type: PropertyTypeText, Required: true}
	b := Property{ID: NewPropertyID(), Name: "B", Type: PropertyTypeEmail, Required: true}
	c := Property{ID: NewPropertyID(), Name: "C", Type: PropertyTypeText, Required: true}

	failing := ValidateEntry([]Property{a, b, c}, map[string]any{"B": "x@y.z"})
	assert.Equal(t, []PropertyID{a.ID, c.ID}, failing)
}

func TestValidateEntryDoesNotMutateData(t *testing.T) {
	schema := []Property{{ID: NewPropertyID(), Name: "Title", Type: PropertyTypeText, Required: true}}
	data := map[string]any{"Other": "kept"}

	ValidateEntry(schema, data)
	assert.Equal(t, map[string]any{"Other": "kept"}, data)
}

func TestBuildEmptyEntryKeySetMatchesSchema(t *testing.T) {
	schema := []Property{
		{ID: NewPropertyID(), Name: "Title", Type: PropertyTypeText},
		{ID: NewPropertyID(), Name: "Tags", Type: PropertyTypeMultiSelect, Options: []string{"a"}},
		{ID: NewPropertyID(), Name: "Done", Type: PropertyTypeCheckbox},
		{ID: NewPropertyID(), Name: "Stars", Type: PropertyTypeRating},
		{ID: NewPropertyID(), Name: "Due", Type: PropertyTypeDate},
	}

	data, err := BuildEmptyEntry(schema)
	require.NoError(t, err)

	require.Len(t, data, len(schema))
	assert.Equal(t, "", data["Title"])
	assert.Equal(t, []string{}, data["Tags"])
	assert.Equal(t, false, data["Done"])
	assert.Equal(t, float64(0), data["Stars"])
	assert.Equal(t, "", data["Due"])
}

func TestBuildEmptyEntryRejectsCorruptSchema(t *testing.T) {
	_, err := BuildEmptyEntry([]Property{{ID: NewPropertyID(), Name: "X", Type: "formula"}})
	assert.Error(t, err)
}
