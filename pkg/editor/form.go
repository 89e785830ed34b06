package editor

import (
	"fmt"

	"github.com/mohae/deepcopy"

	"github.com/surrealdb/surrealcms/pkg/content"
)

// EntryForm maintains one entry's value map while it is edited against a
// database schema. Values are keyed by property name. Keys no longer
// backed by a schema property are kept as-is; they reappear if the
// property is recreated under the same name.
//
// Validation is advisory: Validate and Save report failing required
// properties, but Save never blocks on them. The persistence collaborator
// receives the serialized data either way.
type EntryForm struct {
	session
	schema   []content.Property
	data     map[string]any
	snapshot map[string]any
}

// NewEntryForm starts a form for a fresh entry with every schema property
// set to its type's zero value. The only failure is a schema property of
// unknown type.
func NewEntryForm(schema []content.Property) (*EntryForm, error) {
	data, err := content.BuildEmptyEntry(schema)
	if err != nil {
		return nil, err
	}
	f := &EntryForm{
		schema: copyProperties(schema),
		data:   data,
	}
	f.snapshot = copyEntryData(f.data)
	return f, nil
}

// LoadEntryForm starts a form from an entry's stored data string. Missing
// schema properties are filled with zero values; malformed data degrades
// to an empty map before filling, so the form always opens.
func LoadEntryForm(schema []content.Property, raw string) (*EntryForm, error) {
	data := content.UnmarshalEntryDataOrDefault(raw)
	for _, p := range schema {
		if _, ok := data[p.Name]; ok {
			continue
		}
		zero, err := content.ZeroValue(p.Type)
		if err != nil {
			return nil, err
		}
		data[p.Name] = zero
	}
	f := &EntryForm{
		schema: copyProperties(schema),
		data:   data,
	}
	f.snapshot = copyEntryData(f.data)
	return f, nil
}

// Data returns a deep copy of the current value map.
func (f *EntryForm) Data() map[string]any {
	return copyEntryData(f.data)
}

// Get returns the current value for the named property and whether the
// key exists.
func (f *EntryForm) Get(name string) (any, bool) {
	v, ok := f.data[name]
	return v, ok
}

// Set stores a value for the named property. Names outside the schema are
// rejected; orphaned keys can only be read back, not written.
func (f *EntryForm) Set(name string, value any) error {
	if !f.hasProperty(name) {
		return fmt.Errorf("set %q: %w", name, ErrPropertyNotFound)
	}
	f.data[name] = value
	f.markEditing()
	return nil
}

// Validate runs the required-property check against the current values and
// returns the IDs of failing properties in schema order. It never mutates
// the form.
func (f *EntryForm) Validate() []content.PropertyID {
	return content.ValidateEntry(f.schema, f.data)
}

// Save serializes the current values, advances the snapshot, and settles
// the session back to idle. Validation failures are reported alongside the
// serialized data but do not block the save.
func (f *EntryForm) Save() (string, []content.PropertyID, error) {
	raw, err := content.MarshalEntryData(f.data)
	if err != nil {
		return "", nil, err
	}
	failing := content.ValidateEntry(f.schema, f.data)
	f.snapshot = copyEntryData(f.data)
	f.settle()
	return raw, failing, nil
}

// Discard reverts the values to the last-saved snapshot and settles the
// session back to idle.
func (f *EntryForm) Discard() {
	f.data = copyEntryData(f.snapshot)
	f.settle()
}

func (f *EntryForm) hasProperty(name string) bool {
	for _, p := range f.schema {
		if p.Name == name {
			return true
		}
	}
	return false
}

func copyEntryData(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	return deepcopy.Copy(data).(map[string]any)
}
