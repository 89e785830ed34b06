package editor

import (
	"errors"
	"fmt"

	"github.com/mohae/deepcopy"

	"github.com/surrealdb/surrealcms/pkg/content"
)

// ErrPropertyNotFound reports an edit addressed to a property ID that is
// not in the schema.
var ErrPropertyNotFound = errors.New("property not found")

// SchemaEditor maintains one database's ordered property list under
// structural edits, with the same position invariant and session state
// machine as BlockEditor. Property names double as the storage keys of
// entry data, so renames here orphan existing values; the entry form
// surfaces those as extra keys rather than dropping them.
type SchemaEditor struct {
	session
	props    []content.Property
	snapshot []content.Property
}

// NewSchemaEditor starts a session over the given property list.
func NewSchemaEditor(props []content.Property) *SchemaEditor {
	e := &SchemaEditor{props: copyProperties(props)}
	e.snapshot = copyProperties(e.props)
	return e
}

// LoadSchemaEditor starts a session from a database's stored schema
// string, applying the malformed-schema fallback: corrupted input degrades
// to an empty property list.
func LoadSchemaEditor(raw string) *SchemaEditor {
	return NewSchemaEditor(content.UnmarshalPropertiesOrDefault(raw))
}

// Properties returns a deep copy of the current list in order.
func (e *SchemaEditor) Properties() []content.Property {
	return copyProperties(e.props)
}

// Len returns the number of properties in the schema.
func (e *SchemaEditor) Len() int {
	return len(e.props)
}

// AddProperty creates a property of the given type and appends it to the
// schema. Select types start with no options; callers add choices through
// UpdateProperty.
func (e *SchemaEditor) AddProperty(name string, t content.PropertyType) (content.Property, error) {
	p := content.NewProperty(name, t)
	if err := p.Validate(); err != nil {
		return content.Property{}, err
	}
	e.props = append(e.props, p)
	e.markEditing()
	return p, nil
}

// UpdateProperty replaces the property carrying p's ID with p. Renaming is
// allowed but detaches the previous name's stored values.
func (e *SchemaEditor) UpdateProperty(p content.Property) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("property %s: %w", p.ID, err)
	}
	i := e.indexOf(p.ID)
	if i < 0 {
		return fmt.Errorf("update property %s: %w", p.ID, ErrPropertyNotFound)
	}
	e.props[i] = p
	e.markEditing()
	return nil
}

// MoveProperty swaps the property with its immediate neighbor in the given
// direction and reports whether anything moved. Boundary moves are no-ops.
func (e *SchemaEditor) MoveProperty(id content.PropertyID, dir Direction) (bool, error) {
	if !dir.Valid() {
		return false, fmt.Errorf("move property %s: %w: %q", id, ErrInvalidDirection, dir)
	}
	i := e.indexOf(id)
	if i < 0 {
		return false, fmt.Errorf("move property %s: %w", id, ErrPropertyNotFound)
	}

	j := i - 1
	if dir == DirectionDown {
		j = i + 1
	}
	if j < 0 || j >= len(e.props) {
		return false, nil
	}

	e.props[i], e.props[j] = e.props[j], e.props[i]
	e.markEditing()
	return true, nil
}

// RemoveProperty deletes the property with the matching ID. Entry data
// stored under the property's name is not touched; it becomes an orphaned
// key.
func (e *SchemaEditor) RemoveProperty(id content.PropertyID) error {
	i := e.indexOf(id)
	if i < 0 {
		return fmt.Errorf("remove property %s: %w", id, ErrPropertyNotFound)
	}
	e.props = append(e.props[:i], e.props[i+1:]...)
	e.markEditing()
	return nil
}

// Serialize returns the current schema in the database schema wire format
// without changing the session state.
func (e *SchemaEditor) Serialize() (string, error) {
	return content.MarshalProperties(e.props)
}

// Save serializes the schema, advances the snapshot, and settles the
// session back to idle.
func (e *SchemaEditor) Save() (string, error) {
	raw, err := content.MarshalProperties(e.props)
	if err != nil {
		return "", err
	}
	e.snapshot = copyProperties(e.props)
	e.settle()
	return raw, nil
}

// Discard reverts the schema to the last-saved snapshot and settles the
// session back to idle.
func (e *SchemaEditor) Discard() {
	e.props = copyProperties(e.snapshot)
	e.settle()
}

func (e *SchemaEditor) indexOf(id content.PropertyID) int {
	for i, p := range e.props {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func copyProperties(props []content.Property) []content.Property {
	if props == nil {
		return nil
	}
	return deepcopy.Copy(props).([]content.Property)
}
