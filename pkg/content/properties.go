package content

import (
	"fmt"

	"github.com/google/uuid"
)

// PropertyType identifies the value shape of a schema field. Like BlockType
// the set is closed and every dispatch site is exhaustive over it.
type PropertyType string

const (
	PropertyTypeText        PropertyType = "text"
	PropertyTypeNumber      PropertyType = "number"
	PropertyTypeDate        PropertyType = "date"
	PropertyTypeSelect      PropertyType = "select"
	PropertyTypeMultiSelect PropertyType = "multi_select"
	PropertyTypeCheckbox    PropertyType = "checkbox"
	PropertyTypeURL         PropertyType = "url"
	PropertyTypeEmail       PropertyType = "email"
	PropertyTypePhone       PropertyType = "phone"
	PropertyTypeRating      PropertyType = "rating"
	PropertyTypeFile        PropertyType = "file"
	PropertyTypeImage       PropertyType = "image"
)

// PropertyTypes returns the full property type set in display order.
func PropertyTypes() []PropertyType {
	return []PropertyType{
		PropertyTypeText,
		PropertyTypeNumber,
		PropertyTypeDate,
		PropertyTypeSelect,
		PropertyTypeMultiSelect,
		PropertyTypeCheckbox,
		PropertyTypeURL,
		PropertyTypeEmail,
		PropertyTypePhone,
		PropertyTypeRating,
		PropertyTypeFile,
		PropertyTypeImage,
	}
}

// PropertyID is the opaque identifier of a schema field.
type PropertyID string

func NewPropertyID() PropertyID {
	return PropertyID(uuid.NewString())
}

// Property is one field definition within a database schema.
//
// Name doubles as the display label and as the key into every entry's value
// map. Renaming a property therefore orphans the values stored under the old
// name unless they are migrated; the original system behaves this way and
// the behavior is preserved for compatibility.
type Property struct {
	ID       PropertyID   `json:"id"`
	Name     string       `json:"name"`
	Type     PropertyType `json:"type"`
	Required bool         `json:"required"`
	// Options holds the selectable choices of select and multi_select
	// properties. A fresh select starts with no options; choices accumulate
	// as the user defines them.
	Options []string `json:"options,omitempty"`
}

// Validate checks the definition's structural rules: a known type, a
// non-empty name, and options only on types that select from them.
func (p Property) Validate() error {
	if !knownPropertyType(p.Type) {
		return fmt.Errorf("unknown property type %q", p.Type)
	}
	if p.Name == "" {
		return fmt.Errorf("property name must not be empty")
	}
	if !selectsFromOptions(p.Type) && len(p.Options) > 0 {
		return fmt.Errorf("property %q of type %s must not carry options", p.Name, p.Type)
	}
	return nil
}

// NewProperty creates a schema field with a fresh ID.
func NewProperty(name string, t PropertyType) Property {
	return Property{
		ID:   NewPropertyID(),
		Name: name,
		Type: t,
	}
}

func knownPropertyType(t PropertyType) bool {
	switch t {
	case PropertyTypeText, PropertyTypeNumber, PropertyTypeDate,
		PropertyTypeSelect, PropertyTypeMultiSelect, PropertyTypeCheckbox,
		PropertyTypeURL, PropertyTypeEmail, PropertyTypePhone,
		PropertyTypeRating, PropertyTypeFile, PropertyTypeImage:
		return true
	}
	return false
}

func selectsFromOptions(t PropertyType) bool {
	return t == PropertyTypeSelect || t == PropertyTypeMultiSelect
}

// IsStringValued reports whether values of the given type are stored as
// plain strings. String-valued properties are the only ones included in
// entry text search.
func IsStringValued(t PropertyType) bool {
	switch t {
	case PropertyTypeText, PropertyTypeDate, PropertyTypeSelect,
		PropertyTypeURL, PropertyTypeEmail, PropertyTypePhone,
		PropertyTypeFile, PropertyTypeImage:
		return true
	}
	return false
}

// ZeroValue returns the initial value an entry holds for a property of the
// given type before the user sets one. Total over the type set; unknown
// types are rejected at the boundary like unknown block tags.
func ZeroValue(t PropertyType) (any, error) {
	switch t {
	case PropertyTypeText, PropertyTypeDate, PropertyTypeSelect,
		PropertyTypeURL, PropertyTypeEmail, PropertyTypePhone,
		PropertyTypeFile, PropertyTypeImage:
		return "", nil
	case PropertyTypeNumber, PropertyTypeRating:
		return float64(0), nil
	case PropertyTypeCheckbox:
		return false, nil
	case PropertyTypeMultiSelect:
		return []string{}, nil
	default:
		return nil, fmt.Errorf("unknown property type %q", t)
	}
}

// PropertyTypeLabel returns the human-readable name of a property type.
func PropertyTypeLabel(t PropertyType) (string, error) {
	switch t {
	case PropertyTypeText:
		return "Text", nil
	case PropertyTypeNumber:
		return "Number", nil
	case PropertyTypeDate:
		return "Date", nil
	case PropertyTypeSelect:
		return "Select", nil
	case PropertyTypeMultiSelect:
		return "Multi-select", nil
	case PropertyTypeCheckbox:
		return "Checkbox", nil
	case PropertyTypeURL:
		return "URL", nil
	case PropertyTypeEmail:
		return "Email", nil
	case PropertyTypePhone:
		return "Phone", nil
	case PropertyTypeRating:
		return "Rating", nil
	case PropertyTypeFile:
		return "File", nil
	case PropertyTypeImage:
		return "Image", nil
	default:
		return "", fmt.Errorf("unknown property type %q", t)
	}
}

// PropertyTypeIcon returns the icon identifier a front end shows next to a
// property type. The identifiers follow common icon-set naming.
func PropertyTypeIcon(t PropertyType) (string, error) {
	switch t {
	case PropertyTypeText:
		return "align-left", nil
	case PropertyTypeNumber:
		return "hash", nil
	case PropertyTypeDate:
		return "calendar", nil
	case PropertyTypeSelect:
		return "chevron-down", nil
	case PropertyTypeMultiSelect:
		return "tags", nil
	case PropertyTypeCheckbox:
		return "check-square", nil
	case PropertyTypeURL:
		return "link", nil
	case PropertyTypeEmail:
		return "mail", nil
	case PropertyTypePhone:
		return "phone", nil
	case PropertyTypeRating:
		return "star", nil
	case PropertyTypeFile:
		return "paperclip", nil
	case PropertyTypeImage:
		return "image", nil
	default:
		return "", fmt.Errorf("unknown property type %q", t)
	}
}
