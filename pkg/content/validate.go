package content

import "strings"

// ValidateEntry checks an entry's values against the schema's required
// flags and returns the IDs of failing properties in schema order. A
// required value fails when it is absent, and string-valued properties
// additionally fail when empty after trimming whitespace. The data map is
// never mutated.
//
// Validation is advisory: callers surface the failing IDs as per-field
// markers, and a save is not blocked on them. Required is enforced only at
// entry-edit time, never retroactively on schema change.
func ValidateEntry(schema []Property, data map[string]any) []PropertyID {
	var failing []PropertyID
	for _, p := range schema {
		if !p.Required {
			continue
		}
		value, ok := data[p.Name]
		if !ok || value == nil {
			failing = append(failing, p.ID)
			continue
		}
		if IsStringValued(p.Type) {
			s, _ := asString(value)
			if strings.TrimSpace(s) == "" {
				failing = append(failing, p.ID)
			}
		}
	}
	return failing
}

// BuildEmptyEntry produces the value map a fresh entry starts from: one key
// per property name, each holding that type's zero value. The key set
// equals the schema's property names exactly. Properties with an unknown
// type indicate a corrupted schema and are reported, not skipped.
func BuildEmptyEntry(schema []Property) (map[string]any, error) {
	data := make(map[string]any, len(schema))
	for _, p := range schema {
		zero, err := ZeroValue(p.Type)
		if err != nil {
			return nil, err
		}
		data[p.Name] = zero
	}
	return data, nil
}
