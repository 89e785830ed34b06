package editor

import (
	"strings"

	"github.com/surrealdb/surrealcms/pkg/content"
)

// MatchEntry reports whether an entry's data matches a free-text query.
// The match is a case-insensitive substring test over the values of
// string-valued properties; numbers, checkboxes, ratings, and
// multi-selects never participate. An empty query matches every entry.
func MatchEntry(schema []content.Property, data map[string]any, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, p := range schema {
		if !content.IsStringValued(p.Type) {
			continue
		}
		s, ok := data[p.Name].(string)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// FilterEntries returns the subset of data maps matching the query, in the
// original order. The schema decides which properties are searchable.
func FilterEntries(schema []content.Property, entries []map[string]any, query string) []map[string]any {
	matched := make([]map[string]any, 0, len(entries))
	for _, data := range entries {
		if MatchEntry(schema, data, query) {
			matched = append(matched, data)
		}
	}
	return matched
}
