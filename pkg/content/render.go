package content

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EmptyMarker is the fixed token shown for an absent or empty value.
// Rendering never produces a bare empty string for a cell.
const EmptyMarker = "—"

const (
	checkboxChecked   = "☑"
	checkboxUnchecked = "☐"
	ratingFilled      = "★"
	ratingEmpty       = "☆"
	ratingSlots       = 5
)

// dateLayouts are tried in order when rendering a stored date value.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// RenderValue produces the read-only display string for one entry value.
//
// Policy: absent or empty values render as EmptyMarker; checkboxes always
// render a boolean glyph; select and multi_select render their choice
// tokens; dates render in a human format; ratings render a fixed five-slot
// scale regardless of any configured maximum. Unknown property types are a
// contract violation, reported as an error rather than rendered as text.
func RenderValue(t PropertyType, value any) (string, error) {
	switch t {
	case PropertyTypeText, PropertyTypeURL, PropertyTypeEmail,
		PropertyTypePhone, PropertyTypeFile, PropertyTypeImage,
		PropertyTypeSelect:
		s, _ := asString(value)
		if s == "" {
			return EmptyMarker, nil
		}
		return s, nil

	case PropertyTypeNumber:
		n, ok := asNumber(value)
		if !ok {
			return EmptyMarker, nil
		}
		return strconv.FormatFloat(n, 'f', -1, 64), nil

	case PropertyTypeDate:
		s, _ := asString(value)
		if s == "" {
			return EmptyMarker, nil
		}
		return renderDate(s), nil

	case PropertyTypeMultiSelect:
		choices := asStringSlice(value)
		if len(choices) == 0 {
			return EmptyMarker, nil
		}
		return strings.Join(choices, ", "), nil

	case PropertyTypeCheckbox:
		if b, ok := value.(bool); ok && b {
			return checkboxChecked, nil
		}
		return checkboxUnchecked, nil

	case PropertyTypeRating:
		n, _ := asNumber(value)
		filled := int(n)
		if filled < 0 {
			filled = 0
		}
		if filled > ratingSlots {
			filled = ratingSlots
		}
		return strings.Repeat(ratingFilled, filled) + strings.Repeat(ratingEmpty, ratingSlots-filled), nil

	default:
		return "", fmt.Errorf("unknown property type %q", t)
	}
}

func renderDate(s string) string {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.Format("Jan 2, 2006")
		}
	}
	// Unparseable dates are shown as stored rather than hidden.
	return s
}

func asString(value any) (string, bool) {
	s, ok := value.(string)
	return s, ok
}

// asNumber accepts the numeric shapes that reach us: float64 from JSON
// decoding and int/int64 from values constructed in code.
func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// asStringSlice accepts []string and the []any that JSON decoding yields.
func asStringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
