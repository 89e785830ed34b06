package content

import (
	"encoding/json"
	"fmt"
)

// The page, schema, and entry wire formats are each stored as a single
// opaque string field on their owning record. This package is solely
// responsible for round-trip fidelity of those strings; the store layer
// never looks inside them.

// blockEnvelope mirrors Block with the payload left raw so it can be
// decoded according to the tag.
type blockEnvelope struct {
	ID       BlockID         `json:"id"`
	Type     BlockType       `json:"type"`
	Position int             `json:"position"`
	Content  json.RawMessage `json:"content"`
}

// UnmarshalJSON decodes a single block, resolving the interface-typed
// payload from the tag. Positions are taken as written; decoding a whole
// sequence with recomputed positions is UnmarshalBlocks' job.
func (b *Block) UnmarshalJSON(data []byte) error {
	var env blockEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("parse block: %w", err)
	}
	c, err := DecodeContent(env.Type, env.Content)
	if err != nil {
		return err
	}
	if env.ID == "" {
		env.ID = NewBlockID()
	}
	b.ID = env.ID
	b.Type = env.Type
	b.Position = env.Position
	b.Content = c
	return nil
}

// MarshalBlocks serializes a block sequence to the page content wire
// format. Positions are written from slice order, so a caller holding a
// list that satisfies the position invariant round-trips unchanged.
func MarshalBlocks(blocks []Block) (string, error) {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		if b.Content == nil {
			return "", fmt.Errorf("block %d (%s) has no content", i, b.ID)
		}
		b.Position = i
		out[i] = b
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("marshal block list: %w", err)
	}
	return string(data), nil
}

// UnmarshalBlocks parses the page content wire format back into a block
// sequence. Positions are recomputed from array order regardless of what
// the stored form claims. Unknown tags, payloads that do not decode, and
// payloads failing validation are all parse errors; callers that must not
// fail the page load use UnmarshalBlocksOrDefault.
func UnmarshalBlocks(raw string) ([]Block, error) {
	var envelopes []blockEnvelope
	if err := json.Unmarshal([]byte(raw), &envelopes); err != nil {
		return nil, fmt.Errorf("parse block list: %w", err)
	}
	if envelopes == nil {
		return nil, fmt.Errorf("block list is null")
	}

	blocks := make([]Block, 0, len(envelopes))
	for i, env := range envelopes {
		c, err := DecodeContent(env.Type, env.Content)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		id := env.ID
		if id == "" {
			id = NewBlockID()
		}
		blocks = append(blocks, Block{
			ID:       id,
			Type:     env.Type,
			Position: i,
			Content:  c,
		})
	}
	return blocks, nil
}

// UnmarshalBlocksOrDefault parses stored page content, substituting the
// safe default for malformed input: exactly one text block with empty
// content. It never fails, so a page with a corrupted content field still
// loads.
func UnmarshalBlocksOrDefault(raw string) []Block {
	blocks, err := UnmarshalBlocks(raw)
	if err != nil {
		return DefaultPageBlocks()
	}
	return blocks
}

// DefaultPageBlocks returns the fallback sequence for a page whose stored
// content cannot be parsed: a single empty text block.
func DefaultPageBlocks() []Block {
	return []Block{{
		ID:       NewBlockID(),
		Type:     BlockTypeText,
		Position: 0,
		Content:  TextContent{Format: TextFormatParagraph},
	}}
}

// DecodeContent decodes a raw payload according to the tag and validates
// its enumerated fields. Total over the tag set. The API layer uses it to
// decode block payloads arriving as type plus raw JSON.
func DecodeContent(t BlockType, raw json.RawMessage) (BlockContent, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing content for %q block", t)
	}

	var c BlockContent
	switch t {
	case BlockTypeText:
		var v TextContent
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode text content: %w", err)
		}
		c = v
	case BlockTypeHeading:
		var v HeadingContent
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode heading content: %w", err)
		}
		c = v
	case BlockTypeImage:
		var v ImageContent
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode image content: %w", err)
		}
		c = v
	case BlockTypeDatabaseReference:
		var v DatabaseReferenceContent
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode database reference content: %w", err)
		}
		c = v
	case BlockTypeGallery:
		var v GalleryContent
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode gallery content: %w", err)
		}
		if v.AssetIDs == nil {
			v.AssetIDs = []string{}
		}
		c = v
	case BlockTypeEmbed:
		var v EmbedContent
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode embed content: %w", err)
		}
		c = v
	case BlockTypeDivider:
		var v DividerContent
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode divider content: %w", err)
		}
		c = v
	default:
		return nil, fmt.Errorf("unknown block type %q", t)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// MarshalProperties serializes a database's ordered property list to the
// schema wire format.
func MarshalProperties(schema []Property) (string, error) {
	if schema == nil {
		schema = []Property{}
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("marshal property list: %w", err)
	}
	return string(data), nil
}

// UnmarshalProperties parses the schema wire format. Property order is
// preserved; it determines column and field order everywhere. Definitions
// violating the structural rules are parse errors.
func UnmarshalProperties(raw string) ([]Property, error) {
	var schema []Property
	if err := json.Unmarshal([]byte(raw), &schema); err != nil {
		return nil, fmt.Errorf("parse property list: %w", err)
	}
	if schema == nil {
		return nil, fmt.Errorf("property list is null")
	}
	for i := range schema {
		if schema[i].ID == "" {
			schema[i].ID = NewPropertyID()
		}
		if err := schema[i].Validate(); err != nil {
			return nil, fmt.Errorf("property %d: %w", i, err)
		}
	}
	return schema, nil
}

// UnmarshalPropertiesOrDefault parses stored schema content, substituting
// the safe default for malformed input: an empty property list.
func UnmarshalPropertiesOrDefault(raw string) []Property {
	schema, err := UnmarshalProperties(raw)
	if err != nil {
		return []Property{}
	}
	return schema
}

// MarshalEntryData serializes an entry's property-name to value mapping to
// the entry wire format.
func MarshalEntryData(data map[string]any) (string, error) {
	if data == nil {
		data = map[string]any{}
	}
	out, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal entry data: %w", err)
	}
	return string(out), nil
}

// UnmarshalEntryData parses the entry wire format. Values decode to the
// shapes the schema implies: strings, float64 numbers, bools, and []string
// for multi_select (normalized from JSON's []any).
func UnmarshalEntryData(raw string) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("parse entry data: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("entry data is null")
	}
	for name, value := range data {
		if list, ok := value.([]any); ok {
			data[name] = asStringSlice(list)
		}
	}
	return data, nil
}

// UnmarshalEntryDataOrDefault parses stored entry data, substituting an
// empty value map for malformed input.
func UnmarshalEntryDataOrDefault(raw string) map[string]any {
	data, err := UnmarshalEntryData(raw)
	if err != nil {
		return map[string]any{}
	}
	return data
}
