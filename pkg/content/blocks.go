package content

import (
	"fmt"

	"github.com/google/uuid"
)

// BlockType identifies the payload shape of a block. The set is closed:
// every dispatch site in this package switches over it exhaustively and
// rejects unknown tags at the boundary instead of falling back to text.
type BlockType string

const (
	BlockTypeText              BlockType = "text"
	BlockTypeHeading           BlockType = "heading"
	BlockTypeImage             BlockType = "image"
	BlockTypeDatabaseReference BlockType = "database_reference"
	BlockTypeGallery           BlockType = "gallery"
	BlockTypeEmbed             BlockType = "embed"
	BlockTypeDivider           BlockType = "divider"
)

// BlockTypes returns the full tag set. Tests iterate it to verify that every
// tag has a default payload and a decoder, so a new tag added without
// updating each dispatch site fails loudly.
func BlockTypes() []BlockType {
	return []BlockType{
		BlockTypeText,
		BlockTypeHeading,
		BlockTypeImage,
		BlockTypeDatabaseReference,
		BlockTypeGallery,
		BlockTypeEmbed,
		BlockTypeDivider,
	}
}

// BlockID is the opaque identifier of a block within a page's sequence.
// It is generated client-side when the block is created and stays stable
// for the block's lifetime.
type BlockID string

func NewBlockID() BlockID {
	return BlockID(uuid.NewString())
}

// Block is one unit of page content. Position is derived from sequence
// order by the editor after every structural mutation; it is never set
// independently.
type Block struct {
	ID       BlockID      `json:"id"`
	Type     BlockType    `json:"type"`
	Position int          `json:"position"`
	Content  BlockContent `json:"content"`
}

// BlockContent is the tag-specific payload of a block. Exactly one concrete
// struct exists per BlockType.
type BlockContent interface {
	// BlockType reports which tag this payload belongs to.
	BlockType() BlockType
	// Validate checks the payload's enumerated fields. It does not check
	// whether referenced resources exist; that is the caller's concern.
	Validate() error
}

// TextFormat selects the presentation of a text block.
type TextFormat string

const (
	TextFormatParagraph TextFormat = "paragraph"
	TextFormatQuote     TextFormat = "quote"
	TextFormatCode      TextFormat = "code"
)

// TextContent is the payload of a text block.
type TextContent struct {
	Text   string     `json:"text"`
	Format TextFormat `json:"format"`
}

func (TextContent) BlockType() BlockType { return BlockTypeText }

func (c TextContent) Validate() error {
	switch c.Format {
	case TextFormatParagraph, TextFormatQuote, TextFormatCode:
		return nil
	default:
		return fmt.Errorf("invalid text format %q", c.Format)
	}
}

// HeadingContent is the payload of a heading block. Level is 1 to 3.
type HeadingContent struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

func (HeadingContent) BlockType() BlockType { return BlockTypeHeading }

func (c HeadingContent) Validate() error {
	if c.Level < 1 || c.Level > 3 {
		return fmt.Errorf("invalid heading level %d", c.Level)
	}
	return nil
}

// ImageContent is the payload of an image block. URL references an asset
// uploaded through the external storage collaborator.
type ImageContent struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
	Alt     string `json:"alt,omitempty"`
}

func (ImageContent) BlockType() BlockType { return BlockTypeImage }

func (ImageContent) Validate() error { return nil }

// RefView selects how a referenced database renders inside a page.
type RefView string

const (
	RefViewTable RefView = "table"
	RefViewList  RefView = "list"
)

// DatabaseReferenceContent embeds a user-defined database into a page.
// DatabaseID may be empty while the reference is unresolved; a non-empty ID
// that no longer resolves renders as an explicit not-found state rather
// than an error.
type DatabaseReferenceContent struct {
	DatabaseID string  `json:"database_id"`
	ViewType   RefView `json:"view_type"`
}

func (DatabaseReferenceContent) BlockType() BlockType { return BlockTypeDatabaseReference }

func (c DatabaseReferenceContent) Validate() error {
	switch c.ViewType {
	case RefViewTable, RefViewList:
		return nil
	default:
		return fmt.Errorf("invalid database reference view %q", c.ViewType)
	}
}

// GalleryLayout selects the arrangement of a gallery block.
type GalleryLayout string

const (
	GalleryLayoutGrid    GalleryLayout = "grid"
	GalleryLayoutMasonry GalleryLayout = "masonry"
)

// GalleryContent is the payload of a gallery block, referencing uploaded
// assets by identifier.
type GalleryContent struct {
	AssetIDs []string      `json:"assets"`
	Layout   GalleryLayout `json:"layout"`
}

func (GalleryContent) BlockType() BlockType { return BlockTypeGallery }

func (c GalleryContent) Validate() error {
	switch c.Layout {
	case GalleryLayoutGrid, GalleryLayoutMasonry:
		return nil
	default:
		return fmt.Errorf("invalid gallery layout %q", c.Layout)
	}
}

// EmbedContent is the payload of an embed block.
type EmbedContent struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

func (EmbedContent) BlockType() BlockType { return BlockTypeEmbed }

func (EmbedContent) Validate() error { return nil }

// DividerContent is the payload of a divider block. Dividers carry no data.
type DividerContent struct{}

func (DividerContent) BlockType() BlockType { return BlockTypeDivider }

func (DividerContent) Validate() error { return nil }

// DefaultContent returns the zero-value payload for the given tag. It is
// total over the tag set; an unknown tag is a contract violation and yields
// an error, never a silent text fallback.
func DefaultContent(t BlockType) (BlockContent, error) {
	switch t {
	case BlockTypeText:
		return TextContent{Format: TextFormatParagraph}, nil
	case BlockTypeHeading:
		return HeadingContent{Level: 1}, nil
	case BlockTypeImage:
		return ImageContent{}, nil
	case BlockTypeDatabaseReference:
		return DatabaseReferenceContent{ViewType: RefViewTable}, nil
	case BlockTypeGallery:
		return GalleryContent{AssetIDs: []string{}, Layout: GalleryLayoutGrid}, nil
	case BlockTypeEmbed:
		return EmbedContent{}, nil
	case BlockTypeDivider:
		return DividerContent{}, nil
	default:
		return nil, fmt.Errorf("unknown block type %q", t)
	}
}

// NewBlock creates a block of the given tag with a fresh ID and the tag's
// default payload. Position is filled in by the owning editor.
func NewBlock(t BlockType) (Block, error) {
	c, err := DefaultContent(t)
	if err != nil {
		return Block{}, err
	}
	return Block{
		ID:      NewBlockID(),
		Type:    t,
		Content: c,
	}, nil
}
