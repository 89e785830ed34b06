package editor

import (
	"errors"
	"fmt"

	"github.com/mohae/deepcopy"

	"github.com/surrealdb/surrealcms/pkg/content"
)

var (
	// ErrBlockNotFound reports an edit addressed to a block ID that is not
	// in the sequence. This is a contract violation on the caller's side;
	// the sequence is left unchanged.
	ErrBlockNotFound = errors.New("block not found")
	// ErrInvalidDirection reports a move with a direction outside up/down.
	ErrInvalidDirection = errors.New("invalid direction")
)

// BlockEditor maintains one page's ordered block sequence under structural
// edits. After every mutation the positions are contiguous integers 0..n-1
// matching slice order. The editor also tracks the session state machine:
// the first mutation moves it to editing, Save and Discard settle it back
// to idle.
//
// The editor is not safe for concurrent use; one instance serves one
// editing session, matching the single-threaded mutation model of the
// owning view.
type BlockEditor struct {
	session
	blocks   []content.Block
	snapshot []content.Block
}

// NewBlockEditor starts a session over the given sequence. Positions are
// normalized immediately so a caller-supplied list cannot violate the
// invariant.
func NewBlockEditor(blocks []content.Block) *BlockEditor {
	e := &BlockEditor{blocks: copyBlocks(blocks)}
	e.reindex()
	e.snapshot = copyBlocks(e.blocks)
	return e
}

// LoadBlockEditor starts a session from a page's stored content string,
// applying the malformed-content fallback: corrupted input degrades to a
// single empty text block instead of failing the page load.
func LoadBlockEditor(raw string) *BlockEditor {
	return NewBlockEditor(content.UnmarshalBlocksOrDefault(raw))
}

// Blocks returns a deep copy of the current sequence in order.
func (e *BlockEditor) Blocks() []content.Block {
	return copyBlocks(e.blocks)
}

// Len returns the number of blocks in the sequence.
func (e *BlockEditor) Len() int {
	return len(e.blocks)
}

// Insert creates a block of the given tag with its default payload and
// places it immediately after the given position, or at the end of the
// sequence when after is nil. Out-of-range positions clamp to the sequence
// bounds. The only failure is an unknown tag, rejected at the boundary.
func (e *BlockEditor) Insert(tag content.BlockType, after *int) (content.Block, error) {
	b, err := content.NewBlock(tag)
	if err != nil {
		return content.Block{}, err
	}

	pos := len(e.blocks)
	if after != nil {
		pos = *after + 1
		if pos < 0 {
			pos = 0
		}
		if pos > len(e.blocks) {
			pos = len(e.blocks)
		}
	}

	e.blocks = append(e.blocks, content.Block{})
	copy(e.blocks[pos+1:], e.blocks[pos:])
	e.blocks[pos] = b
	e.reindex()
	e.markEditing()
	return e.blocks[pos], nil
}

// Update replaces the payload of the block with the matching ID. The
// position is not altered. An unknown ID leaves the sequence unchanged and
// reports ErrBlockNotFound.
func (e *BlockEditor) Update(id content.BlockID, c content.BlockContent) error {
	if c == nil {
		return fmt.Errorf("block %s: content must not be nil", id)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("block %s: %w", id, err)
	}

	i := e.indexOf(id)
	if i < 0 {
		return fmt.Errorf("update block %s: %w", id, ErrBlockNotFound)
	}
	e.blocks[i].Content = c
	e.blocks[i].Type = c.BlockType()
	e.markEditing()
	return nil
}

// Move swaps the block with its immediate neighbor in the given direction
// and reports whether anything moved. Moving the first block up or the
// last block down is a no-op, not an error.
func (e *BlockEditor) Move(id content.BlockID, dir Direction) (bool, error) {
	if !dir.Valid() {
		return false, fmt.Errorf("move block %s: %w: %q", id, ErrInvalidDirection, dir)
	}
	i := e.indexOf(id)
	if i < 0 {
		return false, fmt.Errorf("move block %s: %w", id, ErrBlockNotFound)
	}

	j := i - 1
	if dir == DirectionDown {
		j = i + 1
	}
	if j < 0 || j >= len(e.blocks) {
		return false, nil
	}

	e.blocks[i], e.blocks[j] = e.blocks[j], e.blocks[i]
	e.reindex()
	e.markEditing()
	return true, nil
}

// Remove deletes the block with the matching ID and closes the gap so the
// remaining positions stay contiguous.
func (e *BlockEditor) Remove(id content.BlockID) error {
	i := e.indexOf(id)
	if i < 0 {
		return fmt.Errorf("remove block %s: %w", id, ErrBlockNotFound)
	}
	e.blocks = append(e.blocks[:i], e.blocks[i+1:]...)
	e.reindex()
	e.markEditing()
	return nil
}

// Serialize returns the current sequence in the page content wire format
// without changing the session state. Use Save to also advance the
// snapshot.
func (e *BlockEditor) Serialize() (string, error) {
	return content.MarshalBlocks(e.blocks)
}

// Save serializes the sequence, advances the snapshot to the current
// state, and settles the session back to idle. The returned string is what
// the caller hands to the persistence collaborator; if that round trip
// fails the in-memory sequence is still intact for a retry.
func (e *BlockEditor) Save() (string, error) {
	raw, err := content.MarshalBlocks(e.blocks)
	if err != nil {
		return "", err
	}
	e.snapshot = copyBlocks(e.blocks)
	e.settle()
	return raw, nil
}

// Discard reverts the sequence to the last-saved snapshot and settles the
// session back to idle.
func (e *BlockEditor) Discard() {
	e.blocks = copyBlocks(e.snapshot)
	e.settle()
}

func (e *BlockEditor) indexOf(id content.BlockID) int {
	for i, b := range e.blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (e *BlockEditor) reindex() {
	for i := range e.blocks {
		e.blocks[i].Position = i
	}
}

func copyBlocks(blocks []content.Block) []content.Block {
	if blocks == nil {
		return nil
	}
	return deepcopy.Copy(blocks).([]content.Block)
}
