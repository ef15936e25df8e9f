// internal/rewrite/edits.go
// Batch text mutation over immutable parse trees. tree-sitter trees cannot
// be edited in place, so rewrites are expressed as byte-range replacements
// against the original source and applied in one pass.
package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
)

var (
	// ErrConflict reports an edit whose range intersects an already
	// accepted edit.
	ErrConflict = errors.New("rewrite: conflicting edit ranges")
	// ErrStale reports an edit whose range falls outside the source,
	// typically a node reference from a different or newer tree.
	ErrStale = errors.New("rewrite: edit range outside source bounds")
)

// Edit replaces the half-open byte range [Start, End) with Text.
type Edit struct {
	Start int
	End   int
	Text  string
}

// ChangeSet accumulates non-conflicting edits against one source buffer.
// The zero value is unusable; construct with NewChangeSet.
type ChangeSet struct {
	source []byte
	edits  []Edit
}

func NewChangeSet(source []byte) *ChangeSet {
	return &ChangeSet{source: source}
}

// Len returns the number of accepted edits.
func (c *ChangeSet) Len() int {
	return len(c.edits)
}

// Add validates the edits against the source bounds and the edits accepted
// so far. On any failure nothing is accepted, so a multi-edit action applies
// all-or-nothing.
func (c *ChangeSet) Add(edits ...Edit) error {
	for _, e := range edits {
		if e.Start < 0 || e.End < e.Start || e.End > len(c.source) {
			return fmt.Errorf("%w: [%d, %d) with %d source bytes", ErrStale, e.Start, e.End, len(c.source))
		}
		for _, accepted := range c.edits {
			if e.Start < accepted.End && accepted.Start < e.End {
				return fmt.Errorf("%w: [%d, %d) and [%d, %d)", ErrConflict, e.Start, e.End, accepted.Start, accepted.End)
			}
		}
	}
	c.edits = append(c.edits, edits...)
	return nil
}

// ReplaceNode replaces a node's exact byte range with text. Node ranges
// exclude surrounding trivia, so leading formatting is preserved.
func (c *ChangeSet) ReplaceNode(node *sitter.Node, text string) error {
	if node == nil {
		return fmt.Errorf("%w: nil node", ErrStale)
	}
	return c.Add(Edit{Start: int(node.StartByte()), End: int(node.EndByte()), Text: text})
}

// Apply produces the rewritten source. The receiver is unchanged and may
// accept further edits afterwards.
func (c *ChangeSet) Apply() ([]byte, error) {
	if len(c.edits) == 0 {
		return c.source, nil
	}

	ordered := make([]Edit, len(c.edits))
	copy(ordered, c.edits)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	var out bytes.Buffer
	out.Grow(len(c.source))
	cursor := 0
	for _, e := range ordered {
		if e.Start < cursor {
			return nil, fmt.Errorf("%w: [%d, %d) behind cursor %d", ErrConflict, e.Start, e.End, cursor)
		}
		out.Write(c.source[cursor:e.Start])
		out.WriteString(e.Text)
		cursor = e.End
	}
	out.Write(c.source[cursor:])
	return out.Bytes(), nil
}
