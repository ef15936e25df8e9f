// Filename: syntax/parser.go
// Thin facade over tree-sitter: grammar selection, parsing, node kind
// constants and the typed child accessors the analysis layers consume.
package syntax

import (
	"context"
	"fmt"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// Parse parses source under the given flavor and returns the tree. The
// caller owns the tree and must Close it. tree-sitter parsers are not safe
// for concurrent use, so a fresh parser is created per call; parser
// construction is cheap next to the parse itself.
func Parse(ctx context.Context, filename string, source []byte, flavor Flavor) (*sitter.Tree, error) {
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("%s: source is not valid UTF-8", filename)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(flavor.language())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter failed to parse %s: %w", filename, err)
	}
	return tree, nil
}

// NodeContent extracts the string content of a node from the source byte slice.
func NodeContent(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return node.Content(source)
}
