// Filename: syntax/location.go
package syntax

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Location holds the detailed position and snippet of a diagnostic target.
// Lines and columns are 1-based; byte offsets index the original source.
type Location struct {
	File      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
	StartByte int
	EndByte   int
	Snippet   string
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// FormatLocation converts a tree-sitter node position to a Location,
// including the trimmed source line the node starts on.
func FormatLocation(filename string, node *sitter.Node, source []byte) Location {
	if node == nil {
		return Location{File: filename, Snippet: "N/A"}
	}

	startByte := int(node.StartByte())
	endByte := int(node.EndByte())
	startPoint := node.StartPoint()
	endPoint := node.EndPoint()

	snippet := "N/A"
	if endByte <= len(source) && startByte < endByte {
		lineStart := findLineStart(source, startByte)
		lineEnd := findLineEnd(source, startByte)
		if lineStart >= 0 && lineEnd > lineStart {
			snippet = strings.TrimSpace(string(source[lineStart:lineEnd]))
		} else {
			snippet = node.Content(source)
		}
	}

	return Location{
		File:      filename,
		Line:      int(startPoint.Row) + 1,
		Column:    int(startPoint.Column) + 1,
		EndLine:   int(endPoint.Row) + 1,
		EndColumn: int(endPoint.Column) + 1,
		StartByte: startByte,
		EndByte:   endByte,
		Snippet:   snippet,
	}
}

func findLineStart(source []byte, idx int) int {
	if idx >= len(source) {
		if len(source) == 0 {
			return 0
		}
		idx = len(source) - 1
	}
	if idx < 0 {
		return 0
	}

	for i := idx; i >= 0; i-- {
		if source[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

func findLineEnd(source []byte, idx int) int {
	for i := idx; i < len(source); i++ {
		if source[i] == '\n' {
			return i
		}
	}
	return len(source)
}
