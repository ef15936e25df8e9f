// Filename: syntax/language.go
package syntax

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Flavor identifies which grammar a source file parses under.
type Flavor int

const (
	FlavorJavaScript Flavor = iota
	FlavorTypeScript
	FlavorTSX
)

func (f Flavor) String() string {
	switch f {
	case FlavorTypeScript:
		return "typescript"
	case FlavorTSX:
		return "tsx"
	default:
		return "javascript"
	}
}

// FlavorForPath maps a file path to its grammar flavor. TSX needs its own
// grammar because JSX constructs are ambiguous with type assertions in the
// plain TypeScript grammar.
func FlavorForPath(path string) Flavor {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return FlavorTypeScript
	case ".tsx":
		return FlavorTSX
	default:
		return FlavorJavaScript
	}
}

// LintableExtensions lists the file extensions the walker considers by default.
var LintableExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".mts", ".cts", ".tsx"}

func (f Flavor) language() *sitter.Language {
	switch f {
	case FlavorTypeScript:
		return typescript.GetLanguage()
	case FlavorTSX:
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}
