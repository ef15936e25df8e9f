// Filename: floatingpromise/asyncscope.go
package floatingpromise

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/xkilldash9x/flotsam/internal/syntax"
)

// inAsyncFunction walks the statement's ancestors innermost-first and lets
// the first function-like scope decide: true iff that scope is async. The
// innermost scope must decide because await is a SyntaxError inside a
// non-async function even when an async function encloses it. A top-level
// statement has no function ancestor and yields false, so no fix is offered
// where await would be illegal.
func inAsyncFunction(stmt *sitter.Node) bool {
	if stmt == nil {
		return false
	}
	for node := stmt.Parent(); node != nil; node = node.Parent() {
		if syntax.IsFunctionKind(node.Type()) {
			return syntax.HasAsyncModifier(node)
		}
	}
	return false
}
