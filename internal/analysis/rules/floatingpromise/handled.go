// Filename: floatingpromise/handled.go
package floatingpromise

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/xkilldash9x/flotsam/internal/syntax"
)

// isHandledChain decides whether a call is already terminated by an accepted
// rejection-handling pattern. Only argument counts are inspected: a .then
// needs both a fulfillment and a rejection handler, a .catch needs at least
// one argument, and a .finally inherits the verdict of the call it follows.
// Whether those arguments are actually functions is not verified.
func isHandledChain(call *sitter.Node, source []byte, depth int) bool {
	if call == nil || depth > maxChainDepth {
		return false
	}

	callee := syntax.Callee(call)
	if callee == nil || callee.Type() != syntax.KindMemberExpression {
		return false
	}

	switch syntax.PropertyName(callee, source) {
	case "finally":
		object := syntax.Object(callee)
		if object != nil && object.Type() == syntax.KindCallExpression {
			return isHandledChain(object, source, depth+1)
		}
		return false
	case "catch":
		return len(syntax.Arguments(call)) >= 1
	case "then":
		return len(syntax.Arguments(call)) >= 2
	}
	return false
}
