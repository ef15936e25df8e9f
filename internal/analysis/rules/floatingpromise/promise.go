// Filename: floatingpromise/promise.go
// Promise-value inference: decides whether a callee expression statically
// denotes a promise-returning callable. Every unrecognized shape is treated
// as not-a-promise, so the rule prefers false negatives over false positives.
package floatingpromise

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/xkilldash9x/flotsam/internal/analysis/core"
	"github.com/xkilldash9x/flotsam/internal/semantics"
	"github.com/xkilldash9x/flotsam/internal/syntax"
)

// maxChainDepth bounds recursion over member-call chains. Source deeper than
// this fails closed instead of growing the stack.
const maxChainDepth = 32

// isPromiseCallee dispatches on the callee's syntactic shape. Identifiers
// resolve through the semantic model; member accesses classify through the
// call they are chained onto.
func isPromiseCallee(rctx *core.Context, callee *sitter.Node, depth int) bool {
	if callee == nil || depth > maxChainDepth {
		return false
	}

	switch callee.Type() {
	case syntax.KindIdentifier:
		decl := rctx.Model.Resolve(callee)
		if decl == nil {
			return false
		}
		switch decl.Kind {
		case semantics.DeclFunction:
			return isPromiseFunction(decl.Node, rctx.Source)
		case semantics.DeclVariable:
			return isPromiseInitializer(syntax.DeclaratorValue(decl.Node), rctx.Source) ||
				isPromiseVariableAnnotation(decl.Node, rctx.Source)
		}
		return false

	case syntax.KindMemberExpression:
		// a().then(...): the member callee classifies through the inner
		// call. A member access over anything but a call is out of scope.
		object := syntax.Object(callee)
		if object == nil || object.Type() != syntax.KindCallExpression {
			return false
		}
		return isPromiseCallee(rctx, syntax.Callee(object), depth+1)
	}

	return false
}

// isPromiseFunction judges a function-like node promise-returning iff it
// carries the async marker or its return annotation denotes Promise.
func isPromiseFunction(fn *sitter.Node, source []byte) bool {
	if fn == nil {
		return false
	}
	if syntax.HasAsyncModifier(fn) {
		return true
	}
	returnType := syntax.AnnotationType(syntax.ReturnTypeAnnotation(fn))
	return typeDenotesPromise(returnType, source)
}

// isPromiseInitializer applies the function-level test to arrow-function
// and function-expression initializers only. Generators and every other
// initializer shape yield false.
func isPromiseInitializer(init *sitter.Node, source []byte) bool {
	if init == nil {
		return false
	}
	switch init.Type() {
	case syntax.KindArrowFunction, syntax.KindFunction, syntax.KindFunctionExpression:
		return isPromiseFunction(init, source)
	}
	return false
}

// isPromiseVariableAnnotation accepts declarators whose own declared type is
// a function type returning Promise, e.g. `const h: () => Promise<string>`.
func isPromiseVariableAnnotation(declarator *sitter.Node, source []byte) bool {
	annotated := syntax.AnnotationType(syntax.DeclaratorType(declarator))
	if annotated == nil || annotated.Type() != syntax.KindFunctionType {
		return false
	}
	return typeDenotesPromise(syntax.FunctionTypeReturn(annotated), source)
}

// typeDenotesPromise reports whether a type node is a reference to the
// plain name Promise, ignoring generic arguments. Qualified names such as
// globalThis.Promise are rejected.
func typeDenotesPromise(typeNode *sitter.Node, source []byte) bool {
	if typeNode == nil {
		return false
	}
	if typeNode.Type() == syntax.KindGenericType {
		typeNode = syntax.GenericTypeName(typeNode)
		if typeNode == nil {
			return false
		}
	}
	return typeNode.Type() == syntax.KindTypeIdentifier &&
		syntax.NodeContent(typeNode, source) == "Promise"
}
