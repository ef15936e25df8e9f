// Filename: semantics/builder.go
package semantics

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/xkilldash9x/flotsam/internal/syntax"
)

// Build constructs the scope tree and bindings for a parsed file in a single
// traversal. Function declarations and `var` declarators hoist to the nearest
// function or program scope; `let`, `const` and class declarations bind in
// the scope they appear in.
func Build(root *sitter.Node, source []byte) *Model {
	m := &Model{source: source}
	if root == nil {
		m.root = &scope{kind: scopeProgram, bindings: make(map[string]*Declaration)}
		return m
	}
	m.root = newScope(scopeProgram, nil, root)
	b := &builder{source: source}
	b.walkChildren(root, m.root)
	return m
}

type builder struct {
	source []byte
}

func (b *builder) walk(node *sitter.Node, cur *scope) {
	if node == nil || node.IsNull() {
		return
	}

	kind := node.Type()
	switch {
	case syntax.IsFunctionKind(kind):
		b.enterFunction(node, cur)
		return

	case kind == syntax.KindStatementBlock:
		block := newScope(scopeBlock, cur, node)
		b.walkChildren(node, block)
		return

	case kind == syntax.KindCatchClause:
		block := newScope(scopeBlock, cur, node)
		if param := node.ChildByFieldName("parameter"); param != nil {
			b.bindPattern(block, param, DeclParameter)
		}
		b.walkChildren(node, block)
		return

	case kind == syntax.KindVariableDeclaration:
		// `var` declarators hoist past blocks.
		b.declareVariables(node, cur.hoistTarget(), cur)
		return

	case kind == syntax.KindLexicalDeclaration:
		b.declareVariables(node, cur, cur)
		return

	case kind == syntax.KindClassDeclaration:
		if name := node.ChildByFieldName("name"); name != nil {
			cur.declare(&Declaration{
				Kind: DeclClass,
				Name: syntax.NodeContent(name, b.source),
				Node: node,
			})
		}

	case kind == syntax.KindImportStatement:
		b.declareImports(node, cur)
		return
	}

	b.walkChildren(node, cur)
}

func (b *builder) walkChildren(node *sitter.Node, cur *scope) {
	for i := 0; i < int(node.ChildCount()); i++ {
		b.walk(node.Child(i), cur)
	}
}

// enterFunction declares the function's own name, opens its scope and binds
// parameters before descending into the body.
func (b *builder) enterFunction(node *sitter.Node, cur *scope) {
	kind := node.Type()
	nameNode := node.ChildByFieldName("name")

	// Declarations bind in the enclosing hoist target. Named function
	// expressions bind their name only inside their own scope, for
	// self-recursion.
	if nameNode != nil && (kind == syntax.KindFunctionDeclaration || kind == syntax.KindGeneratorFunctionDeclaration) {
		cur.hoistTarget().declare(&Declaration{
			Kind: DeclFunction,
			Name: syntax.NodeContent(nameNode, b.source),
			Node: node,
		})
	}

	fnScope := newScope(scopeFunction, cur, node)
	if nameNode != nil && syntax.IsFunctionExpressionKind(kind) {
		fnScope.declare(&Declaration{
			Kind: DeclFunction,
			Name: syntax.NodeContent(nameNode, b.source),
			Node: node,
		})
	}

	b.bindParameters(node, fnScope)

	if body := node.ChildByFieldName("body"); body != nil {
		if body.Type() == syntax.KindStatementBlock {
			// The body block shares the function scope; a separate block
			// scope would hide parameters from `var` hoisting checks.
			b.walkChildren(body, fnScope)
		} else {
			// Arrow functions may have a bare expression body.
			b.walk(body, fnScope)
		}
	}
}

func (b *builder) bindParameters(fn *sitter.Node, fnScope *scope) {
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		// Arrow functions with a single parenthesis-free parameter.
		if single := fn.ChildByFieldName("parameter"); single != nil {
			b.bindPattern(fnScope, single, DeclParameter)
		}
		return
	}
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(i)
		switch child.Type() {
		case "(", ")", ",":
		default:
			b.bindPattern(fnScope, child, DeclParameter)
		}
	}
}

// bindPattern recursively declares every identifier bound by a parameter or
// destructuring pattern.
func (b *builder) bindPattern(target *scope, pattern *sitter.Node, kind DeclKind) {
	if pattern == nil {
		return
	}

	switch pattern.Type() {
	case syntax.KindIdentifier, "shorthand_property_identifier_pattern":
		target.declare(&Declaration{
			Kind: kind,
			Name: syntax.NodeContent(pattern, b.source),
			Node: pattern,
		})

	case syntax.KindRequiredParameter, syntax.KindOptionalParameter:
		// TypeScript wraps the pattern and its annotation.
		if inner := pattern.ChildByFieldName("pattern"); inner != nil {
			b.bindPattern(target, inner, kind)
		}

	case "object_pattern":
		for i := 0; i < int(pattern.ChildCount()); i++ {
			child := pattern.Child(i)
			switch child.Type() {
			case "shorthand_property_identifier_pattern":
				b.bindPattern(target, child, kind)
			case "pair_pattern":
				b.bindPattern(target, child.ChildByFieldName("value"), kind)
			case "rest_pattern", "rest_parameter":
				b.bindPattern(target, namedArgument(child), kind)
			}
		}

	case "array_pattern":
		for i := 0; i < int(pattern.ChildCount()); i++ {
			child := pattern.Child(i)
			if child.Type() != "[" && child.Type() != "]" && child.Type() != "," {
				b.bindPattern(target, child, kind)
			}
		}

	case "assignment_pattern":
		b.bindPattern(target, pattern.ChildByFieldName("left"), kind)

	case syntax.KindRestPattern, "rest_parameter":
		b.bindPattern(target, namedArgument(pattern), kind)
	}
}

// namedArgument unwraps rest constructs, tolerating grammar revisions that
// lack the field name.
func namedArgument(node *sitter.Node) *sitter.Node {
	if arg := node.ChildByFieldName("argument"); arg != nil {
		return arg
	}
	if node.NamedChildCount() > 0 {
		return node.NamedChild(0)
	}
	return nil
}

// declareVariables records each declarator of a variable or lexical
// declaration. The binding lands in target (the hoist scope for `var`);
// initializer expressions are walked in the scope they appear in.
func (b *builder) declareVariables(node *sitter.Node, target, cur *scope) {
	for i := 0; i < int(node.ChildCount()); i++ {
		declarator := node.Child(i)
		if declarator.Type() != syntax.KindVariableDeclarator {
			continue
		}
		if name := syntax.DeclaratorName(declarator); name != nil {
			if name.Type() == syntax.KindIdentifier {
				target.declare(&Declaration{
					Kind: DeclVariable,
					Name: syntax.NodeContent(name, b.source),
					Node: declarator,
				})
			} else {
				// Destructuring declarators bind like patterns.
				b.bindPattern(target, name, DeclVariable)
			}
		}
		if value := syntax.DeclaratorValue(declarator); value != nil {
			b.walk(value, cur)
		}
	}
}

// declareImports binds default, named and namespace imports in the module
// scope.
func (b *builder) declareImports(node *sitter.Node, cur *scope) {
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case syntax.KindImportSpecifier:
			name := n.ChildByFieldName("alias")
			if name == nil {
				name = n.ChildByFieldName("name")
			}
			if name != nil {
				cur.declare(&Declaration{
					Kind: DeclImport,
					Name: syntax.NodeContent(name, b.source),
					Node: n,
				})
			}
			return
		case syntax.KindNamespaceImport:
			for i := 0; i < int(n.ChildCount()); i++ {
				if child := n.Child(i); child.Type() == syntax.KindIdentifier {
					cur.declare(&Declaration{
						Kind: DeclImport,
						Name: syntax.NodeContent(child, b.source),
						Node: n,
					})
				}
			}
			return
		case syntax.KindIdentifier:
			// Default import clause binds a bare identifier.
			cur.declare(&Declaration{
				Kind: DeclImport,
				Name: syntax.NodeContent(n, b.source),
				Node: n,
			})
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(node)
}
