// Filename: syntax/node.go
package syntax

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Node kinds shared by the javascript, typescript and tsx grammars. The
// grammars agree on expression and statement kinds; the type_* kinds only
// occur under the typescript and tsx grammars.
const (
	KindProgram             = "program"
	KindExpressionStatement = "expression_statement"
	KindCallExpression      = "call_expression"
	KindMemberExpression    = "member_expression"
	KindIdentifier          = "identifier"
	KindPropertyIdentifier  = "property_identifier"
	KindStatementBlock      = "statement_block"
	KindReturnStatement     = "return_statement"
	KindAwaitExpression     = "await_expression"

	KindFunctionDeclaration          = "function_declaration"
	KindGeneratorFunctionDeclaration = "generator_function_declaration"
	KindArrowFunction                = "arrow_function"
	KindFunction                     = "function"
	KindFunctionExpression           = "function_expression"
	KindGeneratorFunction            = "generator_function"
	KindMethodDefinition             = "method_definition"

	KindVariableDeclaration = "variable_declaration"
	KindLexicalDeclaration  = "lexical_declaration"
	KindVariableDeclarator  = "variable_declarator"
	KindClassDeclaration    = "class_declaration"
	KindImportStatement     = "import_statement"
	KindImportSpecifier     = "import_specifier"
	KindNamespaceImport     = "namespace_import"
	KindFormalParameters    = "formal_parameters"
	KindRequiredParameter   = "required_parameter"
	KindOptionalParameter   = "optional_parameter"
	KindRestPattern         = "rest_pattern"
	KindCatchClause         = "catch_clause"

	KindTypeAnnotation       = "type_annotation"
	KindTypeIdentifier       = "type_identifier"
	KindNestedTypeIdentifier = "nested_type_identifier"
	KindGenericType          = "generic_type"
	KindFunctionType         = "function_type"
	KindParenthesizedType    = "parenthesized_type"

	// Anonymous keyword token attached as a plain child of function-likes.
	KindAsync = "async"

	// Comments are extras and may surface anywhere in the tree.
	KindComment = "comment"
)

// IsFunctionKind reports whether the kind introduces a function scope.
// Grammar revisions disagree on the function-expression kind name
// ("function" vs "function_expression"), so both are accepted.
func IsFunctionKind(t string) bool {
	switch t {
	case KindFunctionDeclaration, KindGeneratorFunctionDeclaration,
		KindArrowFunction, KindFunction, KindFunctionExpression,
		KindGeneratorFunction, KindMethodDefinition:
		return true
	}
	return false
}

// IsFunctionExpressionKind reports whether the kind is a function or
// generator expression (the anonymous, non-declaration forms).
func IsFunctionExpressionKind(t string) bool {
	return t == KindFunction || t == KindFunctionExpression || t == KindGeneratorFunction
}

// Callee returns the function position of a call expression.
func Callee(call *sitter.Node) *sitter.Node {
	if call == nil {
		return nil
	}
	return call.ChildByFieldName("function")
}

// Arguments returns the argument expressions of a call, skipping the
// surrounding parentheses and separators.
func Arguments(call *sitter.Node) []*sitter.Node {
	if call == nil {
		return nil
	}
	argsNode := call.ChildByFieldName("arguments")
	if argsNode == nil {
		return nil
	}
	var args []*sitter.Node
	for i := 0; i < int(argsNode.ChildCount()); i++ {
		child := argsNode.Child(i)
		if child.Type() != "(" && child.Type() != ")" && child.Type() != "," {
			args = append(args, child)
		}
	}
	return args
}

// Object returns the receiver of a member expression.
func Object(member *sitter.Node) *sitter.Node {
	if member == nil {
		return nil
	}
	return member.ChildByFieldName("object")
}

// PropertyName returns the accessed property name of a member expression,
// or "" when the property is not a plain identifier.
func PropertyName(member *sitter.Node, source []byte) string {
	if member == nil {
		return ""
	}
	property := member.ChildByFieldName("property")
	if property == nil {
		return ""
	}
	if property.Type() == KindPropertyIdentifier || property.Type() == KindIdentifier {
		return NodeContent(property, source)
	}
	return ""
}

// HasAsyncModifier reports whether a function-like node carries the async
// keyword. The token is an anonymous child, so the children are scanned.
func HasAsyncModifier(fn *sitter.Node) bool {
	if fn == nil {
		return false
	}
	for i := 0; i < int(fn.ChildCount()); i++ {
		if fn.Child(i).Type() == KindAsync {
			return true
		}
	}
	return false
}

// ReturnTypeAnnotation returns the return-type annotation of a function-like
// node, or nil under the javascript grammar. Falls back to scanning direct
// children when the grammar revision lacks the return_type field; parameter
// annotations are nested inside formal_parameters and never match the scan.
func ReturnTypeAnnotation(fn *sitter.Node) *sitter.Node {
	if fn == nil {
		return nil
	}
	if ann := fn.ChildByFieldName("return_type"); ann != nil {
		return ann
	}
	for i := 0; i < int(fn.ChildCount()); i++ {
		if child := fn.Child(i); child.Type() == KindTypeAnnotation {
			return child
		}
	}
	return nil
}

// AnnotationType unwraps a type_annotation to its underlying type node.
func AnnotationType(ann *sitter.Node) *sitter.Node {
	if ann == nil {
		return nil
	}
	if ann.Type() != KindTypeAnnotation {
		// Some grammar positions hand the type over without the ":" wrapper.
		return ann
	}
	for i := 0; i < int(ann.ChildCount()); i++ {
		if child := ann.Child(i); child.Type() != ":" {
			return child
		}
	}
	return nil
}

// GenericTypeName returns the name node of a generic_type (the reference in
// front of the angle brackets).
func GenericTypeName(generic *sitter.Node) *sitter.Node {
	if generic == nil {
		return nil
	}
	if name := generic.ChildByFieldName("name"); name != nil {
		return name
	}
	return generic.NamedChild(0)
}

// FunctionTypeReturn returns the return type of a function_type annotation
// such as () => Promise<string>. Unlike function bodies, the grammar hands
// the type over directly rather than wrapped in a type_annotation.
func FunctionTypeReturn(fnType *sitter.Node) *sitter.Node {
	if fnType == nil {
		return nil
	}
	if ret := fnType.ChildByFieldName("return_type"); ret != nil {
		return ret
	}
	// Fallback: the return type is the last named child, after the
	// parameter list and any type parameters.
	count := int(fnType.NamedChildCount())
	if count == 0 {
		return nil
	}
	last := fnType.NamedChild(count - 1)
	if last != nil && last.Type() == KindFormalParameters {
		return nil
	}
	return last
}

// DeclaratorName returns the binding name node of a variable_declarator.
func DeclaratorName(decl *sitter.Node) *sitter.Node {
	if decl == nil {
		return nil
	}
	return decl.ChildByFieldName("name")
}

// DeclaratorValue returns the initializer of a variable_declarator, nil for
// bare declarations such as `let x;`.
func DeclaratorValue(decl *sitter.Node) *sitter.Node {
	if decl == nil {
		return nil
	}
	return decl.ChildByFieldName("value")
}

// DeclaratorType returns the declared type annotation of a
// variable_declarator, nil under the javascript grammar.
func DeclaratorType(decl *sitter.Node) *sitter.Node {
	if decl == nil {
		return nil
	}
	return decl.ChildByFieldName("type")
}
