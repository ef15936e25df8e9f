// Filename: syntax/syntax_test.go
package syntax_test

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/flotsam/internal/syntax"
)

func parse(t *testing.T, source string, flavor syntax.Flavor) *sitter.Tree {
	t.Helper()
	tree, err := syntax.Parse(context.Background(), "test."+flavor.String(), []byte(source), flavor)
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

func firstOfKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Type() == kind {
		return node
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if found := firstOfKind(node.NamedChild(i), kind); found != nil {
			return found
		}
	}
	return nil
}

func TestFlavorForPath(t *testing.T) {
	cases := []struct {
		path string
		want syntax.Flavor
	}{
		{"src/app.ts", syntax.FlavorTypeScript},
		{"src/mod.mts", syntax.FlavorTypeScript},
		{"src/legacy.cts", syntax.FlavorTypeScript},
		{"SRC/APP.TS", syntax.FlavorTypeScript},
		{"src/view.tsx", syntax.FlavorTSX},
		{"src/app.js", syntax.FlavorJavaScript},
		{"src/view.jsx", syntax.FlavorJavaScript},
		{"src/mod.mjs", syntax.FlavorJavaScript},
		{"src/legacy.cjs", syntax.FlavorJavaScript},
		{"Makefile", syntax.FlavorJavaScript},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, syntax.FlavorForPath(tc.path), tc.path)
	}
}

func TestFlavorString(t *testing.T) {
	assert.Equal(t, "javascript", syntax.FlavorJavaScript.String())
	assert.Equal(t, "typescript", syntax.FlavorTypeScript.String())
	assert.Equal(t, "tsx", syntax.FlavorTSX.String())
}

func TestParsePerFlavor(t *testing.T) {
	cases := []struct {
		name   string
		source string
		flavor syntax.Flavor
	}{
		{"javascript", "async function f() { await g(); }", syntax.FlavorJavaScript},
		{"typescript", "const n: number = 1;", syntax.FlavorTypeScript},
		{"tsx", "const el = <div>hi</div>;", syntax.FlavorTSX},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree := parse(t, tc.source, tc.flavor)
			root := tree.RootNode()
			require.NotNil(t, root)
			assert.Equal(t, syntax.KindProgram, root.Type())
			assert.False(t, root.HasError())
		})
	}
}

func TestParseRejectsInvalidUTF8(t *testing.T) {
	_, err := syntax.Parse(context.Background(), "bad.js", []byte{0xff, 0xfe, 0x00}, syntax.FlavorJavaScript)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.js")
	assert.Contains(t, err.Error(), "not valid UTF-8")
}

func TestParseToleratesSyntaxErrors(t *testing.T) {
	// tree-sitter recovers from malformed input instead of failing; the
	// resulting tree carries error nodes.
	tree := parse(t, "const = ;", syntax.FlavorTypeScript)
	assert.True(t, tree.RootNode().HasError())
}

func TestNodeContent(t *testing.T) {
	source := "f(1, 2);"
	tree := parse(t, source, syntax.FlavorJavaScript)

	call := firstOfKind(tree.RootNode(), syntax.KindCallExpression)
	require.NotNil(t, call)
	assert.Equal(t, "f(1, 2)", syntax.NodeContent(call, []byte(source)))
	assert.Equal(t, "", syntax.NodeContent(nil, []byte(source)))
}

func TestFormatLocation(t *testing.T) {
	source := "const x = 1;\n  f().then(cb);\n"
	tree := parse(t, source, syntax.FlavorTypeScript)

	call := firstOfKind(tree.RootNode(), syntax.KindCallExpression)
	require.NotNil(t, call)

	loc := syntax.FormatLocation("src/app.ts", call, []byte(source))
	assert.Equal(t, "src/app.ts", loc.File)
	assert.Equal(t, 2, loc.Line)
	assert.Equal(t, 3, loc.Column)
	assert.Equal(t, 2, loc.EndLine)
	assert.Equal(t, 15, loc.EndColumn)
	assert.Equal(t, 15, loc.StartByte)
	assert.Equal(t, 27, loc.EndByte)
	assert.Equal(t, "f().then(cb);", loc.Snippet)
	assert.Equal(t, "src/app.ts:2:3", loc.String())
}

func TestFormatLocationNilNode(t *testing.T) {
	loc := syntax.FormatLocation("src/app.ts", nil, nil)
	assert.Equal(t, "src/app.ts", loc.File)
	assert.Equal(t, "N/A", loc.Snippet)
	assert.Zero(t, loc.Line)
	assert.Zero(t, loc.Column)
}

func TestIsFunctionKind(t *testing.T) {
	for _, kind := range []string{
		syntax.KindFunctionDeclaration,
		syntax.KindGeneratorFunctionDeclaration,
		syntax.KindArrowFunction,
		syntax.KindFunction,
		syntax.KindFunctionExpression,
		syntax.KindGeneratorFunction,
		syntax.KindMethodDefinition,
	} {
		assert.True(t, syntax.IsFunctionKind(kind), kind)
	}
	assert.False(t, syntax.IsFunctionKind(syntax.KindProgram))
	assert.False(t, syntax.IsFunctionKind(syntax.KindCallExpression))
}

func TestIsFunctionExpressionKind(t *testing.T) {
	assert.True(t, syntax.IsFunctionExpressionKind(syntax.KindFunction))
	assert.True(t, syntax.IsFunctionExpressionKind(syntax.KindFunctionExpression))
	assert.True(t, syntax.IsFunctionExpressionKind(syntax.KindGeneratorFunction))
	assert.False(t, syntax.IsFunctionExpressionKind(syntax.KindFunctionDeclaration))
	assert.False(t, syntax.IsFunctionExpressionKind(syntax.KindArrowFunction))
}

func TestCallAccessors(t *testing.T) {
	source := "fetchName().then((v) => v, (e) => e);"
	tree := parse(t, source, syntax.FlavorTypeScript)
	src := []byte(source)

	outer := firstOfKind(tree.RootNode(), syntax.KindCallExpression)
	require.NotNil(t, outer)

	member := syntax.Callee(outer)
	require.NotNil(t, member)
	require.Equal(t, syntax.KindMemberExpression, member.Type())
	assert.Equal(t, "then", syntax.PropertyName(member, src))

	inner := syntax.Object(member)
	require.NotNil(t, inner)
	require.Equal(t, syntax.KindCallExpression, inner.Type())
	assert.Empty(t, syntax.Arguments(inner))

	callee := syntax.Callee(inner)
	require.NotNil(t, callee)
	assert.Equal(t, "fetchName", syntax.NodeContent(callee, src))

	args := syntax.Arguments(outer)
	require.Len(t, args, 2)
	assert.Equal(t, syntax.KindArrowFunction, args[0].Type())
	assert.Equal(t, syntax.KindArrowFunction, args[1].Type())
}

func TestFunctionAccessors(t *testing.T) {
	source := "async function fetchName(): Promise<string> {\n  return 'n';\n}\n"
	tree := parse(t, source, syntax.FlavorTypeScript)
	src := []byte(source)

	fn := firstOfKind(tree.RootNode(), syntax.KindFunctionDeclaration)
	require.NotNil(t, fn)
	assert.True(t, syntax.HasAsyncModifier(fn))

	ann := syntax.ReturnTypeAnnotation(fn)
	require.NotNil(t, ann)

	typ := syntax.AnnotationType(ann)
	require.NotNil(t, typ)
	require.Equal(t, syntax.KindGenericType, typ.Type())

	name := syntax.GenericTypeName(typ)
	require.NotNil(t, name)
	assert.Equal(t, "Promise", syntax.NodeContent(name, src))
}

func TestDeclaratorAccessors(t *testing.T) {
	source := "const handler: () => Promise<void> = () => Promise.resolve();"
	tree := parse(t, source, syntax.FlavorTypeScript)
	src := []byte(source)

	decl := firstOfKind(tree.RootNode(), syntax.KindVariableDeclarator)
	require.NotNil(t, decl)

	name := syntax.DeclaratorName(decl)
	require.NotNil(t, name)
	assert.Equal(t, "handler", syntax.NodeContent(name, src))

	value := syntax.DeclaratorValue(decl)
	require.NotNil(t, value)
	assert.Equal(t, syntax.KindArrowFunction, value.Type())

	declType := syntax.DeclaratorType(decl)
	require.NotNil(t, declType)

	fnType := syntax.AnnotationType(declType)
	require.NotNil(t, fnType)
	require.Equal(t, syntax.KindFunctionType, fnType.Type())

	ret := syntax.FunctionTypeReturn(fnType)
	require.NotNil(t, ret)
	require.Equal(t, syntax.KindGenericType, ret.Type())
	name = syntax.GenericTypeName(ret)
	require.NotNil(t, name)
	assert.Equal(t, "Promise", syntax.NodeContent(name, src))
}

func TestBareDeclarator(t *testing.T) {
	tree := parse(t, "let pending;", syntax.FlavorJavaScript)
	decl := firstOfKind(tree.RootNode(), syntax.KindVariableDeclarator)
	require.NotNil(t, decl)
	assert.Nil(t, syntax.DeclaratorValue(decl))
	assert.Nil(t, syntax.DeclaratorType(decl))
}

func TestNilNodeAccessors(t *testing.T) {
	assert.Nil(t, syntax.Callee(nil))
	assert.Nil(t, syntax.Arguments(nil))
	assert.Nil(t, syntax.Object(nil))
	assert.Empty(t, syntax.PropertyName(nil, nil))
	assert.False(t, syntax.HasAsyncModifier(nil))
	assert.Nil(t, syntax.ReturnTypeAnnotation(nil))
	assert.Nil(t, syntax.AnnotationType(nil))
	assert.Nil(t, syntax.GenericTypeName(nil))
	assert.Nil(t, syntax.FunctionTypeReturn(nil))
	assert.Nil(t, syntax.DeclaratorName(nil))
	assert.Nil(t, syntax.DeclaratorValue(nil))
	assert.Nil(t, syntax.DeclaratorType(nil))
}
