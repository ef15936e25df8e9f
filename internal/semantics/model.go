// Filename: semantics/model.go
// Lexical scope tree and binding resolution for one parsed source file.
// The model is built once per file and is read-only afterwards, so any
// number of rule evaluations may query it concurrently.
package semantics

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/xkilldash9x/flotsam/internal/syntax"
)

// DeclKind discriminates what construct a name resolved to. Analysis rules
// switch on it exhaustively; kinds they do not understand are inert.
type DeclKind int

const (
	DeclFunction DeclKind = iota
	DeclVariable
	DeclParameter
	DeclClass
	DeclImport
)

func (k DeclKind) String() string {
	switch k {
	case DeclFunction:
		return "function"
	case DeclVariable:
		return "variable"
	case DeclParameter:
		return "parameter"
	case DeclClass:
		return "class"
	case DeclImport:
		return "import"
	}
	return "unknown"
}

// Declaration ties a binding name to its declaring construct. Node is the
// function_declaration for functions, the variable_declarator for variables,
// and the binding pattern for parameters and imports.
type Declaration struct {
	Kind DeclKind
	Name string
	Node *sitter.Node
}

type scopeKind int

const (
	scopeProgram scopeKind = iota
	scopeFunction
	scopeBlock
)

type scope struct {
	kind     scopeKind
	parent   *scope
	children []*scope
	bindings map[string]*Declaration

	// Byte range of the owning node, used for innermost-scope lookup.
	start int
	end   int
}

func newScope(kind scopeKind, parent *scope, node *sitter.Node) *scope {
	s := &scope{
		kind:     kind,
		parent:   parent,
		bindings: make(map[string]*Declaration),
		start:    int(node.StartByte()),
		end:      int(node.EndByte()),
	}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// declare records a binding. Later declarations of the same name in the same
// scope win, mirroring runtime re-binding order closely enough for lookup.
func (s *scope) declare(decl *Declaration) {
	s.bindings[decl.Name] = decl
}

// hoistTarget walks to the nearest function or program scope, the binding
// target for `var` declarators and function declarations.
func (s *scope) hoistTarget() *scope {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.kind == scopeFunction || cur.kind == scopeProgram {
			return cur
		}
	}
	return s
}

// lookup resolves a name through the lexical parent chain.
func (s *scope) lookup(name string) *Declaration {
	for cur := s; cur != nil; cur = cur.parent {
		if decl, ok := cur.bindings[name]; ok {
			return decl
		}
	}
	return nil
}

// Model resolves identifier references against the scope tree of one file.
type Model struct {
	root   *scope
	source []byte
}

// Resolve returns the declaration an identifier reference binds to, or nil
// when the name is free (undeclared in this file). Resolution is total:
// it never fails, it only declines.
func (m *Model) Resolve(ref *sitter.Node) *Declaration {
	if m == nil || ref == nil {
		return nil
	}
	if ref.Type() != syntax.KindIdentifier {
		return nil
	}
	name := syntax.NodeContent(ref, m.source)
	if name == "" {
		return nil
	}
	return m.scopeAt(int(ref.StartByte())).lookup(name)
}

// scopeAt finds the innermost scope whose byte range contains the offset.
func (m *Model) scopeAt(offset int) *scope {
	cur := m.root
	for {
		descended := false
		for _, child := range cur.children {
			if offset >= child.start && offset < child.end {
				cur = child
				descended = true
				break
			}
		}
		if !descended {
			return cur
		}
	}
}
