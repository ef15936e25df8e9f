package core

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/xkilldash9x/flotsam/api/schemas"
)

// Tier communicates how settled a rule's behavior is. Experimental rules are
// off by default and must be enabled explicitly.
type Tier string

const (
	TierStable       Tier = "stable"
	TierExperimental Tier = "experimental"
)

// Meta carries the rule metadata the host surfaces: listings, report
// headers and SARIF rule descriptors.
type Meta struct {
	// Name is the rule identifier used in configuration and output,
	// e.g. "no-floating-promises".
	Name string
	// Summary is a one-line description of what the rule reports.
	Summary string
	// Language names the source language family the rule targets.
	Language string
	Tier     Tier
	// Recommended rules run without explicit opt-in.
	Recommended bool
	// FixSafety applies to every action the rule produces.
	FixSafety schemas.FixSafety
	// Source cross-references the equivalent rule in an external linter,
	// e.g. "typescript-eslint/no-floating-promises".
	Source string
	// DocsURL points at the upstream documentation for Source.
	DocsURL string
}

// Rule is the contract every lint rule implements. The engine walks each
// parse tree once and hands matching nodes to Evaluate; Diagnose and Fix are
// only invoked for nodes Evaluate signaled on. Implementations must be
// stateless: the engine calls one rule from many goroutines concurrently.
type Rule interface {
	Meta() Meta

	// Query returns the node kinds the rule wants to see.
	Query() []string

	// Evaluate reports whether the node violates the rule. It must not
	// return errors; inability to decide is absence of a signal.
	Evaluate(rctx *Context, node *sitter.Node) bool

	// Diagnose builds the diagnostic for a node Evaluate signaled on.
	Diagnose(rctx *Context, node *sitter.Node) Diagnostic

	// Fix returns the rewrite action for a signaled node, or nil when no
	// fix applies at this position.
	Fix(rctx *Context, node *sitter.Node) *RewriteAction
}
