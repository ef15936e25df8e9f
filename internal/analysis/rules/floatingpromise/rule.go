// Filename: floatingpromise/rule.go
// Reports expression statements that produce a promise and drop it: the
// call is not awaited, not chained with a rejection handler, not voided and
// not returned. Offers an unsafe quick fix that awaits the expression when
// the enclosing function is async.
package floatingpromise

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/xkilldash9x/flotsam/api/schemas"
	"github.com/xkilldash9x/flotsam/internal/analysis/core"
	"github.com/xkilldash9x/flotsam/internal/rewrite"
	"github.com/xkilldash9x/flotsam/internal/syntax"
)

// RuleName identifies this rule in configuration and reports.
const RuleName = "no-floating-promises"

const (
	message = `A "floating" Promise was found, meaning it is not properly handled and could lead to ignored errors or unexpected behavior.`
	note    = "This happens when a Promise is not awaited, lacks a .catch or .then rejection handler, or is not explicitly ignored using the void operator."

	actionDescription = "Add await operator."
)

// Rule implements core.Rule. It is stateless; every evaluation reads only
// the per-file context it is handed.
type Rule struct {
	*core.BaseRule
}

func New() *Rule {
	return &Rule{
		BaseRule: core.NewBaseRule(core.Meta{
			Name:        RuleName,
			Summary:     "Require Promise-valued statements to be awaited, handled or explicitly discarded.",
			Language:    "ts",
			Tier:        core.TierExperimental,
			Recommended: false,
			FixSafety:   schemas.FixUnsafe,
			Source:      "typescript-eslint/no-floating-promises",
			DocsURL:     "https://typescript-eslint.io/rules/no-floating-promises",
		}),
	}
}

// Query matches expression statements only. Statements of the form
// `await expr`, `void expr` or `return expr` wrap the call in an outer
// construct, so they fail the direct-call test in statementCall and are
// excused without explicit case logic.
func (r *Rule) Query() []string {
	return []string{syntax.KindExpressionStatement}
}

// Evaluate signals when the statement's call produces a promise that the
// chain does not handle.
func (r *Rule) Evaluate(rctx *core.Context, node *sitter.Node) bool {
	call := statementCall(node)
	if call == nil {
		return false
	}
	if isHandledChain(call, rctx.Source, 0) {
		return false
	}
	return isPromiseCallee(rctx, syntax.Callee(call), 0)
}

// Diagnose reports the full statement's range.
func (r *Rule) Diagnose(rctx *core.Context, node *sitter.Node) core.Diagnostic {
	return core.Diagnostic{
		Rule:     RuleName,
		Severity: schemas.SeverityWarning,
		Location: syntax.FormatLocation(rctx.File, node, rctx.Source),
		Message:  message,
		Note:     note,
		DocsURL:  r.Meta().DocsURL,
	}
}

// Fix wraps the statement's expression in an await. Inserting await changes
// control flow, so the action is unsafe and only offered where await is
// legal: inside an async function.
func (r *Rule) Fix(rctx *core.Context, node *sitter.Node) *core.RewriteAction {
	if !inAsyncFunction(node) {
		return nil
	}
	call := statementCall(node)
	if call == nil {
		return nil
	}

	start := int(call.StartByte())
	end := int(call.EndByte())
	if start < 0 || end <= start || end > len(rctx.Source) {
		// Stale node reference. Propagates as no fix, never as an error.
		return nil
	}

	return &core.RewriteAction{
		Category:    core.CategoryQuickFix,
		Safety:      schemas.FixUnsafe,
		Description: actionDescription,
		Edits: []rewrite.Edit{{
			Start: start,
			End:   end,
			Text:  "await " + string(rctx.Source[start:end]),
		}},
	}
}

// statementCall returns the statement's expression when it is DIRECTLY a
// call expression, nil otherwise.
func statementCall(stmt *sitter.Node) *sitter.Node {
	if stmt == nil || stmt.Type() != syntax.KindExpressionStatement {
		return nil
	}
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		if child.Type() == syntax.KindComment {
			continue
		}
		if child.Type() == syntax.KindCallExpression {
			return child
		}
		return nil
	}
	return nil
}
