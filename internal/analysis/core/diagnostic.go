package core

import (
	"github.com/xkilldash9x/flotsam/api/schemas"
	"github.com/xkilldash9x/flotsam/internal/rewrite"
	"github.com/xkilldash9x/flotsam/internal/syntax"
)

// ActionCategory classifies a rewrite action for editors and reporters.
const CategoryQuickFix = "quick-fix"

// Diagnostic is one rule violation located in one file.
type Diagnostic struct {
	Rule     string
	Severity schemas.Severity
	Location syntax.Location
	Message  string
	Note     string
	// DocsURL points at the documentation for the violated rule.
	DocsURL string
	Action  *RewriteAction
}

// RewriteAction is the rewrite a rule offers for a diagnostic. Edits are
// byte-range replacements against the file the diagnostic was raised in;
// the engine decides whether to apply them.
type RewriteAction struct {
	Category    string
	Safety      schemas.FixSafety
	Description string
	Edits       []rewrite.Edit
}

// ToSchema converts an internal diagnostic to its wire form.
func (d Diagnostic) ToSchema() schemas.Diagnostic {
	out := schemas.Diagnostic{
		Rule:     d.Rule,
		Severity: d.Severity,
		File:     d.Location.File,
		Range: schemas.Range{
			Start: schemas.Position{Line: d.Location.Line, Column: d.Location.Column},
			End:   schemas.Position{Line: d.Location.EndLine, Column: d.Location.EndColumn},
		},
		Message: d.Message,
		Note:    d.Note,
		DocsURL: d.DocsURL,
		Snippet: d.Location.Snippet,
	}
	if d.Action != nil {
		out.Fix = &schemas.Fix{
			Description: d.Action.Description,
			Safety:      d.Action.Safety,
		}
	}
	return out
}
