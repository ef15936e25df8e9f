// internal/analysis/core/core_test.go
package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/flotsam/api/schemas"
	"github.com/xkilldash9x/flotsam/internal/analysis/core"
	"github.com/xkilldash9x/flotsam/internal/rewrite"
	"github.com/xkilldash9x/flotsam/internal/syntax"
)

func TestDiagnosticToSchema(t *testing.T) {
	diag := core.Diagnostic{
		Rule:     "no-floating-promises",
		Severity: schemas.SeverityWarning,
		Location: syntax.Location{
			File:      "src/app.ts",
			Line:      6,
			Column:    3,
			EndLine:   6,
			EndColumn: 21,
			Snippet:   "f().then(() => {});",
		},
		Message: "dropped promise",
		Note:    "await it",
		DocsURL: "https://example.invalid/docs",
	}

	out := diag.ToSchema()
	assert.Equal(t, "no-floating-promises", out.Rule)
	assert.Equal(t, schemas.SeverityWarning, out.Severity)
	assert.Equal(t, "src/app.ts", out.File)
	assert.Equal(t, schemas.Position{Line: 6, Column: 3}, out.Range.Start)
	assert.Equal(t, schemas.Position{Line: 6, Column: 21}, out.Range.End)
	assert.Equal(t, "dropped promise", out.Message)
	assert.Equal(t, "await it", out.Note)
	assert.Equal(t, "https://example.invalid/docs", out.DocsURL)
	assert.Equal(t, "f().then(() => {});", out.Snippet)
	assert.Nil(t, out.Fix)
}

func TestDiagnosticToSchemaCarriesFix(t *testing.T) {
	diag := core.Diagnostic{
		Rule: "no-floating-promises",
		Action: &core.RewriteAction{
			Category:    core.CategoryQuickFix,
			Safety:      schemas.FixUnsafe,
			Description: "Add await operator.",
			Edits:       []rewrite.Edit{{Start: 0, End: 4, Text: "await f()"}},
		},
	}

	out := diag.ToSchema()
	require.NotNil(t, out.Fix)
	assert.Equal(t, "Add await operator.", out.Fix.Description)
	assert.Equal(t, schemas.FixUnsafe, out.Fix.Safety)
	// Applied is a run-level outcome; conversion never claims it.
	assert.False(t, out.Fix.Applied)
}

func TestBaseRuleMeta(t *testing.T) {
	meta := core.Meta{
		Name:        "example-rule",
		Summary:     "Example.",
		Tier:        core.TierExperimental,
		Recommended: false,
	}
	base := core.NewBaseRule(meta)
	assert.Equal(t, meta, base.Meta())
}

func TestNewContext(t *testing.T) {
	source := []byte("f();")
	ctx := core.NewContext("src/app.ts", source, nil, zaptest.NewLogger(t))
	require.NotNil(t, ctx)
	assert.Equal(t, "src/app.ts", ctx.File)
	assert.Equal(t, source, ctx.Source)
	assert.NotNil(t, ctx.Logger)
}
