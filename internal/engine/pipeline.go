// internal/engine/pipeline.go
package engine

import (
	"context"
	"os"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"github.com/xkilldash9x/flotsam/api/schemas"
	"github.com/xkilldash9x/flotsam/internal/analysis/core"
	"github.com/xkilldash9x/flotsam/internal/rewrite"
	"github.com/xkilldash9x/flotsam/internal/semantics"
	"github.com/xkilldash9x/flotsam/internal/source"
	"github.com/xkilldash9x/flotsam/internal/syntax"
)

// segment is one independently parsed stretch of a document. Plain source
// files are a single segment; HTML documents contribute one segment per
// inline script, with offsets mapping back into the document.
type segment struct {
	source     []byte
	flavor     syntax.Flavor
	byteOffset int
	lineOffset int
	colOffset  int
}

// finding pairs a wire-format diagnostic with its document-relative rewrite
// action, kept until fix application decides the Applied flag.
type finding struct {
	diag   schemas.Diagnostic
	action *core.RewriteAction
}

// lintFile runs the full per-file pipeline: read, segment, parse, build the
// semantic model, evaluate rules, and optionally apply fixes. Failures stay
// local to the file.
func (e *Engine) lintFile(ctx context.Context, path string) fileResult {
	logger := e.logger.With(zap.String("file", path))

	doc, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Skipping unreadable file", zap.Error(err))
		return fileResult{skipped: true}
	}

	var segments []segment
	if source.IsHTMLPath(path) {
		for _, s := range source.ExtractScripts(doc) {
			segments = append(segments, segment{
				source:     s.Source,
				flavor:     syntax.FlavorJavaScript,
				byteOffset: s.ByteOffset,
				lineOffset: s.LineOffset,
				colOffset:  s.ColumnOffset,
			})
		}
	} else {
		segments = append(segments, segment{source: doc, flavor: syntax.FlavorForPath(path)})
	}

	var res fileResult
	var findings []finding

	for _, seg := range segments {
		segFindings, err := e.lintSegment(ctx, path, seg)
		if err != nil {
			if ctx.Err() != nil {
				return res
			}
			logger.Warn("Failed to parse",
				zap.String("flavor", seg.flavor.String()),
				zap.Error(err),
			)
			res.parseFailed = true
			continue
		}
		findings = append(findings, segFindings...)
	}

	if e.cfg.Check.Write {
		res.fixesApplied, res.fixesSkipped = e.applyFixes(path, doc, findings, logger)
	}

	res.diagnostics = make([]schemas.Diagnostic, len(findings))
	for i, f := range findings {
		res.diagnostics[i] = f.diag
	}
	return res
}

// lintSegment parses one segment and walks its tree once, dispatching nodes
// to the rules that asked for their kind.
func (e *Engine) lintSegment(ctx context.Context, path string, seg segment) ([]finding, error) {
	tree, err := syntax.Parse(ctx, path, seg.source, seg.flavor)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	model := semantics.Build(tree.RootNode(), seg.source)
	rctx := core.NewContext(path, seg.source, model, e.logger)

	var findings []finding

	// Iterative preorder traversal; deeply nested minified sources would
	// overflow a recursive walk.
	stack := []*sitter.Node{tree.RootNode()}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, rule := range e.rulesByKind[node.Type()] {
			if !rule.Evaluate(rctx, node) {
				continue
			}
			diag := rule.Diagnose(rctx, node)
			diag.Action = rule.Fix(rctx, node)
			findings = append(findings, remapFinding(diag, seg))
		}

		for i := int(node.NamedChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, node.NamedChild(i))
		}
	}

	return findings, nil
}

// remapFinding converts a rule diagnostic to wire form and shifts segment
// positions into document coordinates. Columns shift only on the segment's
// first line; later lines start at the document's own columns.
func remapFinding(diag core.Diagnostic, seg segment) finding {
	sd := diag.ToSchema()

	if sd.Range.Start.Line == 1 {
		sd.Range.Start.Column += seg.colOffset
	}
	if sd.Range.End.Line == 1 {
		sd.Range.End.Column += seg.colOffset
	}
	sd.Range.Start.Line += seg.lineOffset
	sd.Range.End.Line += seg.lineOffset

	var action *core.RewriteAction
	if diag.Action != nil {
		shifted := make([]rewrite.Edit, len(diag.Action.Edits))
		for i, edit := range diag.Action.Edits {
			shifted[i] = rewrite.Edit{
				Start: edit.Start + seg.byteOffset,
				End:   edit.End + seg.byteOffset,
				Text:  edit.Text,
			}
		}
		action = &core.RewriteAction{
			Category:    diag.Action.Category,
			Safety:      diag.Action.Safety,
			Description: diag.Action.Description,
			Edits:       shifted,
		}
	}

	return finding{diag: sd, action: action}
}

// applyFixes merges the eligible rewrite actions into one change set and
// writes the result back. Actions whose edits collide with an already
// accepted action are skipped whole; the survivors apply atomically.
func (e *Engine) applyFixes(path string, doc []byte, findings []finding, logger *zap.Logger) (applied, skipped int) {
	var eligible []int
	for i, f := range findings {
		if f.action == nil || len(f.action.Edits) == 0 {
			continue
		}
		if f.action.Safety == schemas.FixUnsafe && !e.cfg.Check.Unsafe {
			continue
		}
		eligible = append(eligible, i)
	}
	if len(eligible) == 0 {
		return 0, 0
	}

	// Earliest edit start wins when actions overlap, which keeps the
	// outcome independent of rule evaluation order.
	sort.Slice(eligible, func(a, b int) bool {
		return findings[eligible[a]].action.Edits[0].Start < findings[eligible[b]].action.Edits[0].Start
	})

	changes := rewrite.NewChangeSet(doc)
	var accepted []int
	for _, i := range eligible {
		if err := changes.Add(findings[i].action.Edits...); err != nil {
			logger.Debug("Fix skipped",
				zap.String("rule", findings[i].diag.Rule),
				zap.Int("line", findings[i].diag.Range.Start.Line),
				zap.Error(err),
			)
			skipped++
			continue
		}
		accepted = append(accepted, i)
	}
	if len(accepted) == 0 {
		return 0, skipped
	}

	out, err := changes.Apply()
	if err != nil {
		logger.Error("Failed to assemble fixed source, leaving file untouched", zap.Error(err))
		return 0, skipped + len(accepted)
	}

	perm := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}
	if err := os.WriteFile(path, out, perm); err != nil {
		logger.Error("Failed to write fixed file", zap.Error(err))
		return 0, skipped + len(accepted)
	}

	for _, i := range accepted {
		findings[i].diag.Fix.Applied = true
	}
	logger.Info("Applied fixes", zap.Int("count", len(accepted)))
	return len(accepted), skipped
}
