package engine

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/flotsam/api/schemas"
	"github.com/xkilldash9x/flotsam/internal/analysis/core"
	"github.com/xkilldash9x/flotsam/internal/config"
)

// Engine drives one lint run: it fans the discovered files out to a bounded
// worker pool, evaluates every enabled rule against each parse tree, applies
// requested fixes, and folds the per-file outcomes into a single report.
type Engine struct {
	cfg     *config.Config
	logger  *zap.Logger
	version string
	rules   []core.Rule
	// rulesByKind indexes rules by the node kinds their Query declares, so
	// the tree walk dispatches in one map lookup per node.
	rulesByKind map[string][]core.Rule
}

// New creates an Engine. Dependencies are validated up front to prevent
// runtime panics deep inside the worker pool.
func New(cfg *config.Config, ruleSet []core.Rule, version string, logger *zap.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if len(ruleSet) == 0 {
		return nil, errors.New("at least one rule must be enabled")
	}

	byKind := make(map[string][]core.Rule)
	for _, rule := range ruleSet {
		for _, kind := range rule.Query() {
			byKind[kind] = append(byKind[kind], rule)
		}
	}

	return &Engine{
		cfg:         cfg,
		logger:      logger.With(zap.String("component", "engine")),
		version:     version,
		rules:       ruleSet,
		rulesByKind: byKind,
	}, nil
}

// fileResult is the outcome of linting a single file. Each worker writes to
// its own slot in the results slice, so no locking is needed.
type fileResult struct {
	diagnostics  []schemas.Diagnostic
	skipped      bool
	parseFailed  bool
	fixesApplied int
	fixesSkipped int
}

// Run lints the given files and returns the completed report. Per-file
// failures are recorded in the summary rather than aborting the run; only
// context cancellation stops the pool early.
func (e *Engine) Run(ctx context.Context, paths []string) (*schemas.Report, error) {
	start := time.Now()
	runID := uuid.NewString()

	e.logger.Info("Lint run starting",
		zap.String("run_id", runID),
		zap.Int("files", len(paths)),
		zap.Int("rules", len(e.rules)),
		zap.Int("concurrency", e.cfg.Engine.Concurrency),
		zap.Bool("write", e.cfg.Check.Write),
	)

	results := make([]fileResult, len(paths))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Engine.Concurrency)

	// Throttle progress logging; large repositories produce tens of
	// thousands of files.
	progress := rate.NewLimiter(rate.Every(2*time.Second), 1)
	var processed atomic.Int64

	for i, path := range paths {
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			results[i] = e.lintFile(groupCtx, path)

			if n := processed.Add(1); progress.Allow() {
				e.logger.Info("Progress",
					zap.Int64("files_processed", n),
					zap.Int("files_total", len(paths)),
				)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &schemas.Report{
		RunID:       runID,
		Tool:        schemas.ToolInfo{Name: "flotsam", Version: e.version},
		StartedAt:   start.UTC(),
		Diagnostics: []schemas.Diagnostic{},
	}

	for _, res := range results {
		report.Diagnostics = append(report.Diagnostics, res.diagnostics...)
		if res.skipped {
			report.Summary.FilesSkipped++
		} else {
			report.Summary.FilesScanned++
		}
		if res.parseFailed {
			report.Summary.ParseFailures++
		}
		report.Summary.FixesApplied += res.fixesApplied
		report.Summary.FixesSkipped += res.fixesSkipped
	}
	report.Summary.Diagnostics = len(report.Diagnostics)

	sortDiagnostics(report.Diagnostics)
	report.DurationMS = time.Since(start).Milliseconds()

	e.logger.Info("Lint run finished",
		zap.String("run_id", runID),
		zap.Int("diagnostics", report.Summary.Diagnostics),
		zap.Int("files_scanned", report.Summary.FilesScanned),
		zap.Int("files_skipped", report.Summary.FilesSkipped),
		zap.Int("parse_failures", report.Summary.ParseFailures),
		zap.Int("fixes_applied", report.Summary.FixesApplied),
		zap.Duration("duration", time.Since(start)),
	)

	return report, nil
}

// sortDiagnostics orders output by file, then position, then rule, so runs
// are reproducible regardless of worker scheduling.
func sortDiagnostics(diags []schemas.Diagnostic) {
	sort.Slice(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Range.Start.Line != b.Range.Start.Line {
			return a.Range.Start.Line < b.Range.Start.Line
		}
		if a.Range.Start.Column != b.Range.Start.Column {
			return a.Range.Start.Column < b.Range.Start.Column
		}
		return a.Rule < b.Rule
	})
}
