// File: cmd/check.go
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/flotsam/internal/analysis/rules"
	"github.com/xkilldash9x/flotsam/internal/engine"
	"github.com/xkilldash9x/flotsam/internal/observability"
	"github.com/xkilldash9x/flotsam/internal/reporting"
	"github.com/xkilldash9x/flotsam/internal/source"
)

// newCheckCmd creates and configures the `check` command.
func newCheckCmd() *cobra.Command {
	var (
		write  bool
		unsafe bool
		since  string
	)

	checkCmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Lints the given files or directories for floating promises",
		Long: `Check parses each JavaScript or TypeScript file, reports statements that
create a Promise and drop it, and optionally rewrites them with --write.
Paths default to the current directory. Exit status is 0 when no
diagnostics are found, 1 when at least one is, and 2 on failure.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			cfg := configFromContext(ctx)

			cfg.Check.Targets = args
			if len(cfg.Check.Targets) == 0 {
				cfg.Check.Targets = []string{"."}
			}
			cfg.Check.Write = write
			cfg.Check.Unsafe = unsafe
			cfg.Check.Since = since
			if cfg.Check.Unsafe && !cfg.Check.Write {
				logger.Warn("--unsafe has no effect without --write")
			}

			opts := source.Options{
				Extensions:  cfg.Source.Extensions,
				Excludes:    cfg.Source.Excludes,
				MaxFileSize: cfg.Source.MaxFileSize,
				IncludeHTML: cfg.Source.IncludeHTML,
			}
			if cfg.Check.Since != "" {
				changed, err := source.ChangedSince(".", cfg.Check.Since, logger)
				if err != nil {
					return fmt.Errorf("resolving --since %q: %w", cfg.Check.Since, err)
				}
				opts.Changed = changed
			}

			files, err := source.Discover(cfg.Check.Targets, opts, logger)
			if err != nil {
				return fmt.Errorf("discovering files: %w", err)
			}
			if len(files) == 0 {
				logger.Warn("No lintable files found", zap.Strings("targets", cfg.Check.Targets))
			}

			enabled := rules.Enabled(cfg.Rules.Enable)
			if len(enabled) == 0 {
				return fmt.Errorf("no rules enabled; name experimental rules under rules.enable")
			}

			eng, err := engine.New(cfg, enabled, Version, logger)
			if err != nil {
				return fmt.Errorf("initializing engine: %w", err)
			}

			report, err := eng.Run(ctx, files)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					logger.Warn("Check aborted by user signal")
					return fmt.Errorf("check aborted: %w", err)
				}
				return err
			}

			reporter, err := reporting.New(cfg.Output.Format, cfg.Output.Path)
			if err != nil {
				return fmt.Errorf("initializing reporter: %w", err)
			}
			if err := reporter.Write(report); err != nil {
				_ = reporter.Close()
				return fmt.Errorf("writing report: %w", err)
			}
			// SARIF buffers until Close, so a Close failure loses the report.
			if err := reporter.Close(); err != nil {
				return fmt.Errorf("finalizing report: %w", err)
			}

			// Diagnostics whose fix was just applied no longer fail the run.
			for _, diag := range report.Diagnostics {
				if diag.Fix == nil || !diag.Fix.Applied {
					return errDiagnosticsFound
				}
			}
			return nil
		},
	}

	// Reporting flags.
	checkCmd.Flags().StringP("format", "f", "", "report format: text, json, sarif or checkstyle")
	checkCmd.Flags().StringP("output", "o", "", "report destination path (default stdout)")

	// Fix application flags.
	checkCmd.Flags().BoolVar(&write, "write", false, "apply safe fixes to the checked files")
	checkCmd.Flags().BoolVar(&unsafe, "unsafe", false, "with --write, also apply fixes marked unsafe")

	// Scope and tuning flags. Unset values defer to config and environment.
	checkCmd.Flags().StringVar(&since, "since", "", "only lint files changed since this git revision (e.g. HEAD~1)")
	checkCmd.Flags().IntP("concurrency", "j", 0, "number of files linted in parallel")
	checkCmd.Flags().Int64("max-file-size", 0, "skip files larger than this many bytes")
	checkCmd.Flags().Bool("include-html", false, "also lint inline <script> bodies in .html files")
	checkCmd.Flags().StringSlice("exclude", nil, "directory names to skip during discovery")

	return checkCmd
}
