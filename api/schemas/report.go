package schemas

import (
	"time"
)

// -- Lint Report Schemas --

// Severity represents the severity level of a diagnostic. The values are
// lowercase to align with common linter output formats.
type Severity string

// Constants defining the standard severity levels for diagnostics.
const (
	SeverityError   Severity = "error"   // The statement is judged defective.
	SeverityWarning Severity = "warning" // Likely defective, with known false-negative tolerance.
	SeverityInfo    Severity = "info"    // Informational or stylistic signal.
)

// FixSafety describes whether an automatic fix preserves program semantics.
type FixSafety string

const (
	// FixSafe rewrites are behavior-preserving and may be applied without review.
	FixSafe FixSafety = "safe"
	// FixUnsafe rewrites can change runtime behavior (an inserted await alters
	// control flow) and require explicit opt-in.
	FixUnsafe FixSafety = "unsafe"
)

// Position is a 1-based line/column pair within a source file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range spans from Start up to End within one file.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Fix summarizes the automatic rewrite attached to a diagnostic, and whether
// this run applied it.
type Fix struct {
	Description string    `json:"description"`
	Safety      FixSafety `json:"safety"`
	Applied     bool      `json:"applied"`
}

// Diagnostic encapsulates a single rule violation: the rule that produced
// it, where it is, and the remediation guidance. This is the unit every
// reporter serializes.
type Diagnostic struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	File     string   `json:"file"`
	Range    Range    `json:"range"`

	Message string `json:"message"`
	Note    string `json:"note,omitempty"`
	DocsURL string `json:"docs_url,omitempty"`

	// Snippet is the trimmed source line the diagnostic starts on.
	Snippet string `json:"snippet,omitempty"`

	Fix *Fix `json:"fix,omitempty"`
}

// Summary aggregates the outcome of one lint run.
type Summary struct {
	FilesScanned  int `json:"files_scanned"`
	FilesSkipped  int `json:"files_skipped"`
	Diagnostics   int `json:"diagnostics"`
	FixesApplied  int `json:"fixes_applied"`
	FixesSkipped  int `json:"fixes_skipped"`
	ParseFailures int `json:"parse_failures"`
}

// ToolInfo identifies the producing tool in serialized reports.
type ToolInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Report is the envelope handed to reporters after a run completes.
type Report struct {
	RunID       string       `json:"run_id"`
	Tool        ToolInfo     `json:"tool"`
	StartedAt   time.Time    `json:"started_at"`
	DurationMS  int64        `json:"duration_ms"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Summary     Summary      `json:"summary"`
}
