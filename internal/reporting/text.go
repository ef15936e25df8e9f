// -- internal/reporting/text.go --
package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/xkilldash9x/flotsam/api/schemas"
)

// TextReporter renders diagnostics for humans, one block per diagnostic with
// the offending source line underneath, and a run summary at the end.
type TextReporter struct {
	writer io.WriteCloser
}

// NewTextReporter creates a reporter with the default terminal format.
// It takes ownership of the writer.
func NewTextReporter(writer io.WriteCloser) *TextReporter {
	return &TextReporter{writer: writer}
}

// Write renders the full report.
func (r *TextReporter) Write(report *schemas.Report) error {
	var b strings.Builder

	for _, diag := range report.Diagnostics {
		fmt.Fprintf(&b, "%s:%d:%d: %s: %s [%s]\n",
			diag.File, diag.Range.Start.Line, diag.Range.Start.Column,
			diag.Severity, diag.Message, diag.Rule)
		if diag.Snippet != "" {
			fmt.Fprintf(&b, "    %s\n", diag.Snippet)
		}
		if diag.Note != "" {
			fmt.Fprintf(&b, "    note: %s\n", diag.Note)
		}
		if diag.Fix != nil {
			state := "available"
			if diag.Fix.Applied {
				state = "applied"
			}
			fmt.Fprintf(&b, "    fix (%s): %s [%s]\n", diag.Fix.Safety, diag.Fix.Description, state)
		}
		b.WriteByte('\n')
	}

	s := report.Summary
	fmt.Fprintf(&b, "%d diagnostics in %d files", s.Diagnostics, s.FilesScanned)
	if s.FixesApplied > 0 || s.FixesSkipped > 0 {
		fmt.Fprintf(&b, " (%d fixes applied, %d skipped)", s.FixesApplied, s.FixesSkipped)
	}
	if s.ParseFailures > 0 {
		fmt.Fprintf(&b, ", %d files failed to parse", s.ParseFailures)
	}
	b.WriteByte('\n')

	_, err := io.WriteString(r.writer, b.String())
	return err
}

// Close releases the underlying writer.
func (r *TextReporter) Close() error {
	return r.writer.Close()
}
