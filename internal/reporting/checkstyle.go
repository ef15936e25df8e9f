// -- internal/reporting/checkstyle.go --
package reporting

import (
	"fmt"
	"io"

	"github.com/beevik/etree"

	"github.com/xkilldash9x/flotsam/api/schemas"
)

// CheckstyleReporter emits the checkstyle XML dialect most CI systems and
// editor plugins already ingest.
type CheckstyleReporter struct {
	writer io.WriteCloser
}

// NewCheckstyleReporter creates a checkstyle reporter. It takes ownership of
// the writer.
func NewCheckstyleReporter(writer io.WriteCloser) *CheckstyleReporter {
	return &CheckstyleReporter{writer: writer}
}

// Write groups diagnostics per file, preserving the report's ordering.
func (r *CheckstyleReporter) Write(report *schemas.Report) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("checkstyle")
	root.CreateAttr("version", "4.3")

	fileElements := make(map[string]*etree.Element)
	for _, diag := range report.Diagnostics {
		fileEl, ok := fileElements[diag.File]
		if !ok {
			fileEl = root.CreateElement("file")
			fileEl.CreateAttr("name", diag.File)
			fileElements[diag.File] = fileEl
		}

		errEl := fileEl.CreateElement("error")
		errEl.CreateAttr("line", fmt.Sprintf("%d", diag.Range.Start.Line))
		errEl.CreateAttr("column", fmt.Sprintf("%d", diag.Range.Start.Column))
		errEl.CreateAttr("severity", checkstyleSeverity(diag.Severity))
		errEl.CreateAttr("message", diag.Message)
		errEl.CreateAttr("source", "flotsam."+diag.Rule)
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(r.writer); err != nil {
		return fmt.Errorf("failed to write checkstyle report: %w", err)
	}
	return nil
}

// Close releases the underlying writer.
func (r *CheckstyleReporter) Close() error {
	return r.writer.Close()
}

// checkstyleSeverity maps to the three levels the checkstyle schema allows.
func checkstyleSeverity(severity schemas.Severity) string {
	switch severity {
	case schemas.SeverityError:
		return "error"
	case schemas.SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}
