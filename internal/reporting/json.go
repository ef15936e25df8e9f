// -- internal/reporting/json.go --
package reporting

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/flotsam/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONReporter emits the report envelope verbatim as indented JSON, the
// format downstream tooling consumes.
type JSONReporter struct {
	writer io.WriteCloser
}

// NewJSONReporter creates a JSON reporter. It takes ownership of the writer.
func NewJSONReporter(writer io.WriteCloser) *JSONReporter {
	return &JSONReporter{writer: writer}
}

// Write serializes the report.
func (r *JSONReporter) Write(report *schemas.Report) error {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	out = append(out, '\n')
	if _, err := r.writer.Write(out); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}

// Close releases the underlying writer.
func (r *JSONReporter) Close() error {
	return r.writer.Close()
}
