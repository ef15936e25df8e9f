// -- internal/reporting/reporter.go --
package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/xkilldash9x/flotsam/api/schemas"
)

// Reporter defines the interface for writing a lint report to an output.
type Reporter interface {
	// Write serializes the report of one run.
	Write(report *schemas.Report) error
	// Close finalizes the report and closes any underlying resources (e.g. file handles).
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// New creates a new reporter based on the specified format and output path.
// An empty path (or "stdout") writes to standard output, which Close leaves
// open.
func New(format, outputPath string) (Reporter, error) {
	var writer io.WriteCloser
	isStdOut := outputPath == "" || outputPath == "stdout"

	if isStdOut {
		// Wrap Stdout so Close() is a no-op.
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}

	cleanup := func() {
		if !isStdOut {
			writer.Close()
		}
	}

	switch format {
	case "text":
		return NewTextReporter(writer), nil
	case "json":
		return NewJSONReporter(writer), nil
	case "sarif":
		return NewSARIFReporter(writer), nil
	case "checkstyle":
		return NewCheckstyleReporter(writer), nil
	default:
		cleanup()
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
