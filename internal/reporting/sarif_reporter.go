// internal/reporting/sarif_reporter.go
package reporting

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/flotsam/api/schemas"
	"github.com/xkilldash9x/flotsam/internal/observability"
	"github.com/xkilldash9x/flotsam/internal/reporting/sarif"
)

// Constants for tool identification in the SARIF report.
const (
	ToolName     = "flotsam"
	ToolInfoURI  = "https://github.com/xkilldash9x/flotsam"
	SARIFVersion = "2.1.0"
	SARIFSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
)

// ruleIDSanitizer replaces characters not allowed in SARIF rule IDs.
// Alphanumerics, underscore, dot and hyphen pass through; everything else
// collapses to a single hyphen.
var ruleIDSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// SARIFReporter implements the Reporter interface for the SARIF 2.1.0 format.
// It is thread safe.
type SARIFReporter struct {
	writer io.WriteCloser
	logger *zap.Logger
	log    *sarif.Log
	// mu protects the log structure and the rule index map.
	mu sync.Mutex
	// ruleIndexes maps a rule ID to its position in the driver's rule list,
	// so repeated diagnostics reference one shared descriptor.
	ruleIndexes map[string]int
}

// NewSARIFReporter creates a new reporter that writes SARIF output.
// It takes ownership of the writer.
func NewSARIFReporter(writer io.WriteCloser) *SARIFReporter {
	logger := observability.GetLogger().Named("sarif_reporter")
	log := &sarif.Log{
		Version: SARIFVersion,
		Schema:  SARIFSchema,
		Runs: []*sarif.Run{
			{
				Tool: &sarif.Tool{
					Driver: &sarif.ToolComponent{
						Name:           ToolName,
						InformationURI: pString(ToolInfoURI),
						// Initialize empty slices (not nil) for proper JSON marshalling.
						Rules: []*sarif.ReportingDescriptor{},
					},
				},
				Results: []*sarif.Result{},
			},
		},
	}

	return &SARIFReporter{
		writer:      writer,
		logger:      logger,
		log:         log,
		ruleIndexes: make(map[string]int),
	}
}

// Write converts the report's diagnostics into SARIF results.
func (r *SARIFReporter) Write(report *schemas.Report) error {
	startTime := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	run := r.log.Runs[0]
	run.Tool.Driver.Version = pString(report.Tool.Version)

	for _, diag := range report.Diagnostics {
		ruleID, ruleIndex := r.ensureRule(diag)

		idx := ruleIndex
		sarifResult := &sarif.Result{
			RuleID:              ruleID,
			RuleIndex:           &idx,
			Message:             &sarif.Message{Text: pString(diag.Message)},
			Level:               mapSeverityToSARIFLevel(diag.Severity),
			Locations:           createLocations(diag),
			PartialFingerprints: map[string]string{"flotsamDiagnostic/v1": fingerprintDiagnostic(diag)},
		}
		run.Results = append(run.Results, sarifResult)
	}

	r.logger.Debug("Wrote diagnostics to SARIF buffer",
		zap.Int("diagnostics_count", len(report.Diagnostics)),
		zap.Duration("duration_ms", time.Since(startTime)),
	)

	return nil
}

// Close finalizes the SARIF log and writes it to the output writer.
func (r *SARIFReporter) Close() error {
	startTime := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	var resultsCount, rulesCount int
	if len(r.log.Runs) > 0 && r.log.Runs[0] != nil {
		resultsCount = len(r.log.Runs[0].Results)
		if r.log.Runs[0].Tool != nil && r.log.Runs[0].Tool.Driver != nil {
			rulesCount = len(r.log.Runs[0].Tool.Driver.Rules)
		}
	}

	r.logger.Debug("Finalizing SARIF report",
		zap.Int("total_results", resultsCount),
		zap.Int("total_rules", rulesCount),
	)

	out, encodeErr := json.MarshalIndent(r.log, "", "  ")
	var writeErr error
	if encodeErr == nil {
		out = append(out, '\n')
		_, writeErr = r.writer.Write(out)
	}
	// Always attempt to close the writer, regardless of encoding success.
	closeErr := r.writer.Close()

	if encodeErr != nil {
		r.logger.Error("Failed to encode SARIF log to JSON", zap.Error(encodeErr))
		// Prioritize the encoding error as it indicates corrupted/incomplete output.
		return fmt.Errorf("failed to encode SARIF output: %w", encodeErr)
	}
	if writeErr != nil {
		r.logger.Error("Failed to write SARIF log", zap.Error(writeErr))
		return fmt.Errorf("failed to write SARIF output: %w", writeErr)
	}

	if closeErr != nil {
		r.logger.Error("Failed to close output writer", zap.Error(closeErr))
		return fmt.Errorf("failed to close output writer: %w", closeErr)
	}

	r.logger.Debug("Successfully wrote SARIF report",
		zap.Duration("duration_ms", time.Since(startTime)),
	)

	return nil
}

// fingerprintDiagnostic hashes the characteristics that identify a finding
// across runs. Line numbers shift with edits, so the snippet carries most of
// the identity.
func fingerprintDiagnostic(diag schemas.Diagnostic) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s|%s|%d|%s", diag.Rule, diag.File, diag.Range.Start.Line, diag.Snippet)
	return hex.EncodeToString(h.Sum(nil))
}

// sanitizeRuleName creates a standardized rule ID component.
func sanitizeRuleName(name string) string {
	if name == "" {
		return "unnamed-rule"
	}
	sanitized := ruleIDSanitizer.ReplaceAllString(name, "-")
	sanitized = strings.Trim(sanitized, "-")
	if sanitized == "" {
		return "unknown-rule"
	}
	return sanitized
}

// ensureRule registers the diagnostic's rule descriptor once and returns its
// ID and index. Must be called while holding the mutex.
func (r *SARIFReporter) ensureRule(diag schemas.Diagnostic) (string, int) {
	ruleID := sanitizeRuleName(diag.Rule)
	if index, exists := r.ruleIndexes[ruleID]; exists {
		return ruleID, index
	}

	r.logger.Debug("Registering new SARIF rule definition", zap.String("rule_id", ruleID))

	driver := r.log.Runs[0].Tool.Driver
	newRule := &sarif.ReportingDescriptor{
		ID:               ruleID,
		Name:             pString(diag.Rule),
		ShortDescription: &sarif.MultiformatMessageString{Text: pString(diag.Message)},
		Properties: &sarif.PropertyBag{
			"tags": []string{"lint", "flotsam"},
		},
	}
	if diag.Note != "" {
		newRule.FullDescription = &sarif.MultiformatMessageString{Text: pString(diag.Note)}
	}
	if diag.DocsURL != "" {
		newRule.HelpURI = pString(diag.DocsURL)
	}

	index := len(driver.Rules)
	driver.Rules = append(driver.Rules, newRule)
	r.ruleIndexes[ruleID] = index
	return ruleID, index
}

// createLocations converts the diagnostic range into a SARIF location.
func createLocations(diag schemas.Diagnostic) []*sarif.Location {
	region := &sarif.Region{
		StartLine:   diag.Range.Start.Line,
		StartColumn: pInt(diag.Range.Start.Column),
		EndLine:     pInt(diag.Range.End.Line),
		EndColumn:   pInt(diag.Range.End.Column),
	}
	if diag.Snippet != "" {
		region.Snippet = &sarif.ArtifactContent{Text: pString(diag.Snippet)}
	}

	location := &sarif.Location{
		PhysicalLocation: &sarif.PhysicalLocation{
			ArtifactLocation: &sarif.ArtifactLocation{
				URI: pString(diag.File),
			},
			Region: region,
		},
	}
	return []*sarif.Location{location}
}

// mapSeverityToSARIFLevel converts flotsam severities to the SARIF standard.
func mapSeverityToSARIFLevel(severity schemas.Severity) sarif.Level {
	switch severity {
	case schemas.SeverityError:
		return sarif.LevelError
	case schemas.SeverityWarning:
		return sarif.LevelWarning
	default:
		return sarif.LevelNote
	}
}

// pString returns a pointer to the given string value. Helper for optional SARIF fields.
func pString(s string) *string {
	return &s
}

// pInt returns a pointer to the given int value.
func pInt(i int) *int {
	return &i
}
