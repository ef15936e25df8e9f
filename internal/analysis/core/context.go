// internal/analysis/core/context.go
package core

import (
	"go.uber.org/zap"

	"github.com/xkilldash9x/flotsam/internal/semantics"
)

// Context provides everything a rule may consult while evaluating one file:
// the source bytes, the semantic model, and a logger. All fields are
// read-only for the duration of the evaluation, which is what makes
// concurrent evaluations safe.
type Context struct {
	File   string
	Source []byte
	Model  *semantics.Model
	Logger *zap.Logger
}

// NewContext assembles the per-file evaluation context. The logger is named
// after the analysis subsystem so rule output is attributable.
func NewContext(file string, source []byte, model *semantics.Model, logger *zap.Logger) *Context {
	return &Context{
		File:   file,
		Source: source,
		Model:  model,
		Logger: logger.Named("rule"),
	}
}
