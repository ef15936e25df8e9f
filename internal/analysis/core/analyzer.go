package core

// BaseRule provides the metadata half of the `Rule` interface. It is
// intended to be embedded within specific rule implementations to reduce
// boilerplate code; the embedding rule supplies the analysis methods.
type BaseRule struct {
	meta Meta
}

// NewBaseRule creates the embeddable metadata carrier for a rule.
func NewBaseRule(meta Meta) *BaseRule {
	return &BaseRule{meta: meta}
}

// Meta returns the rule's host-facing metadata.
func (b *BaseRule) Meta() Meta {
	return b.meta
}
