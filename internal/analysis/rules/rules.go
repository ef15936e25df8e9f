// Filename: rules/rules.go
package rules

import (
	"github.com/xkilldash9x/flotsam/internal/analysis/core"
	"github.com/xkilldash9x/flotsam/internal/analysis/rules/floatingpromise"
)

// All returns every registered rule in a stable order. Rules are
// constructed fresh per call; they are stateless, so sharing would also be
// safe, but fresh values keep test runs independent.
func All() []core.Rule {
	return []core.Rule{
		floatingpromise.New(),
	}
}

// Enabled filters the registry down to the rules a run should execute:
// recommended rules plus any rule named in enable. Experimental rules only
// run when named.
func Enabled(enable []string) []core.Rule {
	named := make(map[string]bool, len(enable))
	for _, name := range enable {
		named[name] = true
	}

	var out []core.Rule
	for _, rule := range All() {
		meta := rule.Meta()
		if meta.Recommended || named[meta.Name] {
			out = append(out, rule)
		}
	}
	return out
}
