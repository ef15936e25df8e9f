// File: cmd/rules.go
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/flotsam/internal/analysis/rules"
)

// newRulesCmd creates the `rules` command, a table of every registered rule
// and its metadata.
func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Lists the registered lint rules and their metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tLANGUAGE\tTIER\tRECOMMENDED\tFIX\tSOURCE")
			for _, rule := range rules.All() {
				meta := rule.Meta()
				fix := string(meta.FixSafety)
				if fix == "" {
					fix = "none"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\t%s\n",
					meta.Name, meta.Language, meta.Tier, meta.Recommended, fix, meta.Source)
			}
			return w.Flush()
		},
	}
}
