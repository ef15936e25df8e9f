// File: cmd/version.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build metadata, set at build time via ldflags:
//
//	go build -ldflags "-X github.com/xkilldash9x/flotsam/cmd.Version=v1.0.0"
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints version and build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "flotsam %s (commit %s, built %s)\n", Version, Commit, Date)
		},
	}
}
