// ./main.go
package main

import (
	"github.com/xkilldash9x/flotsam/cmd"
)

func main() {
	// All command-line parsing, configuration and execution happens in the
	// cmd package. Execute owns the process exit status.
	cmd.Execute()
}
