// matchctl is a small operator tool for running the matching pipeline
// against fixture files without standing up the HTTP service.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "matchctl",
		Short: "Run teacher/student matching from fixture files",
		Long: "matchctl runs the compatibility scoring, assignment and balancing\n" +
			"pipeline against YAML fixtures, and can generate synthetic fixtures\n" +
			"for load and acceptance testing.",
		SilenceUsage: true,
	}
	root.AddCommand(newMatchCmd())
	root.AddCommand(newGenCmd())
	return root
}
