package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// newTestCmd builds the `test` subcommand.
func newTestCmd(errW io.Writer, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "test [target...]",
		Short: "Verify the type-check reports reachable from test targets",
		Long: `Test evaluates the named test targets (or every test target when none
are named), collects every transitively reachable report artifact, and
runs one verification per test target reducing its reports to a single
pass/fail outcome.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(errW, args)
			if err != nil {
				return err
			}
			return a.Test(cmd.Context())
		},
	}
}
