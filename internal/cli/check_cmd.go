package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// newCheckCmd builds the `check` subcommand.
func newCheckCmd(errW io.Writer, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [target...]",
		Short: "Type-check targets and their transitive dependencies",
		Long: `Check evaluates the named targets (or every supported target when none
are named) for each requested language version, then executes the declared
type-check and native compilation actions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(errW, args)
			if err != nil {
				return err
			}
			return a.Check(cmd.Context())
		},
	}
}
