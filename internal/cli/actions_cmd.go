package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// newActionsCmd builds the `actions` subcommand.
func newActionsCmd(errW io.Writer, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "actions [target...]",
		Short: "Print the described action graph without executing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(errW, args)
			if err != nil {
				return err
			}
			return a.DumpActions(cmd.Context(), cmd.OutOrStdout())
		},
	}
}
