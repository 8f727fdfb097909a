package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), map[string]string{
					"version": opts.build.Version,
					"commit":  opts.build.Commit,
					"date":    opts.build.Date,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pomoblock version %s\n", opts.build.Version)
			fmt.Fprintf(out, "  commit: %s\n", opts.build.Commit)
			fmt.Fprintf(out, "  built:  %s\n", opts.build.Date)
			return nil
		},
	}
}
