package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statisticsnorway/kvakk-git-tools/internal/recommend"
)

// newValidateLocalCmd creates the validate-local subcommand. It checks a
// repository's .gitignore and .gitattributes against the recommended
// baselines without changing anything, and exits nonzero on drift.
func newValidateLocalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-local [path]",
		Short: "Check a repository's .gitignore and .gitattributes against the recommendations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			reports, err := recommend.ValidateLocalFiles(dir)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				fmt.Fprintln(out, "Local git files follow the recommendations.")

				return nil
			}

			for _, r := range reports {
				fmt.Fprintf(out, "%s is missing recommended lines:\n", r.File)
				for _, line := range r.Missing {
					fmt.Fprintf(out, "  %s\n", line)
				}
			}
			fmt.Fprintln(out, "WARNING: Local git files do not follow the recommendations.")
			fmt.Fprintln(out, "This can lead to sensitive information being pushed to Git.")

			return fmt.Errorf("%d local git files do not follow the recommendations", len(reports))
		},
	}
}
