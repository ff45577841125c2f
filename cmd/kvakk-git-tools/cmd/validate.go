package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statisticsnorway/kvakk-git-tools/internal/gitconfig"
	"github.com/statisticsnorway/kvakk-git-tools/internal/hostenv"
	"github.com/statisticsnorway/kvakk-git-tools/internal/recommend"
	"github.com/statisticsnorway/kvakk-git-tools/internal/reconcile"
)

// newValidateCmd creates the validate subcommand. It checks the live
// config against the recommendation for the detected environment without
// changing anything, and exits nonzero on drift.
func newValidateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check whether the git configuration follows the recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			signals := hostenv.Collect()
			env := hostenv.Classify(signals)
			if env == hostenv.EnvUnknown {
				return fmt.Errorf("unable to classify this machine, nothing to validate against")
			}

			path := *configPath
			if path == "" {
				path = gitconfig.DefaultPath()
			}

			store, err := gitconfig.LoadStore(path)
			if err != nil {
				return err
			}

			ds := reconcile.Verify(store, recommend.Resolve(env))
			if len(ds) == 0 {
				fmt.Fprintln(out, "Git configuration follows the recommendations.")

				return nil
			}

			for _, d := range ds {
				fmt.Fprintf(out, "Discrepancy: %s\n", d)
			}
			fmt.Fprintln(out, "WARNING: Git configuration does not follow the recommendations.")
			fmt.Fprintln(out, "This can lead to sensitive information being pushed to Git.")
			fmt.Fprintln(out, "You can fix this by running: kvakk-git-tools")

			return fmt.Errorf("%d discrepancies found", len(ds))
		},
	}
}
