// Package cmd provides the CLI commands for kvakk-git-tools.
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/gopasspw/gopass/pkg/termio"
	"github.com/spf13/cobra"

	"github.com/statisticsnorway/kvakk-git-tools/internal/gitconfig"
	"github.com/statisticsnorway/kvakk-git-tools/internal/hostenv"
	"github.com/statisticsnorway/kvakk-git-tools/internal/recommend"
	"github.com/statisticsnorway/kvakk-git-tools/internal/reconcile"
)

const version = "3.0.0"

// Placeholder identity used by the non-interactive test mode, matching
// what the automated smoke tests have always used.
const (
	testName  = "John Doe"
	testEmail = "johndoe@example.com"
)

// collectSignals is swapped out in tests to replay recorded evidence.
var collectSignals = hostenv.Collect

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	var testMode bool
	var dryRun bool
	var configPath string

	cmd := &cobra.Command{
		Use:   "kvakk-git-tools",
		Short: "Apply the recommended git configuration for this machine",
		Long: `kvakk-git-tools detects which environment this machine belongs to
(Dapla, production zone Linux or Windows, admin zone, stand-alone) and
merges the recommended git configuration for that environment into your
git config. Values you own, like user.name and user.email, are never
overwritten, and the existing config is backed up before any change.`,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, testMode, dryRun, configPath)
		},
	}

	cmd.SetVersionTemplate("kvakk-git-tools version {{.Version}}\n")

	cmd.Flags().BoolVar(&testMode, "test", false, "Run non-interactively with a placeholder identity, exit nonzero on any discrepancy")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print what would change without touching the config")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the git config file (default: the per-user config)")

	cmd.AddCommand(newValidateCmd(&configPath))
	cmd.AddCommand(newValidateLocalCmd())

	return cmd
}

func run(cmd *cobra.Command, testMode, dryRun bool, configPath string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	signals := collectSignals()
	env := hostenv.Classify(signals)
	fmt.Fprintf(out, "Detected platform: %s (citrix=%t, %s)\n", env, hostenv.IsCitrix(signals), signals)

	if env == hostenv.EnvUnknown {
		if testMode {
			return fmt.Errorf("unable to classify this machine, aborting")
		}
		env = hostenv.EnvStandAlone
		fmt.Fprintln(out, "This machine does not match any known environment.")
		if !dryRun {
			ok, err := termio.AskForBool(ctx, "Apply the stand-alone defaults anyway?", false)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "No changes were made.")

				return nil
			}
		}
	}

	if configPath == "" {
		configPath = gitconfig.DefaultPath()
	}

	store, err := gitconfig.LoadStore(configPath)
	if err != nil {
		return err
	}

	frags := recommend.Resolve(env)
	frags, err = supplyIdentity(ctx, out, store, frags, testMode, dryRun)
	if err != nil {
		return err
	}

	plan := reconcile.NewPlan(store, frags)
	if dryRun {
		fmt.Fprintf(out, "Would apply to %s:\n%s", configPath, plan)

		return nil
	}

	backupPath, err := reconcile.Apply(store, plan)
	if backupPath != "" {
		fmt.Fprintf(out, "Backed up existing config to %s\n", backupPath)
	}
	if err != nil {
		return err
	}

	// re-read from disk, the whole point is checking what actually landed
	store, err = gitconfig.LoadStore(configPath)
	if err != nil {
		return err
	}

	if ds := reconcile.Verify(store, frags); len(ds) > 0 {
		for _, d := range ds {
			fmt.Fprintf(out, "Discrepancy: %s\n", d)
		}
		if testMode {
			return fmt.Errorf("%d discrepancies after apply", len(ds))
		}

		return nil
	}

	fmt.Fprintf(out, "The recommended git configuration was applied to %s\n", configPath)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Make sure your repos contain a .gitattributes file in the root directory with the following lines:")
	fmt.Fprintln(out, recommend.Gitattributes())

	return nil
}

// supplyIdentity fills the identity entries of the fragments. An identity
// already in the store always wins (the entries are if-absent); prompting
// only happens when the store has none. Test mode substitutes the
// placeholder identity, dry-run leaves the entries empty rather than
// prompting.
func supplyIdentity(ctx context.Context, out io.Writer, store *gitconfig.Store, frags []recommend.Fragment, testMode, dryRun bool) ([]recommend.Fragment, error) {
	if testMode {
		return recommend.WithIdentity(frags, testName, testEmail), nil
	}

	name, _ := store.Get("user.name")
	email, _ := store.Get("user.email")
	if name != "" && email != "" {
		fmt.Fprintf(out, "Using the existing identity: %s <%s>\n", name, email)

		return frags, nil
	}

	if dryRun {
		return frags, nil
	}

	fmt.Fprintln(out, "Git needs to know your name (first name and surname) and email address.")
	var err error
	if name == "" {
		name, err = askNonEmpty(ctx, "Enter name")
		if err != nil {
			return nil, err
		}
	}
	if email == "" {
		email, err = askNonEmpty(ctx, "Enter email")
		if err != nil {
			return nil, err
		}
	}
	fmt.Fprintf(out, "The config will use the following name and email address: %s <%s>\n", name, email)

	return recommend.WithIdentity(frags, name, email), nil
}

func askNonEmpty(ctx context.Context, prompt string) (string, error) {
	for {
		v, err := termio.AskForString(ctx, prompt, "")
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
	}
}
