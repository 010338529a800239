package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// UpgradeOptions holds the parsed flags and arguments for "upgrade".
type UpgradeOptions struct {
	// Packages are the positional arguments: the direct dependencies to
	// upgrade. Empty upgrades everything declared directly.
	Packages []string
	Feature  string
	Manifest string
	DryRun   bool
	Offline  bool
}

// UpgradeRunFunc is the function signature for the upgrade command handler.
// It is injected by the wiring layer (cmd/capgrade/main.go).
type UpgradeRunFunc func(ctx context.Context, opts UpgradeOptions) error

// NewUpgradeCmd creates the "upgrade" command.
func NewUpgradeCmd(runFunc UpgradeRunFunc) *cobra.Command {
	var opts UpgradeOptions

	cmd := &cobra.Command{
		Use:   "upgrade [packages...]",
		Short: "Upgrade dependencies to feature-capable versions",
		Long: `Upgrade dependency constraints so their lower bound is the first published
version that supports the required language feature. With no package
arguments, every direct and dev dependency is targeted.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateUpgradeFlags(opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Packages = args
			return runFunc(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Feature, "feature", "", "Language feature upgraded dependencies must support (required)")
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "project.yaml", "Path to the project manifest")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report what would change without writing anything")
	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "Use only cached registry metadata")

	cmd.MarkFlagRequired("feature")

	return cmd
}

func validateUpgradeFlags(opts UpgradeOptions) error {
	if opts.Feature == "" {
		return fmt.Errorf("--feature is required")
	}
	if opts.Manifest == "" {
		return fmt.Errorf("--manifest must not be empty")
	}
	return nil
}
