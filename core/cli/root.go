package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level capgrade command.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capgrade",
		Short: "Capability-gated dependency upgrade tool",
		Long:  "Capgrade raises dependency constraints to the first versions that support a required language feature, verifying that the whole dependency graph still resolves before changing anything.",
	}

	cmd.Version = version

	return cmd
}
