package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// CleanRunFunc is the function signature for the clean command handler.
type CleanRunFunc func(ctx context.Context) error

// NewCleanCmd creates the "clean" command.
func NewCleanCmd(runFunc CleanRunFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove cached registry metadata",
		Long: `Clean deletes the on-disk registry metadata cache, forcing the next run to
fetch fresh version lists and package descriptors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunc(cmd.Context())
		},
	}
}
