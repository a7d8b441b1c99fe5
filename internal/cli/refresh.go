package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/scallionlabs/manor/internal/chain"
	"github.com/scallionlabs/manor/internal/store"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Record activity to keep the manor active",
	Long: `Bumps the on-chain last-active timestamp. An owner who stays
inactive past the inheritance window lets inheritors claim the vault.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runOperation(cmd, chain.FnRefreshActivity, "Activity refreshed",
			func(ctx context.Context, s *store.Store) (*chain.TransactionResult, error) {
				return s.Backend().RefreshActivity(ctx)
			})
	},
}

//nolint:gochecknoinits // Cobra command registration
func init() {
	rootCmd.AddCommand(refreshCmd)
}
