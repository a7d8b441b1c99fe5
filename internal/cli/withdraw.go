package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/scallionlabs/manor/internal/chain"
	"github.com/scallionlabs/manor/internal/store"
)

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Withdraw the unlocked WBTC balance",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runOperation(cmd, chain.FnWithdrawWBTC, "Withdrawal submitted",
			func(ctx context.Context, s *store.Store) (*chain.TransactionResult, error) {
				return s.Backend().WithdrawWBTC(ctx)
			})
	},
}

//nolint:gochecknoinits // Cobra command registration
func init() {
	rootCmd.AddCommand(withdrawCmd)
}
