package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/scallionlabs/manor/internal/chain"
	"github.com/scallionlabs/manor/internal/store"
)

var purchaseCmd = &cobra.Command{
	Use:   "purchase",
	Short: "Purchase manor access",
	Long: `Purchases manor access at the current on-chain price, paid in WLD.
Run "manor status" first to see the price.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runOperation(cmd, chain.FnPurchaseManorAccess, "Manor access purchased",
			func(ctx context.Context, s *store.Store) (*chain.TransactionResult, error) {
				return s.Backend().PurchaseManorAccess(ctx)
			})
	},
}

//nolint:gochecknoinits // Cobra command registration
func init() {
	rootCmd.AddCommand(purchaseCmd)
}
