package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/scallionlabs/manor/internal/chain"
	"github.com/scallionlabs/manor/internal/store"
)

var tipMessage string

var tipCmd = &cobra.Command{
	Use:   "tip <amount>",
	Short: "Send a WLD tip to the developer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount := args[0]
		if _, err := chain.ParseDecimalAmount(amount, chain.WLDDecimals); err != nil {
			return err
		}

		return runOperation(cmd, chain.FnTipDeveloper, "Tip sent, thank you!",
			func(ctx context.Context, s *store.Store) (*chain.TransactionResult, error) {
				return s.Backend().TipDeveloper(ctx, amount, tipMessage)
			})
	},
}

//nolint:gochecknoinits // Cobra command registration
func init() {
	tipCmd.Flags().StringVarP(&tipMessage, "message", "m", "", "message to attach to the tip")
	rootCmd.AddCommand(tipCmd)
}
