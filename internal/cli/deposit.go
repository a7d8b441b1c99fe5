package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/scallionlabs/manor/internal/chain"
	"github.com/scallionlabs/manor/internal/store"
	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

var depositLock time.Duration

var depositCmd = &cobra.Command{
	Use:   "deposit <amount>",
	Short: "Deposit WBTC into the manor",
	Long: `Deposits WBTC into the manor vault, locked for the given period.
The amount is a decimal WBTC value, e.g. "0.5".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount := args[0]

		// Validate locally before prompting the wallet.
		if _, err := chain.ParseDecimalAmount(amount, chain.WBTCDecimals); err != nil {
			return err
		}
		if depositLock <= 0 {
			return manorerr.WithSuggestion(manorerr.ErrInvalidInput,
				"lock period must be positive, e.g. --lock 720h")
		}

		return runOperation(cmd, chain.FnDepositWBTC, "Deposited "+amount+" WBTC",
			func(ctx context.Context, s *store.Store) (*chain.TransactionResult, error) {
				return s.Backend().DepositWBTC(ctx, amount, int64(depositLock.Seconds()))
			})
	},
}

//nolint:gochecknoinits // Cobra command registration
func init() {
	depositCmd.Flags().DurationVar(&depositLock, "lock", 720*time.Hour, "lock period, e.g. 720h for 30 days")
	rootCmd.AddCommand(depositCmd)
}
