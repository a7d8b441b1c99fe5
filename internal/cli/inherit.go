package cli

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/scallionlabs/manor/internal/chain"
	"github.com/scallionlabs/manor/internal/store"
	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

var inheritCmd = &cobra.Command{
	Use:   "inherit <owner-address>",
	Short: "Claim an inheritance from an inactive manor owner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner := args[0]
		if !common.IsHexAddress(owner) {
			return manorerr.WithDetails(manorerr.ErrInvalidAddress, map[string]string{
				"address": owner,
			})
		}

		return runOperation(cmd, chain.FnInheritWBTC, "Inheritance claimed",
			func(ctx context.Context, s *store.Store) (*chain.TransactionResult, error) {
				return s.Backend().InheritWBTC(ctx, owner)
			})
	},
}

//nolint:gochecknoinits // Cobra command registration
func init() {
	rootCmd.AddCommand(inheritCmd)
}
