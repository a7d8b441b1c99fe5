package cli

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/scallionlabs/manor/internal/chain"
	"github.com/scallionlabs/manor/internal/store"
	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

var (
	inheritorsForce bool
	inheritorsOwner string
)

var inheritorsCmd = &cobra.Command{
	Use:   "inheritors",
	Short: "Manage the manor's inheritor list",
}

var inheritorsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current inheritor list",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		info, ok := s.ManorInfo()
		if !ok {
			if err := s.Refresh(cmd.Context()); err != nil {
				return err
			}
			info, _ = s.ManorInfo()
		}

		if formatter.IsJSON() {
			return formatter.Print(map[string]any{"inheritors": info.Inheritors})
		}

		if len(info.Inheritors) == 0 {
			return formatter.Println("No inheritors set")
		}
		for _, addr := range info.Inheritors {
			_ = formatter.Println(addr)
		}
		return nil
	},
}

var inheritorsSetCmd = &cobra.Command{
	Use:   "set <address>...",
	Short: "Replace the inheritor list",
	Long: `Replaces the inheritor list with the given addresses.

With --owner, maintains another owner's list on their behalf instead of
the caller's. With --force, replaces the list before the normal change
window, which charges the on-chain force-change fee in WLD.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, addr := range args {
			if !common.IsHexAddress(addr) {
				return manorerr.WithDetails(manorerr.ErrInvalidAddress, map[string]string{
					"address": addr,
				})
			}
		}
		if inheritorsOwner != "" && !common.IsHexAddress(inheritorsOwner) {
			return manorerr.WithDetails(manorerr.ErrInvalidAddress, map[string]string{
				"address": inheritorsOwner,
			})
		}

		fn := chain.FnSetInheritors
		if inheritorsOwner != "" {
			fn = chain.FnMaintainInheritors
		}

		if inheritorsForce {
			s, err := requireSession(cmd.Context())
			if err != nil {
				return err
			}
			if fee, err := s.Backend().GetForceChangeFee(cmd.Context()); err == nil && !formatter.IsJSON() {
				_ = formatter.Printf("Force change fee: %s WLD\n", fee)
			}
		}

		return runOperation(cmd, fn, "Inheritor list updated",
			func(ctx context.Context, s *store.Store) (*chain.TransactionResult, error) {
				return s.Backend().SetInheritors(ctx, args, chain.SetInheritorsOptions{
					ForceChange: inheritorsForce,
					ManorOwner:  inheritorsOwner,
				})
			})
	},
}

//nolint:gochecknoinits // Cobra command registration
func init() {
	inheritorsSetCmd.Flags().BoolVar(&inheritorsForce, "force", false, "replace early, paying the force-change fee")
	inheritorsSetCmd.Flags().StringVar(&inheritorsOwner, "owner", "", "maintain this owner's list instead of your own")

	inheritorsCmd.AddCommand(inheritorsShowCmd)
	inheritorsCmd.AddCommand(inheritorsSetCmd)
	rootCmd.AddCommand(inheritorsCmd)
}
