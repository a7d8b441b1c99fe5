package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scallionlabs/manor/internal/chain"
	"github.com/scallionlabs/manor/internal/store"
	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// maxManorNameLen matches the contract-side length cap.
const maxManorNameLen = 64

var renameCmd = &cobra.Command{
	Use:   "rename <name>",
	Short: "Set the manor's display name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" || len(name) > maxManorNameLen {
			return manorerr.WithSuggestion(manorerr.ErrInvalidInput,
				"name must be 1-64 characters")
		}

		return runOperation(cmd, chain.FnSetManorName, "Manor renamed to "+name,
			func(ctx context.Context, s *store.Store) (*chain.TransactionResult, error) {
				return s.Backend().RenameManor(ctx, name)
			})
	},
}

//nolint:gochecknoinits // Cobra command registration
func init() {
	rootCmd.AddCommand(renameCmd)
}
