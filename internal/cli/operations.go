package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/scallionlabs/manor/internal/chain"
	"github.com/scallionlabs/manor/internal/output"
	"github.com/scallionlabs/manor/internal/store"
	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// runOperation executes one mutating manor operation end to end and
// reports the outcome. A user decline exits cleanly; it is a choice, not a
// failure.
func runOperation(cmd *cobra.Command, functionName, successMsg string, submit func(ctx context.Context, s *store.Store) (*chain.TransactionResult, error)) error {
	ctx := cmd.Context()

	s, err := requireSession(ctx)
	if err != nil {
		return err
	}

	err = s.Execute(ctx, functionName, func(ctx context.Context) (*chain.TransactionResult, error) {
		return submit(ctx, s)
	}, confirmOptions())

	if err != nil {
		if manorerr.IsUserRejected(err) {
			if formatter.IsJSON() {
				return formatter.Print(map[string]string{
					"status":    "canceled",
					"operation": functionName,
				})
			}
			_ = formatter.Println("Transaction canceled.")
			return nil
		}
		return err
	}

	if formatter.IsJSON() {
		return formatter.Print(map[string]string{
			"status":    "success",
			"operation": functionName,
		})
	}
	output.Success(successMsg)
	return nil
}
