package cli

import (
	"time"

	"github.com/spf13/cobra"

	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

var pendingWait bool

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Show the pending transaction, if any",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if session == nil {
			return manorerr.ErrNoBackend
		}

		pending, ok := session.Tracker().Pending()
		if !ok {
			if formatter.IsJSON() {
				return formatter.Print(map[string]any{"pending": nil})
			}
			return formatter.Println("No pending transaction")
		}

		if formatter.IsJSON() {
			_ = formatter.Print(pending)
		} else {
			_ = formatter.Printf("Transaction: %s\nFunction:    %s\nSubmitted:   %s\n",
				pending.TransactionID, pending.FunctionName,
				pending.Timestamp.Format(time.RFC3339))
		}

		if !pendingWait {
			return nil
		}

		if err := session.Tracker().CheckAndWaitForPending(cmd.Context(), session.Backend(), confirmOptions()); err != nil {
			return err
		}
		return formatter.Println("Confirmed")
	},
}

//nolint:gochecknoinits // Cobra command registration
func init() {
	pendingCmd.Flags().BoolVar(&pendingWait, "wait", false, "wait for the pending transaction to confirm")
	rootCmd.AddCommand(pendingCmd)
}
