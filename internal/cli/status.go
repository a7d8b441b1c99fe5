package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/scallionlabs/manor/internal/chain"
)

// statusOutput is the JSON shape of the status command.
type statusOutput struct {
	Backend     string             `json:"backend"`
	Address     string             `json:"address"`
	Manor       *chain.ManorInfo   `json:"manor,omitempty"`
	Tokens      []chain.UserToken  `json:"tokens,omitempty"`
	AccessPrice string             `json:"access_price"`
	Pending     *pendingJSONOutput `json:"pending,omitempty"`
	StaleCache  bool               `json:"stale_cache,omitempty"`
}

type pendingJSONOutput struct {
	TransactionID string `json:"transaction_id"`
	FunctionName  string `json:"function_name"`
	AgeSeconds    int64  `json:"age_seconds"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the manor state for the logged-in account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		s, err := requireSession(ctx)
		if err != nil {
			return err
		}

		// Login already fetched; refresh picks up anything newer. A failed
		// refresh falls back to the cached snapshot.
		_ = s.Refresh(ctx)

		price, err := s.Backend().GetManorAccessPrice(ctx)
		if err != nil {
			price = ""
		}

		out := statusOutput{
			Backend:     string(selector.Selection()),
			Address:     s.Address(),
			Tokens:      s.Tokens(),
			AccessPrice: price,
			StaleCache:  s.LastError() != nil,
		}
		if info, ok := s.ManorInfo(); ok {
			out.Manor = &info
		}
		if pending, ok := s.Tracker().Pending(); ok {
			out.Pending = &pendingJSONOutput{
				TransactionID: pending.TransactionID,
				FunctionName:  pending.FunctionName,
				AgeSeconds:    int64(time.Since(pending.Timestamp).Seconds()),
			}
		}

		if formatter.IsJSON() {
			return formatter.Print(out)
		}
		return printStatusText(out)
	},
}

func printStatusText(out statusOutput) error {
	_ = formatter.Printf("Backend:  %s\n", out.Backend)
	_ = formatter.Printf("Address:  %s\n", out.Address)

	if out.Manor == nil {
		_ = formatter.Println("No manor data available")
		return nil
	}

	m := out.Manor
	_ = formatter.Println()
	if m.Name != "" {
		_ = formatter.Printf("Manor:    %s\n", m.Name)
	}
	_ = formatter.Printf("Access:   %v\n", m.HasAccess)
	if !m.HasAccess && out.AccessPrice != "" {
		_ = formatter.Printf("Price:    %s WLD\n", out.AccessPrice)
	}
	_ = formatter.Printf("Balance:  %s WBTC\n", m.WbtcBalance)
	if m.UnlockTime > 0 {
		_ = formatter.Printf("Unlocks:  %s\n", time.Unix(m.UnlockTime, 0).Format(time.RFC3339))
	}
	_ = formatter.Printf("Active:   %v\n", m.IsActive)
	if m.Withdrawer != "" {
		_ = formatter.Printf("Withdrawer: %s\n", m.Withdrawer)
	}

	if len(m.Inheritors) > 0 {
		_ = formatter.Println("\nInheritors:")
		for _, addr := range m.Inheritors {
			_ = formatter.Printf("  %s\n", addr)
		}
	}

	if len(out.Tokens) > 0 {
		_ = formatter.Println("\nWallet balances:")
		_ = formatter.Print(newBalancesTable(out.Tokens))
	}

	if out.Pending != nil {
		_ = formatter.Printf("\nPending: %s (%s, %ds ago)\n",
			out.Pending.TransactionID, out.Pending.FunctionName, out.Pending.AgeSeconds)
	}
	if out.StaleCache {
		_ = formatter.Println("\nWarning: last fetch failed, data may be stale")
	}
	return nil
}

//nolint:gochecknoinits // Cobra command registration
func init() {
	rootCmd.AddCommand(statusCmd)
}
