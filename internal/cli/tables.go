package cli

import (
	"github.com/scallionlabs/manor/internal/chain"
	"github.com/scallionlabs/manor/internal/output"
)

// newBalancesTable renders wallet balances with token symbols where the
// address is known.
func newBalancesTable(tokens []chain.UserToken) *output.Table {
	table := output.NewTable("TOKEN", "AMOUNT")
	for _, t := range tokens {
		label := t.Token
		if known, err := chain.TokenByAddress(t.Token); err == nil {
			label = known.Symbol
		}
		table.AddRow(label, t.Amount)
	}
	return table
}
