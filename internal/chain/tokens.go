package chain

import (
	"strings"

	"github.com/agnivade/levenshtein"

	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// Token describes one supported ERC-20 token.
type Token struct {
	Symbol   string `json:"symbol" yaml:"symbol"`
	Address  string `json:"address" yaml:"address"`
	Decimals int    `json:"decimals" yaml:"decimals"`
}

// SupportedTokens returns the tokens the app knows how to display and spend.
// WLD and WBTC are required by the backend contract; the rest are
// display-only balances.
func SupportedTokens() []Token {
	return []Token{
		{Symbol: "WLD", Address: WLDTokenAddress, Decimals: WLDDecimals},
		{Symbol: "WBTC", Address: WBTCTokenAddress, Decimals: WBTCDecimals},
		{Symbol: "WETH", Address: "0x4200000000000000000000000000000000000006", Decimals: 18},
		{Symbol: "uSOL", Address: "0x9B8Df6E244526ab5F6e6400d331DB28C8fdDdb55", Decimals: 18},
		{Symbol: "uXRP", Address: "0x2615a94df961278DcbC41Fb0a54fEc5f10a693aE", Decimals: 18},
		{Symbol: "uDOGE", Address: "0x12E96C2BFEA6E835CF8Dd38a5834fa61Cf723736", Decimals: 18},
	}
}

// TokenBySymbol looks up a supported token by its symbol, case-insensitively.
// An unknown symbol returns ErrTokenNotFound with a close-match suggestion
// when one exists.
func TokenBySymbol(symbol string) (Token, error) {
	want := strings.ToUpper(strings.TrimSpace(symbol))

	best := ""
	bestDist := 3 // suggestions beyond distance 2 are noise
	for _, t := range SupportedTokens() {
		if strings.ToUpper(t.Symbol) == want {
			return t, nil
		}
		if dist := levenshtein.ComputeDistance(want, strings.ToUpper(t.Symbol)); dist < bestDist {
			best = t.Symbol
			bestDist = dist
		}
	}

	err := manorerr.WithDetails(manorerr.ErrTokenNotFound, map[string]string{
		"symbol": symbol,
	})
	if best != "" {
		err = manorerr.WithSuggestion(err, "did you mean "+best+"?")
	}
	return Token{}, err
}

// TokenByAddress looks up a supported token by contract address.
func TokenByAddress(address string) (Token, error) {
	for _, t := range SupportedTokens() {
		if strings.EqualFold(t.Address, address) {
			return t, nil
		}
	}
	return Token{}, manorerr.WithDetails(manorerr.ErrTokenNotFound, map[string]string{
		"address": address,
	})
}
