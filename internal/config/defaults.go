package config

import (
	"github.com/scallionlabs/manor/internal/chain"
)

// DefaultRPCURL is the default Worldchain RPC endpoint. Public endpoint,
// no API key required.
const DefaultRPCURL = "https://worldchain-mainnet.g.alchemy.com/public"

// DefaultBridgeURL is where the host wallet bridge listens when the app
// runs inside World App.
const DefaultBridgeURL = "http://127.0.0.1:7471"

// DefaultStatusURL is the developer portal used for transaction status.
const DefaultStatusURL = "https://developer.worldcoin.org/api/v2"

// Defaults returns the default configuration.
func Defaults() *Config {
	tokens := make([]TokenConfig, 0, len(chain.SupportedTokens()))
	for _, t := range chain.SupportedTokens() {
		tokens = append(tokens, TokenConfig{
			Symbol:   t.Symbol,
			Address:  t.Address,
			Decimals: t.Decimals,
		})
	}

	return &Config{
		Version: 1,
		Home:    "~/.manor",
		Network: NetworkConfig{
			RPC:      DefaultRPCURL,
			ChainID:  chain.ChainID,
			Contract: chain.ContractAddress,
			Permit2:  chain.Permit2Address,
			Tokens:   tokens,
		},
		Bridge: BridgeConfig{
			URL:       DefaultBridgeURL,
			AppID:     "app_manor",
			StatusURL: DefaultStatusURL,
		},
		Wallet: WalletConfig{
			Keyfile: "~/.manor/keyfile.age",
		},
		Confirmation: ConfirmationConfig{
			MaxRetries: chain.DefaultConfirmMaxRetries,
			IntervalMS: 1000,
		},
		Mock: MockConfig{
			Enabled:   false,
			LatencyMS: 0,
			Decline:   false,
			Fail:      false,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.manor/manor.log",
		},
	}
}
