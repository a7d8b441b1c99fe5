package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvHome         = "MANOR_HOME"
	EnvRPC          = "MANOR_RPC"
	EnvBridgeURL    = "MANOR_BRIDGE_URL"
	EnvAppID        = "MANOR_APP_ID"
	EnvStatusURL    = "MANOR_STATUS_URL"
	EnvKeyfile      = "MANOR_KEYFILE"
	EnvMock         = "MANOR_MOCK"
	EnvOutputFormat = "MANOR_OUTPUT_FORMAT"
	EnvVerbose      = "MANOR_VERBOSE"
	EnvLogLevel     = "MANOR_LOG_LEVEL"
	EnvNoColor      = "NO_COLOR"
)

// ApplyEnvironment applies environment variable overrides to the
// configuration. The mock signal in particular is read here, once, before
// backend selection.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvRPC); v != "" {
		cfg.Network.RPC = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvBridgeURL); v != "" {
		cfg.Bridge.URL = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvAppID); v != "" {
		cfg.Bridge.AppID = v
	}

	if v := os.Getenv(EnvStatusURL); v != "" {
		cfg.Bridge.StatusURL = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvKeyfile); v != "" {
		cfg.Wallet.Keyfile = v
	}

	if v := os.Getenv(EnvMock); v != "" {
		cfg.Mock.Enabled = parseBool(v)
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	// NO_COLOR disables colored output
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}
