// Package config provides configuration management for Manor.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/scallionlabs/manor/internal/fileutil"
)

// Config represents the application configuration.
type Config struct {
	Version      int                `yaml:"version"`
	Home         string             `yaml:"home"`
	Network      NetworkConfig      `yaml:"network"`
	Bridge       BridgeConfig       `yaml:"bridge"`
	Wallet       WalletConfig       `yaml:"wallet"`
	Confirmation ConfirmationConfig `yaml:"confirmation"`
	Mock         MockConfig         `yaml:"mock"`
	Output       OutputConfig       `yaml:"output"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// NetworkConfig defines the chain endpoint and contract addresses.
type NetworkConfig struct {
	RPC      string        `yaml:"rpc"`
	ChainID  int           `yaml:"chain_id"`
	Contract string        `yaml:"contract"`
	Permit2  string        `yaml:"permit2"`
	Tokens   []TokenConfig `yaml:"tokens"`
}

// TokenConfig defines an ERC-20 token to track.
type TokenConfig struct {
	Symbol   string `yaml:"symbol"`
	Address  string `yaml:"address"`
	Decimals int    `yaml:"decimals"`
}

// BridgeConfig defines the host wallet bridge settings.
type BridgeConfig struct {
	URL       string `yaml:"url"`
	AppID     string `yaml:"app_id"`
	StatusURL string `yaml:"status_url"`
}

// WalletConfig defines the extension wallet settings.
type WalletConfig struct {
	Keyfile string `yaml:"keyfile"`
}

// ConfirmationConfig defines transaction confirmation polling settings.
type ConfirmationConfig struct {
	MaxRetries int `yaml:"max_retries"`
	IntervalMS int `yaml:"interval_ms"`
}

// MockConfig defines mock backend settings.
type MockConfig struct {
	Enabled   bool `yaml:"enabled"`
	LatencyMS int  `yaml:"latency_ms"`
	Decline   bool `yaml:"decline"`
	Fail      bool `yaml:"fail"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file, layered over defaults.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return fileutil.WriteAtomic(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// ExpandHome expands a leading ~/ to the user home directory.
func ExpandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// KeyfilePath returns the expanded keyfile path.
func (c *Config) KeyfilePath() string {
	return ExpandHome(c.Wallet.Keyfile)
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// DefaultHome returns the default manor home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".manor"
	}
	return filepath.Join(home, ".manor")
}
