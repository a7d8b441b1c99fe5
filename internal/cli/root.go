// Package cli implements the Manor command-line interface.
//
// This package uses global variables to manage CLI state, which is the
// standard pattern for Cobra-based CLI applications. The globals are
// initialized in PersistentPreRunE and cleaned up in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/scallionlabs/manor/internal/chain"
	"github.com/scallionlabs/manor/internal/chain/mock"
	"github.com/scallionlabs/manor/internal/chain/rpc"
	"github.com/scallionlabs/manor/internal/chain/walletext"
	"github.com/scallionlabs/manor/internal/chain/worldapp"
	"github.com/scallionlabs/manor/internal/config"
	"github.com/scallionlabs/manor/internal/output"
	"github.com/scallionlabs/manor/internal/store"
	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool
	useMock      bool

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter
	selector  *chain.Selector
	session   *store.Store
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "manor",
	Short: "A digital manor custody client for Worldchain",
	Long: `Manor manages a WBTC custody vault ("digital manor") on Worldchain.

It talks to the manor contract through whichever wallet environment is
present: the World App host wallet, a local encrypted keyfile, or a mock
backend for development.

Example:
  manor login
  manor status
  manor deposit 0.5 --lock 720h
  manor inheritors set 0xabc... 0xdef...`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initGlobals()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		if formatter != nil {
			_ = output.FormatError(os.Stderr, err, formatter.Format())
		} else {
			_ = output.FormatError(os.Stderr, err, output.FormatText)
		}
		return err
	}
	return nil
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return manorerr.ExitCode(err)
}

// initGlobals initializes configuration, logging, output, and the backend
// selection. Selection happens exactly once per process; commands receive
// the selector by accessor, never by re-probing.
func initGlobals() error {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}

	configPath := config.Path(home)
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		// Use defaults if config doesn't exist
		cfg = config.Defaults()
		cfg.Home = home
	}

	config.ApplyEnvironment(cfg)

	// Override with command-line flags
	if homeDir != "" {
		cfg.Home = homeDir
	}
	if verbose {
		cfg.Output.Verbose = true
		cfg.Logging.Level = "debug"
	}
	if outputFormat != "" && outputFormat != "auto" {
		cfg.Output.DefaultFormat = outputFormat
	}
	if useMock {
		cfg.Mock.Enabled = true
	}

	logLevel := config.ParseLogLevel(cfg.Logging.Level)
	logger, err = config.NewLogger(logLevel, cfg.Logging.File)
	if err != nil {
		// Use null logger if we can't create the file
		logger = config.NullLogger()
	}

	explicitFormat := output.ParseFormat(cfg.Output.DefaultFormat)
	detectedFormat := output.DetectFormat(os.Stdout, explicitFormat)
	formatter = output.NewFormatter(detectedFormat, os.Stdout)

	selector = selectBackend(cfg)
	logger.Debug("backend selection: %s", selector.Selection())

	if backend, ok := selector.Backend(); ok {
		session = store.New(backend)
	}

	return nil
}

// selectBackend wires the backend candidates and runs the selection rule.
// The chain package cannot import the backend packages, so the candidate
// registration lives here.
func selectBackend(cfg *config.Config) *chain.Selector {
	rpcClient := rpc.NewClient(cfg.Network.RPC)
	network := configuredNetwork(cfg)

	bridge := worldapp.NewHTTPBridge(cfg.Bridge.URL, cfg.Bridge.AppID, nil)
	status := worldapp.NewStatusClient(&worldapp.StatusClientOptions{
		BaseURL: cfg.Bridge.StatusURL,
	})
	inApp := worldapp.NewClient(bridge, rpcClient, &worldapp.Options{Status: status, Network: network})

	extension := walletext.NewClient(rpcClient, network, cfg.KeyfilePath(), promptKeyfilePassphrase)

	mockBackend := mock.New(mock.Options{
		Latency:             time.Duration(cfg.Mock.LatencyMS) * time.Millisecond,
		DeclineTransactions: cfg.Mock.Decline,
		FailTransactions:    cfg.Mock.Fail,
	})

	return chain.NewSelector(chain.SelectorOptions{
		MockSignal: cfg.Mock.Enabled,
		Mock:       mockBackend,
		InstallBridge: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return bridge.Install(ctx)
		},
		Candidates: []chain.Candidate{
			{Selection: chain.SelectionWorldApp, Backend: inApp},
			{Selection: chain.SelectionWalletExt, Backend: extension},
		},
	})
}

// configuredNetwork maps the config's network section onto the deployment
// parameters the backends target. Unset fields fall back to mainnet.
func configuredNetwork(cfg *config.Config) chain.Network {
	network := chain.Network{
		ChainID:  int64(cfg.Network.ChainID),
		Contract: cfg.Network.Contract,
		Permit2:  cfg.Network.Permit2,
	}
	for _, t := range cfg.Network.Tokens {
		network.Tokens = append(network.Tokens, chain.Token{
			Symbol:   t.Symbol,
			Address:  t.Address,
			Decimals: t.Decimals,
		})
	}
	return network.OrDefault()
}

// confirmOptions builds confirmation polling options from configuration.
func confirmOptions() *chain.ConfirmOptions {
	return &chain.ConfirmOptions{
		MaxRetries: cfg.Confirmation.MaxRetries,
		Interval:   time.Duration(cfg.Confirmation.IntervalMS) * time.Millisecond,
	}
}

// requireSession returns the store after a completed login. Every command
// that touches the chain goes through here.
func requireSession(ctx context.Context) (*store.Store, error) {
	if session == nil {
		return nil, manorerr.ErrNoBackend
	}
	if session.LoggedIn() {
		return session, nil
	}
	if _, err := session.Login(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

// cleanup releases resources.
func cleanup() {
	if logger != nil {
		_ = logger.Close()
	}
}

// Config returns the global configuration.
func Config() *config.Config {
	return cfg
}

// Logger returns the global logger.
func Logger() *config.Logger {
	return logger
}

// Formatter returns the global output formatter.
func Formatter() *output.Formatter {
	return formatter
}

// Selector returns the process-wide backend selection.
func Selector() *chain.Selector {
	return selector
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "manor data directory (default: ~/.manor)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false, "use the mock backend")
}
