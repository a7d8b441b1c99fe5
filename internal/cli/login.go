package cli

import (
	"github.com/spf13/cobra"

	"github.com/scallionlabs/manor/internal/output"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the active wallet backend",
	Long: `Authenticates against whichever wallet environment was detected at
startup and fetches the initial manor state.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		if formatter.IsJSON() {
			return formatter.Print(map[string]string{
				"backend": string(selector.Selection()),
				"address": s.Address(),
			})
		}

		output.Successf("Logged in as %s via %s", s.Address(), selector.Selection())
		if s.LastError() != nil {
			output.Warnf("initial state fetch failed: %v", s.LastError())
		}
		return nil
	},
}

//nolint:gochecknoinits // Cobra command registration
func init() {
	rootCmd.AddCommand(loginCmd)
}
