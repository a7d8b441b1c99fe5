package cli

import (
	"github.com/spf13/cobra"

	"github.com/scallionlabs/manor/internal/version"
)

var versionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if formatter.IsJSON() {
			out := map[string]string{
				"version": version.Version,
				"commit":  version.Commit,
				"date":    version.Date,
			}
			if versionCheck {
				if release, err := version.NewChecker(nil).Latest(cmd.Context(), "scallionlabs", "manor"); err == nil {
					out["latest"] = release.TagName
				}
			}
			return formatter.Print(out)
		}

		_ = formatter.Printf("manor %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date)

		if versionCheck {
			release, err := version.NewChecker(nil).Latest(cmd.Context(), "scallionlabs", "manor")
			if err != nil {
				logger.Error("release check failed: %v", err)
				return formatter.Println("Could not reach the release server")
			}
			if version.IsNewer(version.Version, release.TagName) {
				return formatter.Printf("Update available: %s\n", release.TagName)
			}
			return formatter.Println("Up to date")
		}
		return nil
	},
}

//nolint:gochecknoinits // Cobra command registration
func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "check for a newer release")
	rootCmd.AddCommand(versionCmd)
}
