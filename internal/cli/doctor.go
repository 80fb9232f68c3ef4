package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changegen/internal/cli/shared"
	"github.com/ariel-frischer/changegen/internal/health"
	"github.com/ariel-frischer/changegen/internal/logger"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the repository, default revision and commit-msg hook",
	Long: `Check that changegen can do its job here:

  - the repository opens
  - default_revision resolves to a commit
  - that commit carries a valid metadata trailer
  - the commit-msg hook runs 'changegen lint' (optional)

Exits 1 if a required check fails.`,
	Args:         shared.UsageArgs(cobra.NoArgs),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		report := health.RunHealthChecks(health.Options{
			RepoPath: appConfig.RepoPath,
			Revision: appConfig.DefaultRevision,
		})
		logger.Debug(cmd.Context(), "health checks complete", "checks", len(report.Checks), "passed", report.Passed)

		fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))
		if !report.Passed {
			return NewExitError(ExitValidationFailed)
		}
		return nil
	},
}

func init() {
	doctorCmd.GroupID = shared.GroupInfo
	rootCmd.AddCommand(doctorCmd)
}
