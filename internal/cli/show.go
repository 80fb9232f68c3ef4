package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changegen/internal/cli/shared"
	clierrors "github.com/ariel-frischer/changegen/internal/errors"
	"github.com/ariel-frischer/changegen/internal/logger"
	"github.com/ariel-frischer/changegen/internal/metadata"
	"github.com/ariel-frischer/changegen/internal/output"
)

var showFormatFlag string

var showCmd = &cobra.Command{
	Use:   "show [revision]",
	Short: "Show the metadata trailer of a commit",
	Long: `Show the metadata trailer of a commit.

The revision defaults to default_revision from the configuration (HEAD).
Any revision go-git understands works: branches, tags, hashes, HEAD~2.

Formats:
  text   Kind, short hash, summary and the optional fields (default)
  yaml   The trailer as it would be written into a commit message
  json   One JSON object including the commit hash and summary`,
	Example: `  changegen show
  changegen show v1.4.0
  changegen show HEAD~2 --format json`,
	Args:         shared.UsageArgs(cobra.MaximumNArgs(1)),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(cmd, args)
	},
}

func init() {
	showCmd.GroupID = shared.GroupMetadata
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVarP(&showFormatFlag, "format", "f", "", "Output format: text, yaml or json (default from config)")
}

func runShow(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(showFormatFlag)
	if err != nil {
		reportError(cmd, clierrors.InvalidOutputFormat(showFormatFlag))
		return NewExitError(ExitInvalidArguments)
	}

	rev := appConfig.DefaultRevision
	if len(args) == 1 {
		rev = args[0]
	}

	repo, err := openRepository(cmd)
	if err != nil {
		return err
	}
	commits, err := resolveCommits(cmd, repo, []string{rev})
	if err != nil {
		return err
	}
	commit := commits[0]

	ctx := logger.With(cmd.Context(), "commit", commit.ShortID())
	m, err := metadata.FromCommit(commit)
	if err != nil {
		logger.Debug(ctx, "reading metadata failed", "error", err)
		reportError(cmd, trailerError(commit.ID(), err))
		return NewExitError(ExitValidationFailed)
	}
	logger.Info(ctx, "metadata decoded", "type", m.Kind.String())

	entry := output.Entry{CommitID: commit.ID(), Summary: commit.Summary(), Metadata: m}
	if err := output.Render(cmd.OutOrStdout(), entry, format, plainOutput(cmd)); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// resolveFormat returns the flag value if set, else the configured format.
func resolveFormat(flagValue string) (output.Format, error) {
	if flagValue == "" {
		flagValue = appConfig.OutputFormat
	}
	return output.ParseFormat(flagValue)
}
