// Package cli implements the changegen command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changegen/internal/cli/shared"
	"github.com/ariel-frischer/changegen/internal/cli/util"
	"github.com/ariel-frischer/changegen/internal/config"
	clierrors "github.com/ariel-frischer/changegen/internal/errors"
	"github.com/ariel-frischer/changegen/internal/git"
	"github.com/ariel-frischer/changegen/internal/logger"
	"github.com/ariel-frischer/changegen/internal/metadata"
	"github.com/ariel-frischer/changegen/internal/output"
)

var (
	cfgFile     string
	repoFlag    string
	plainFlag   bool
	verboseFlag bool
	debugFlag   bool

	// appConfig is the effective configuration of the running command.
	appConfig *config.Configuration
)

var rootCmd = &cobra.Command{
	Use:   "changegen",
	Short: "Read and write changelog metadata in commit message trailers",
	Long: `changegen reads the metadata trailer at the end of a commit message.

The trailer is the last paragraph of the message, a YAML mapping:

  Fix crash when the cache is empty

  type: fix
  pr: https://github.com/org/repo/pull/42
  fixes:
    - https://github.com/org/repo/issues/41

Release tooling uses the type to group entries in release notes.`,
	Example: `  # Show the metadata of the latest commit
  changegen show

  # Validate a range of commits in CI
  changegen check HEAD~3 HEAD~2 HEAD~1 HEAD

  # Validate a message from a commit-msg hook
  changegen lint "$1"

  # Print a trailer to paste into a message
  changegen template --type added --pr https://github.com/org/repo/pull/7`,
	Annotations:       map[string]string{shared.AnnotationSkipConfig: "true"},
	Args:              shared.UsageArgs(rootArgs),
	RunE:              func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadRuntime,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: shared.GroupMetadata, Title: "Metadata Commands:"},
		&cobra.Group{ID: shared.GroupAuthoring, Title: "Authoring Commands:"},
		&cobra.Group{ID: shared.GroupConfiguration, Title: "Configuration Commands:"},
		&cobra.Group{ID: shared.GroupInfo, Title: "Info Commands:"},
	)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Project config file (default .changegen/config.yml)")
	pf.StringVarP(&repoFlag, "repo", "C", "", "Path inside the git repository (default: current directory)")
	pf.BoolVar(&plainFlag, "plain", false, "Plain output without colors or emoji")
	pf.BoolVarP(&verboseFlag, "verbose", "v", false, "Log progress to stderr")
	pf.BoolVar(&debugFlag, "debug", false, "Log debug details to stderr")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &shared.UsageError{Err: err}
	})

	util.Register(rootCmd)
}

// rootArgs rejects unknown subcommands. The root command only prints help.
func rootArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	msg := fmt.Sprintf("unknown command %q for %q", args[0], cmd.CommandPath())
	if suggestions := cmd.SuggestionsFor(args[0]); len(suggestions) > 0 {
		msg += "; did you mean " + strings.Join(suggestions, ", ") + "?"
	}
	return errors.New(msg)
}

// Execute runs the command tree. Errors that commands have not reported
// yet are written to stderr before returning.
func Execute() error {
	return execute(context.Background())
}

func execute(ctx context.Context) error {
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if cmd == nil {
		cmd = rootCmd
	}
	var usageErr *shared.UsageError
	if errors.As(err, &usageErr) {
		reportError(cmd, clierrors.InvalidUsage(usageErr.Err, cmd.UseLine(), cmd.CommandPath()))
		return NewExitError(ExitInvalidArguments)
	}
	clierrors.Report(cmd.ErrOrStderr(), err, plainOutput(cmd))
	return err
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	return shared.ExitCode(err)
}

// loadRuntime loads configuration, applies flag overrides and sets up logging.
func loadRuntime(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[shared.AnnotationSkipConfig] == "true" {
		initLogging(cmd, debugFlag, verboseFlag)
		return nil
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: cfgFile,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		reportError(cmd, clierrors.ConfigLoadError(err))
		return NewExitError(ExitInvalidArguments)
	}
	applyFlagOverrides(cmd, cfg)
	appConfig = cfg

	initLogging(cmd, cfg.Debug, cfg.Verbose)
	logger.Debug(cmd.Context(), "configuration loaded",
		"repo_path", cfg.RepoPath,
		"default_revision", cfg.DefaultRevision,
		"output_format", cfg.OutputFormat,
	)
	return nil
}

// applyFlagOverrides copies explicitly set global flags over config values.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Configuration) {
	flags := cmd.Flags()
	if flags.Changed("repo") {
		cfg.RepoPath = repoFlag
	}
	if flags.Changed("plain") {
		cfg.Plain = plainFlag
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verboseFlag
	}
	if flags.Changed("debug") {
		cfg.Debug = debugFlag
	}
}

func initLogging(cmd *cobra.Command, debug, verbose bool) {
	logger.InitializeWithWriter(cmd.ErrOrStderr(), debug, verbose)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, slog.Default())
	cmd.SetContext(ctx)

	if debug {
		git.SetDebugLogger(logger.Printf(ctx))
	} else {
		git.SetDebugLogger(nil)
	}
}

// plainOutput reports whether cmd's output should skip colors and emoji.
func plainOutput(cmd *cobra.Command) bool {
	requested := plainFlag
	if appConfig != nil {
		requested = requested || appConfig.Plain
	}
	return output.ShouldUsePlain(cmd.OutOrStdout(), requested)
}

func reportError(cmd *cobra.Command, err error) {
	requested := plainFlag || (appConfig != nil && appConfig.Plain)
	clierrors.Report(cmd.ErrOrStderr(), err, output.ShouldUsePlain(cmd.ErrOrStderr(), requested))
}

// openRepository opens the configured repository, reporting failures.
func openRepository(cmd *cobra.Command) (*git.Repository, error) {
	repo, err := git.Open(appConfig.RepoPath)
	if err != nil {
		if errors.Is(err, git.ErrNotRepository) {
			reportError(cmd, clierrors.NotARepository(appConfig.RepoPath, err))
		} else {
			reportError(cmd, clierrors.Wrap(err, clierrors.Repository))
		}
		return nil, NewExitError(ExitMissingDependency)
	}
	return repo, nil
}

// resolveCommits resolves revisions, reporting the first one that fails.
func resolveCommits(cmd *cobra.Command, repo *git.Repository, revs []string) ([]*git.Commit, error) {
	commits, err := repo.ResolveCommits(revs)
	if err != nil {
		var notFound *git.RevisionNotFoundError
		if errors.As(err, &notFound) {
			reportError(cmd, clierrors.RevisionNotFound(notFound.Revision, notFound.Err))
		} else {
			reportError(cmd, err)
		}
		return nil, NewExitError(ExitInvalidArguments)
	}
	return commits, nil
}

var errNoTrailer = errors.New("no metadata trailer (message has no blank line)")

// trailerCause strips the commit message from metadata errors, leaving the
// diagnostic.
func trailerCause(err error) error {
	var de *metadata.DeserializeError
	if errors.As(err, &de) {
		return de.Err
	}
	if metadata.IsMissing(err) {
		return errNoTrailer
	}
	return err
}

// trailerError converts a metadata failure for a commit into a CLIError.
func trailerError(commitID string, err error) *clierrors.CLIError {
	if metadata.IsMissing(err) {
		return clierrors.TrailerMissing(commitID)
	}
	return clierrors.TrailerMalformed(commitID, trailerCause(err))
}
