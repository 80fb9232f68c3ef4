package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ariel-frischer/changegen/internal/cli/shared"
	"github.com/ariel-frischer/changegen/internal/git"
	"github.com/ariel-frischer/changegen/internal/logger"
	"github.com/ariel-frischer/changegen/internal/metadata"
	"github.com/ariel-frischer/changegen/internal/output"
)

var checkCmd = &cobra.Command{
	Use:   "check [revision...]",
	Short: "Verify that commits carry valid metadata",
	Long: `Verify that each named commit ends with a valid metadata trailer.

Revisions are resolved first; an unknown revision stops the check before
any commit is read. Trailers are then decoded in parallel, bounded by
check_concurrency, and reported in argument order.

Exits 1 if any commit is missing metadata or has malformed metadata.`,
	Example: `  # Check the latest commit
  changegen check

  # Check every commit of a pull request in CI
  changegen check $(git rev-list origin/main..HEAD)`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, args)
	},
}

func init() {
	checkCmd.GroupID = shared.GroupMetadata
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	revs := args
	if len(revs) == 0 {
		revs = []string{appConfig.DefaultRevision}
	}

	repo, err := openRepository(cmd)
	if err != nil {
		return err
	}
	commits, err := resolveCommits(cmd, repo, revs)
	if err != nil {
		return err
	}

	results := checkCommits(cmd.Context(), revs, commits, appConfig.CheckConcurrency)

	out := cmd.OutOrStdout()
	plain := plainOutput(cmd)
	failed := 0
	for _, r := range results {
		fmt.Fprint(out, output.FormatCheckResult(r, plain))
		if r.Err != nil {
			failed++
		}
	}

	if failed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d commits failed the metadata check\n", failed, len(results))
		return NewExitError(ExitValidationFailed)
	}
	return nil
}

// checkCommits decodes the trailer of every commit with at most limit
// decodes in flight. results[i] belongs to commits[i].
func checkCommits(ctx context.Context, revs []string, commits []*git.Commit, limit int) []output.CheckResult {
	results := make([]output.CheckResult, len(commits))

	var g errgroup.Group
	g.SetLimit(max(limit, 1))

	for i, c := range commits {
		i, c := i, c
		g.Go(func() error {
			r := output.CheckResult{Revision: revs[i], CommitID: c.ID()}
			m, err := metadata.FromCommit(c)
			if err != nil {
				logger.Debug(ctx, "metadata check failed", "commit", c.ShortID(), "error", err)
				r.Err = trailerCause(err)
			} else {
				r.Kind = m.Kind
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	return results
}
