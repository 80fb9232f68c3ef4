package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changegen/internal/cli/shared"
	clierrors "github.com/ariel-frischer/changegen/internal/errors"
	"github.com/ariel-frischer/changegen/internal/logger"
	"github.com/ariel-frischer/changegen/internal/metadata"
	"github.com/ariel-frischer/changegen/internal/output"
)

const stdinSource = "<stdin>"

var (
	lintQuietFlag         bool
	lintStripCommentsFlag bool
)

var lintCmd = &cobra.Command{
	Use:   "lint <file|->",
	Short: "Validate the metadata trailer of a commit message file",
	Long: `Validate the metadata trailer of a commit message that is not committed yet.

Pass the message file, as git does for a commit-msg hook, or '-' to read
the message from stdin. Lines starting with '#' are removed first, the way
git strips them, unless --strip-comments=false is given.

Exits 1 if the message has no trailer or the trailer is malformed.`,
	Example: `  # .git/hooks/commit-msg
  exec changegen lint "$1"

  # Check a message before committing
  printf 'Add export\n\ntype: added\n' | changegen lint -`,
	Args:         shared.UsageArgs(cobra.ExactArgs(1)),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLint(cmd, args)
	},
}

func init() {
	lintCmd.GroupID = shared.GroupAuthoring
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().BoolVarP(&lintQuietFlag, "quiet", "q", false, "Print nothing on success")
	lintCmd.Flags().BoolVar(&lintStripCommentsFlag, "strip-comments", true, "Remove '#' comment lines before validating")
}

func runLint(cmd *cobra.Command, args []string) error {
	source, raw, err := readMessage(cmd, args[0])
	if err != nil {
		reportError(cmd, clierrors.FileNotReadable(args[0], err))
		return NewExitError(ExitInvalidArguments)
	}
	if lintStripCommentsFlag {
		raw = stripComments(raw)
	}

	ctx := logger.With(cmd.Context(), "source", source)
	m, err := metadata.FromMessage(source, raw)
	if err != nil {
		logger.Debug(ctx, "lint failed", "error", err)
		if metadata.IsMissing(err) {
			reportError(cmd, clierrors.MessageMissingTrailer(source))
		} else {
			reportError(cmd, clierrors.MessageMalformed(source, trailerCause(err)))
		}
		return NewExitError(ExitValidationFailed)
	}

	if !lintQuietFlag {
		fmt.Fprint(cmd.OutOrStdout(), output.FormatEntry(output.Entry{Metadata: m}, plainOutput(cmd)))
	}
	return nil
}

// readMessage reads the message named by arg, with "-" meaning stdin.
func readMessage(cmd *cobra.Command, arg string) (source string, raw []byte, err error) {
	if arg == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
		return stdinSource, raw, err
	}
	raw, err = os.ReadFile(arg)
	return arg, raw, err
}

// stripComments drops lines beginning with '#' and trailing blank lines,
// matching git's default message cleanup for comments.
func stripComments(raw []byte) []byte {
	lines := strings.Split(string(raw), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, line)
	}
	return []byte(strings.TrimRight(strings.Join(kept, "\n"), "\n") + "\n")
}
