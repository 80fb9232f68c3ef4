// Package util holds informational commands that need no repository.
package util

import (
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changegen/internal/build"
	"github.com/ariel-frischer/changegen/internal/cli/shared"
	"github.com/ariel-frischer/changegen/internal/output"
)

// SourceURL is the project source URL
const SourceURL = "https://github.com/ariel-frischer/changegen"

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for changegen",
	Example: `  # Show version info
  changegen version

  # Plain output (for scripts)
  changegen version --plain`,
	Annotations: map[string]string{shared.AnnotationSkipConfig: "true"},
	Args:        shared.UsageArgs(cobra.NoArgs),
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetBool("plain")
		out := cmd.OutOrStdout()
		if output.ShouldUsePlain(out, plain) {
			printPlainVersion(out)
			return
		}
		printPrettyVersion(out)
	},
}

// Register adds the informational commands to root.
func Register(root *cobra.Command) {
	versionCmd.GroupID = shared.GroupInfo
	root.AddCommand(versionCmd)
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	fmt.Fprintf(w, "changegen %s\n", build.Version)
	fmt.Fprintf(w, "commit: %s\n", build.Commit)
	fmt.Fprintf(w, "built: %s\n", build.BuildDate)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "source: %s\n", SourceURL)
}

// printPrettyVersion prints a colored label/value listing
func printPrettyVersion(w io.Writer) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintln(w, cyan("changegen"), dim("commit metadata for release notes"))
	fmt.Fprintln(w)

	info := []struct {
		label string
		value string
	}{
		{"Version", build.Version},
		{"Commit", truncateCommit(build.Commit)},
		{"Built", build.BuildDate},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}
	for _, item := range info {
		fmt.Fprintf(w, "  %s    %s\n", yellow(fmt.Sprintf("%10s", item.label)), white(item.value))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, dim(SourceURL))
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
