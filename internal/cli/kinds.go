package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changegen/internal/cli/shared"
	"github.com/ariel-frischer/changegen/internal/metadata"
	"github.com/ariel-frischer/changegen/internal/output"
)

var kindsNamesFlag bool

var kindsCmd = &cobra.Command{
	Use:         "kinds",
	Short:       "List the change types accepted in the 'type' key",
	Example:     "  changegen kinds\n  changegen kinds --names",
	Args:        shared.UsageArgs(cobra.NoArgs),
	Annotations: map[string]string{shared.AnnotationSkipConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if kindsNamesFlag {
			fmt.Fprintln(out, strings.Join(metadata.KindNames(), "\n"))
			return nil
		}
		fmt.Fprint(out, output.FormatKinds(plainOutput(cmd)))
		return nil
	},
}

func init() {
	kindsCmd.GroupID = shared.GroupAuthoring
	rootCmd.AddCommand(kindsCmd)

	kindsCmd.Flags().BoolVar(&kindsNamesFlag, "names", false, "Print only the names, one per line")
}
