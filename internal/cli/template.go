package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changegen/internal/cli/shared"
	clierrors "github.com/ariel-frischer/changegen/internal/errors"
	"github.com/ariel-frischer/changegen/internal/metadata"
)

var (
	templateTypeFlag     string
	templatePRFlag       string
	templateFixesFlag    []string
	templateCoAuthorFlag string
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print a metadata trailer to append to a commit message",
	Long: `Print a metadata trailer to append to a commit message.

The trailer starts from the defaults (type: changed, no PR, no fixes, no
co-author) and takes each flag that is given. Output begins with a blank
line so it can be appended to a message body as is.`,
	Example: `  changegen template --type fix --fixes https://github.com/org/repo/issues/9
  changegen template --type added --pr https://github.com/org/repo/pull/10 >> msg.txt`,
	Args:         shared.UsageArgs(cobra.NoArgs),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTemplate(cmd)
	},
}

func init() {
	templateCmd.GroupID = shared.GroupAuthoring
	rootCmd.AddCommand(templateCmd)

	templateCmd.Flags().StringVarP(&templateTypeFlag, "type", "t", "", "Change type (see 'changegen kinds')")
	templateCmd.Flags().StringVar(&templatePRFlag, "pr", "", "Pull request URL")
	templateCmd.Flags().StringArrayVar(&templateFixesFlag, "fixes", nil, "Fixed issue URL (repeatable)")
	templateCmd.Flags().StringVar(&templateCoAuthorFlag, "co-authored-by", "", "Co-author, \"Name <email>\"")

	_ = templateCmd.RegisterFlagCompletionFunc("type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return metadata.KindNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

func runTemplate(cmd *cobra.Command) error {
	m, cliErr := buildTemplate(cmd)
	if cliErr != nil {
		reportError(cmd, cliErr)
		return NewExitError(ExitInvalidArguments)
	}
	fmt.Fprint(cmd.OutOrStdout(), metadata.Encode(m))
	return nil
}

// buildTemplate applies the template flags to the default metadata.
func buildTemplate(cmd *cobra.Command) (metadata.Metadata, *clierrors.CLIError) {
	m := metadata.Default()

	if templateTypeFlag != "" {
		kind, err := metadata.ParseKind(templateTypeFlag)
		if err != nil {
			return m, clierrors.InvalidKind(templateTypeFlag, metadata.KindNames())
		}
		m.Kind = kind
	}

	if templatePRFlag != "" {
		pr, err := metadata.ParseURL(templatePRFlag)
		if err != nil {
			return m, clierrors.InvalidURL("pr", templatePRFlag, err)
		}
		m.PR = &pr
	}

	for _, raw := range templateFixesFlag {
		fix, err := metadata.ParseURL(raw)
		if err != nil {
			return m, clierrors.InvalidURL("fixes", raw, err)
		}
		m.Fixes = append(m.Fixes, fix)
	}

	if cmd.Flags().Changed("co-authored-by") {
		author := templateCoAuthorFlag
		m.CoAuthoredBy = &author
	}

	return m, nil
}
