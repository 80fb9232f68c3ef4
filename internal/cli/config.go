package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/changegen/internal/cli/shared"
	"github.com/ariel-frischer/changegen/internal/config"
	clierrors "github.com/ariel-frischer/changegen/internal/errors"
)

var configInitForceFlag bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create changegen configuration",
	Long: `Inspect and create changegen configuration.

Values are merged in this order, later sources winning:
  defaults, ~/.config/changegen/config.yml, .changegen/config.yml,
  CHANGEGEN_* environment variables, command-line flags.`,
}

var configShowCmd = &cobra.Command{
	Use:          "show",
	Short:        "Print the effective configuration as YAML",
	Args:         shared.UsageArgs(cobra.NoArgs),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(appConfig)
		if err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configKeysCmd = &cobra.Command{
	Use:         "keys",
	Short:       "List all configuration keys with defaults",
	Args:        shared.UsageArgs(cobra.NoArgs),
	Annotations: map[string]string{shared.AnnotationSkipConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, key := range config.SortedKeys() {
			schema, err := config.GetKeySchema(key)
			if err != nil {
				return err
			}
			typ := schema.Type
			if len(schema.AllowedValues) > 0 {
				typ = strings.Join(schema.AllowedValues, "|")
			}
			fmt.Fprintf(out, "%-18s %-15s default: %-6v  %s\n", key, typ, schema.Default, schema.Description)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented project config to .changegen/config.yml",
	Long: `Write a commented project config to .changegen/config.yml, or to the
path given with --config. An existing file is kept unless --force is set.`,
	Annotations:  map[string]string{shared.AnnotationSkipConfig: "true"},
	Args:         shared.UsageArgs(cobra.NoArgs),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigInit(cmd)
	},
}

func init() {
	configCmd.GroupID = shared.GroupConfiguration
	configCmd.AddCommand(configShowCmd, configKeysCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)

	configInitCmd.Flags().BoolVarP(&configInitForceFlag, "force", "f", false, "Overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command) error {
	path := cfgFile
	if path == "" {
		path = config.ProjectConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !configInitForceFlag {
		reportError(cmd, clierrors.ConfigExists(path))
		return NewExitError(ExitInvalidArguments)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}
