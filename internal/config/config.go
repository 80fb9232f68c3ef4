// changegen - commit metadata trailers for release notes
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/changegen

// Package config provides hierarchical configuration management for changegen using koanf.
// Configuration is loaded with priority: environment variables > project config (.changegen/config.yml)
// > user config (~/.config/changegen/config.yml) > defaults. A project config written as JSON
// (.changegen/config.json) is still read, with a warning, when no YAML project config exists.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "CHANGEGEN_"

// Configuration represents the changegen CLI configuration
type Configuration struct {
	// RepoPath is the repository to read commits from. Empty means the current directory.
	RepoPath string `koanf:"repo_path" yaml:"repo_path"`

	// DefaultRevision is resolved when show or check are called without arguments.
	DefaultRevision string `koanf:"default_revision" yaml:"default_revision" validate:"required,revision"`

	// OutputFormat selects how show prints metadata: text, yaml or json.
	OutputFormat string `koanf:"output_format" yaml:"output_format" validate:"oneof=text yaml json"`

	// Plain disables colors and emoji.
	Plain bool `koanf:"plain" yaml:"plain"`

	// CheckConcurrency bounds how many commits check decodes at once.
	CheckConcurrency int `koanf:"check_concurrency" yaml:"check_concurrency" validate:"min=1,max=64"`

	Verbose bool `koanf:"verbose" yaml:"verbose"`
	Debug   bool `koanf:"debug" yaml:"debug"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath overrides .changegen/config.yml. It is always read as YAML.
	ProjectConfigPath string
	// WarningWriter receives warnings about the JSON project config (default os.Stderr).
	WarningWriter io.Writer
	SkipWarnings  bool
	// SkipUserConfig ignores $XDG_CONFIG_HOME/changegen/config.yml.
	SkipUserConfig bool
}

// layer is one configuration source. Later layers override earlier ones.
type layer struct {
	name string
	load func(k *koanf.Koanf) error
}

// Load loads configuration with default options and the given project path.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions merges defaults, the user file, the project file and
// CHANGEGEN_* variables, then validates the result.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	warn := opts.WarningWriter
	if warn == nil {
		warn = os.Stderr
	}
	if opts.SkipWarnings {
		warn = io.Discard
	}

	layers := []layer{{name: "defaults", load: loadDefaults}}
	if !opts.SkipUserConfig {
		layers = append(layers, layer{name: "user", load: loadUserConfig})
	}
	layers = append(layers,
		layer{name: "project", load: func(k *koanf.Koanf) error {
			return loadProjectConfig(k, opts.ProjectConfigPath, warn)
		}},
		layer{name: "environment", load: func(k *koanf.Koanf) error {
			return k.Load(env.Provider(EnvPrefix, ".", envTransform), nil)
		}},
	)

	k := koanf.New(".")
	for _, l := range layers {
		if err := l.load(k); err != nil {
			return nil, fmt.Errorf("loading %s config: %w", l.name, err)
		}
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	cfg.RepoPath = expandHomePath(cfg.RepoPath)

	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil || !fileExists(path) {
		return nil
	}
	return loadYAMLFile(k, path)
}

// loadProjectConfig loads an explicit path, which must exist, or else the
// default project file. The JSON file is only considered when the default
// YAML file is absent.
func loadProjectConfig(k *koanf.Koanf, customPath string, warn io.Writer) error {
	if customPath != "" {
		if !fileExists(customPath) {
			return fmt.Errorf("config file not found: %s", customPath)
		}
		return loadYAMLFile(k, customPath)
	}

	yamlPath := ProjectConfigPath()
	jsonPath := ProjectJSONConfigPath()
	hasJSON := fileExists(jsonPath)

	switch {
	case fileExists(yamlPath):
		if hasJSON {
			fmt.Fprintf(warn, "Warning: JSON config found at %s (ignored, using %s)\n\n", jsonPath, yamlPath)
		}
		return loadYAMLFile(k, yamlPath)
	case hasJSON:
		if err := k.Load(file.Provider(jsonPath), json.Parser()); err != nil {
			return fmt.Errorf("%s: %w", jsonPath, err)
		}
		fmt.Fprintf(warn, "Warning: Using JSON config at %s\n", jsonPath)
		fmt.Fprintf(warn, "  Prefer %s; JSON support may be removed.\n\n", yamlPath)
	}
	return nil
}

// loadYAMLFile checks syntax with yaml.v3 first so errors carry a line number.
func loadYAMLFile(k *koanf.Koanf, path string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform maps CHANGEGEN_CHECK_CONCURRENCY to check_concurrency.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func expandHomePath(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}
