package config

import (
	"fmt"
	"sort"
)

// ConfigKeySchema describes a known configuration key.
type ConfigKeySchema struct {
	Path          string      // Key name as written in config files
	Type          string      // Expected value type: bool, int, string or enum
	AllowedValues []string    // Valid values for enum types (empty for non-enums)
	Description   string      // Human-readable description for help text
	Default       interface{} // Default value
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"repo_path": {
		Path:        "repo_path",
		Type:        "string",
		Description: "Repository to read commits from (empty = current directory)",
		Default:     "",
	},
	"default_revision": {
		Path:        "default_revision",
		Type:        "string",
		Description: "Revision resolved when show or check get no arguments",
		Default:     "HEAD",
	},
	"output_format": {
		Path:          "output_format",
		Type:          "enum",
		AllowedValues: []string{"text", "yaml", "json"},
		Description:   "Output format of the show command",
		Default:       "text",
	},
	"plain": {
		Path:        "plain",
		Type:        "bool",
		Description: "Disable colors and emoji",
		Default:     false,
	},
	"check_concurrency": {
		Path:        "check_concurrency",
		Type:        "int",
		Description: "Commits decoded in parallel by check (1-64)",
		Default:     4,
	},
	"verbose": {
		Path:        "verbose",
		Type:        "bool",
		Description: "Info-level logging on stderr",
		Default:     false,
	},
	"debug": {
		Path:        "debug",
		Type:        "bool",
		Description: "Debug-level logging on stderr",
		Default:     false,
	},
}

// ErrUnknownKey is returned when a configuration key is not in KnownKeys.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return fmt.Sprintf("unknown configuration key %q", e.Key)
}

// GetKeySchema returns the schema for a configuration key.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// SortedKeys returns all known key names in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
