package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/changegen/config.yml
// - macOS: ~/Library/Application Support/changegen/config.yml
// - Windows: %APPDATA%\changegen\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "changegen", "config.yml"), nil
}

// ProjectConfigPath returns the path to the project-level config file.
// This is always .changegen/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(".changegen", "config.yml")
}

// ProjectJSONConfigPath returns the path to the JSON form of the project config.
func ProjectJSONConfigPath() string {
	return filepath.Join(".changegen", "config.json")
}
