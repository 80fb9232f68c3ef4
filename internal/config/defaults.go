package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# changegen configuration
# See 'changegen config keys' for all options

repo_path: ""                         # Repository to read (empty = current directory)
default_revision: HEAD                # Revision used when none is given
output_format: text                   # show output: text | yaml | json
plain: false                          # Disable colors and emoji
check_concurrency: 4                  # Commits decoded in parallel by 'check' (1-64)

# Logging
verbose: false                        # Info-level logs on stderr
debug: false                          # Debug-level logs on stderr
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"repo_path":        "",
		"default_revision": "HEAD",
		// output_format: text is colorized unless plain is set or stdout is not a terminal.
		"output_format":     "text",
		"plain":             false,
		"check_concurrency": 4,
		"verbose":           false,
		"debug":             false,
	}
}
