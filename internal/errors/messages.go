package errors

import (
	"fmt"
	"strings"
)

// TrailerMissing creates an error for a commit whose message has no
// metadata trailer paragraph.
func TrailerMissing(commitID string) *CLIError {
	return New(Metadata,
		fmt.Sprintf("commit %s has no metadata trailer", shortID(commitID)),
		"Append a blank line and a YAML block to the commit message",
		"Generate one with: changegen template --type <kind>",
		"Then amend the commit: git commit --amend",
	)
}

// TrailerMalformed creates an error for a commit whose trailer paragraph is
// not valid metadata.
func TrailerMalformed(commitID string, err error) *CLIError {
	return WrapWithMessage(err, Metadata,
		fmt.Sprintf("commit %s has malformed metadata", shortID(commitID)),
		"The last paragraph of the message must be a YAML mapping with a 'type' key",
		"List valid types with: changegen kinds",
		"Fix the message with: git commit --amend",
	)
}

// MessageMissingTrailer creates an error for a message read from a file or
// stdin that has no metadata trailer paragraph.
func MessageMissingTrailer(source string) *CLIError {
	return New(Metadata,
		fmt.Sprintf("%s has no metadata trailer", source),
		"Separate the trailer from the message body with a blank line",
		"Generate one with: changegen template --type <kind>",
	)
}

// MessageMalformed creates an error for a message read from a file or stdin
// whose trailer paragraph is not valid metadata.
func MessageMalformed(source string, err error) *CLIError {
	return WrapWithMessage(err, Metadata,
		fmt.Sprintf("%s has malformed metadata", source),
		"The last paragraph must be a YAML mapping with a 'type' key",
		"List valid types with: changegen kinds",
	)
}

// RevisionNotFound creates an error when a revision does not name a commit.
func RevisionNotFound(rev string, err error) *CLIError {
	return WrapWithMessage(err, Repository,
		fmt.Sprintf("revision not found: %s", rev),
		"Check the branch, tag or hash with: git log --oneline",
		"Relative revisions like HEAD~2 need enough history",
	)
}

// NotARepository creates an error when no git repository contains path.
func NotARepository(path string, err error) *CLIError {
	if path == "" {
		path = "the current directory"
	}
	return WrapWithMessage(err, Repository,
		fmt.Sprintf("no git repository found at %s", path),
		"Run the command inside a repository",
		"Or point at one with: changegen --repo <path>",
	)
}

// InvalidKind creates an error for an unrecognized change type.
func InvalidKind(provided string, valid []string) *CLIError {
	return New(Argument,
		fmt.Sprintf("invalid change type: %s", provided),
		"Valid types: "+strings.Join(valid, ", "),
		"See descriptions with: changegen kinds",
	).WithUsage("changegen template --type <kind>")
}

// InvalidURL creates an error for a flag value that is not an absolute URL.
func InvalidURL(flag, provided string, err error) *CLIError {
	return WrapWithMessage(err, Argument,
		fmt.Sprintf("invalid URL for --%s: %q", flag, provided),
		"Use an absolute URL with a scheme, e.g. https://github.com/org/repo/pull/1",
	)
}

// InvalidOutputFormat creates an error for an unknown --format value.
func InvalidOutputFormat(provided string) *CLIError {
	return New(Argument,
		fmt.Sprintf("invalid output format: %s", provided),
		"Valid formats: text, yaml, json",
		"Set a default with output_format in .changegen/config.yml",
	)
}

// ConfigLoadError creates an error for configuration that cannot be loaded.
func ConfigLoadError(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"failed to load configuration",
		"Check .changegen/config.yml and ~/.config/changegen/config.yml",
		"Inspect the effective values with: changegen config show",
		"CHANGEGEN_* environment variables override both files",
	)
}

// FileNotReadable creates an error when an input file cannot be read.
func FileNotReadable(path string, err error) *CLIError {
	return WrapWithMessage(err, Argument,
		fmt.Sprintf("cannot read file: %s", path),
		"Check that the path exists and is readable",
		"Use '-' to read the message from stdin",
	)
}

// InvalidUsage creates an error for a command line that cobra rejected.
func InvalidUsage(err error, usage, commandPath string) *CLIError {
	return Wrap(err, Argument,
		fmt.Sprintf("See all options with: %s --help", commandPath),
	).WithUsage(usage)
}

// ConfigExists creates an error when config init would overwrite a file.
func ConfigExists(path string) *CLIError {
	return New(Configuration,
		fmt.Sprintf("config file already exists: %s", path),
		"Use --force to overwrite it",
		"Inspect the current values with: changegen config show",
	)
}

func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
