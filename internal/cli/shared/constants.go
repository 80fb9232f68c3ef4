// Package shared provides constants and types used across CLI subpackages.
package shared

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Exit codes for the changegen CLI.
// These codes support commit-msg hooks and CI integration.
const (
	// ExitSuccess indicates successful command execution.
	ExitSuccess = 0

	// ExitValidationFailed indicates a commit or message has missing or malformed metadata.
	ExitValidationFailed = 1

	// ExitInvalidArguments indicates invalid command arguments or an unknown revision.
	ExitInvalidArguments = 3

	// ExitMissingDependency indicates no git repository could be opened.
	ExitMissingDependency = 4
)

// Command group IDs used to organize help output.
const (
	GroupMetadata      = "metadata"
	GroupAuthoring     = "authoring"
	GroupConfiguration = "configuration"
	GroupInfo          = "info"
)

// ExitError carries a process exit code through cobra's error return.
// The message has already been reported when an ExitError is returned.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError returns an error that makes the process exit with code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode maps err to a process exit code. Errors without an ExitError in
// their chain are treated as validation failures.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitInvalidArguments
	}
	return ExitValidationFailed
}

// UsageError marks a command line cobra rejected: a bad flag, a bad flag
// value, a wrong argument count or an unknown command.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// UsageArgs wraps an argument validator so its failures are UsageErrors.
func UsageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}

// AnnotationSkipConfig marks commands that run without loading configuration.
const AnnotationSkipConfig = "changegen/skip-config"
