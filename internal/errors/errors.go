// Package errors provides the structured errors changegen shows to users.
// Every CLIError carries a category and the steps that fix it.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory groups errors by what the user has to change.
type ErrorCategory int

const (
	// Argument errors come from flags, arguments or input files.
	Argument ErrorCategory = iota
	// Configuration errors come from config files or CHANGEGEN_* variables.
	Configuration
	// Repository errors mean the repository or a revision could not be used.
	Repository
	// Metadata errors mean a commit trailer is missing or malformed.
	Metadata
	// Runtime errors are everything else.
	Runtime
)

var categoryNames = map[ErrorCategory]string{
	Argument:      "Argument Error",
	Configuration: "Configuration Error",
	Repository:    "Repository Error",
	Metadata:      "Metadata Error",
	Runtime:       "Runtime Error",
}

// String returns the label printed in front of the message.
func (c ErrorCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Error"
}

// CLIError is an error with a category and remediation steps.
type CLIError struct {
	Category ErrorCategory
	Message  string
	// Remediation lists the steps shown under "To fix this:".
	Remediation []string
	// Usage is the correct command syntax, shown for argument errors.
	Usage string
	// Err is the underlying cause, if any.
	Err error
}

func (e *CLIError) Error() string {
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// WithUsage sets the usage line and returns e.
func (e *CLIError) WithUsage(usage string) *CLIError {
	e.Usage = usage
	return e
}

// New creates a CLIError without an underlying cause.
func New(category ErrorCategory, message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    category,
		Message:     message,
		Remediation: remediation,
	}
}

// Wrap turns err into a CLIError that keeps err's message.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     err.Error(),
		Remediation: remediation,
		Err:         err,
	}
}

// WrapWithMessage turns err into a CLIError whose message is "message: err".
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %v", message, err),
		Remediation: remediation,
		Err:         err,
	}
}

// IsCLIError reports whether err or any error it wraps is a CLIError.
func IsCLIError(err error) bool {
	return AsCLIError(err) != nil
}

// AsCLIError returns the first CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
