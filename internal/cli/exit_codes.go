package cli

import "github.com/ariel-frischer/changegen/internal/cli/shared"

// Exit codes for the changegen CLI
// These codes support programmatic composition and CI/CD integration
const (
	ExitSuccess           = shared.ExitSuccess
	ExitValidationFailed  = shared.ExitValidationFailed
	ExitInvalidArguments  = shared.ExitInvalidArguments
	ExitMissingDependency = shared.ExitMissingDependency
)

// ExitError carries a process exit code through cobra's error return.
type ExitError = shared.ExitError

// NewExitError returns an error that makes the process exit with code.
func NewExitError(code int) error {
	return shared.NewExitError(code)
}
