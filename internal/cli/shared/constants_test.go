// Package shared_test tests exit codes and command groups shared by the CLI packages.
// Related: internal/cli/shared/constants.go
// Tags: cli, shared, exit-codes

package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want int
	}{
		"nil is success":            {err: nil, want: ExitSuccess},
		"invalid arguments":         {err: NewExitError(ExitInvalidArguments), want: 3},
		"missing repository":        {err: NewExitError(ExitMissingDependency), want: 4},
		"wrapped exit error":        {err: fmt.Errorf("running check: %w", NewExitError(ExitInvalidArguments)), want: 3},
		"unrecognized error":        {err: errors.New("unknown flag: --bogus"), want: ExitValidationFailed},
		"explicit validation error": {err: NewExitError(ExitValidationFailed), want: 1},
		"usage error":               {err: &UsageError{Err: errors.New("accepts 1 arg(s), received 0")}, want: 3},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}

func TestUsageArgs(t *testing.T) {
	t.Parallel()

	validate := UsageArgs(cobra.ExactArgs(1))
	cmd := &cobra.Command{Use: "lint"}

	require.NoError(t, validate(cmd, []string{"msg"}))

	err := validate(cmd, nil)
	var usageErr *UsageError
	require.ErrorAs(t, err, &usageErr)
	assert.Equal(t, "accepts 1 arg(s), received 0", err.Error())
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}

func TestExitError_Message(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "exit code 4", NewExitError(ExitMissingDependency).Error())
}

func TestDistinctValues(t *testing.T) {
	t.Parallel()

	codes := map[int]bool{}
	for _, code := range []int{ExitSuccess, ExitValidationFailed, ExitInvalidArguments, ExitMissingDependency} {
		assert.False(t, codes[code], "duplicate exit code %d", code)
		codes[code] = true
	}

	groups := map[string]bool{}
	for _, group := range []string{GroupMetadata, GroupAuthoring, GroupConfiguration, GroupInfo} {
		assert.False(t, groups[group], "duplicate group %s", group)
		groups[group] = true
	}
}
