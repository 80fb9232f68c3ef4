package util

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ariel-frischer/changegen/internal/build"
)

// Tests that modify the build variables cannot run in parallel.

func TestPrintPlainVersion(t *testing.T) {
	origVersion, origCommit := build.Version, build.Commit
	build.Version, build.Commit = "v1.2.3", "0123456789abcdef"
	defer func() { build.Version, build.Commit = origVersion, origCommit }()

	var buf bytes.Buffer
	printPlainVersion(&buf)

	out := buf.String()
	assert.Contains(t, out, "changegen v1.2.3\n")
	assert.Contains(t, out, "commit: 0123456789abcdef\n")
	assert.Contains(t, out, "go: "+runtime.Version())
	assert.Contains(t, out, "source: "+SourceURL)
}

func TestPrintPrettyVersion(t *testing.T) {
	var buf bytes.Buffer
	printPrettyVersion(&buf)
	assert.Contains(t, buf.String(), "Version")
	assert.Contains(t, buf.String(), build.Version)
}

func TestTruncateCommit(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		commit string
		want   string
	}{
		"long hash":  {commit: "0123456789abcdef", want: "01234567"},
		"short hash": {commit: "abc", want: "abc"},
		"unknown":    {commit: "unknown", want: "unknown"},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, truncateCommit(tt.commit))
		})
	}
}

func TestSourceURLConstant(t *testing.T) {
	t.Parallel()

	assert.Contains(t, SourceURL, "github.com")
	assert.Contains(t, SourceURL, "changegen")
}
