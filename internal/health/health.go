// Package health provides environment checks for changegen. It verifies that
// the repository opens, the default revision resolves and carries valid
// metadata, and reports whether a commit-msg hook runs 'changegen lint'.
// The results back the 'changegen doctor' command.
package health

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/changegen/internal/git"
	"github.com/ariel-frischer/changegen/internal/metadata"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Optional checks are reported but do not fail the report.
	Optional bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Options selects what the checks inspect.
type Options struct {
	// RepoPath is a path inside the repository. Empty means the current directory.
	RepoPath string
	// Revision is the commit whose trailer is checked.
	Revision string
}

func (r *HealthReport) add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	if !c.Passed && !c.Optional {
		r.Passed = false
	}
}

// RunHealthChecks runs all health checks and returns a report. Checks that
// depend on a failed check are skipped.
func RunHealthChecks(opts Options) *HealthReport {
	report := &HealthReport{
		Checks: make([]CheckResult, 0, 4),
		Passed: true,
	}

	repoCheck, repo := CheckRepository(opts.RepoPath)
	report.add(repoCheck)
	if repo == nil {
		return report
	}

	revCheck, commit := CheckRevision(repo, opts.Revision)
	report.add(revCheck)
	if commit != nil {
		report.add(CheckTrailer(commit))
	}

	if hooksDir, err := repo.HooksDir(); err == nil {
		report.add(CheckCommitMsgHook(hooksDir))
	} else {
		report.add(CheckResult{
			Name:     "commit-msg hook",
			Optional: true,
			Message:  fmt.Sprintf("cannot locate hooks directory: %v", err),
		})
	}

	return report
}

// CheckRepository checks that path is inside a git repository.
func CheckRepository(path string) (CheckResult, *git.Repository) {
	repo, err := git.Open(path)
	if err != nil {
		return CheckResult{
			Name:    "Git repository",
			Passed:  false,
			Message: err.Error(),
		}, nil
	}

	root, err := repo.Root()
	if err != nil {
		root = path
	}
	return CheckResult{
		Name:    "Git repository",
		Passed:  true,
		Message: fmt.Sprintf("found at %s", root),
	}, repo
}

// CheckRevision checks that rev names a commit.
func CheckRevision(repo *git.Repository, rev string) (CheckResult, *git.Commit) {
	commit, err := repo.ResolveCommit(rev)
	if err != nil {
		return CheckResult{
			Name:    "Revision",
			Passed:  false,
			Message: err.Error(),
		}, nil
	}
	return CheckResult{
		Name:    "Revision",
		Passed:  true,
		Message: fmt.Sprintf("%s is %s", rev, commit.ShortID()),
	}, commit
}

// CheckTrailer checks that commit ends with valid metadata.
func CheckTrailer(commit *git.Commit) CheckResult {
	m, err := metadata.FromCommit(commit)
	if err != nil {
		msg := "malformed metadata trailer"
		if metadata.IsMissing(err) {
			msg = "no metadata trailer"
		}
		return CheckResult{
			Name:    "Metadata trailer",
			Passed:  false,
			Message: fmt.Sprintf("%s on %s", msg, commit.ShortID()),
		}
	}
	return CheckResult{
		Name:    "Metadata trailer",
		Passed:  true,
		Message: fmt.Sprintf("%s on %s", m.Kind, commit.ShortID()),
	}
}

// CheckCommitMsgHook reports whether the commit-msg hook in hooksDir runs
// changegen. The check is optional.
func CheckCommitMsgHook(hooksDir string) CheckResult {
	hookPath := filepath.Join(hooksDir, "commit-msg")
	data, err := os.ReadFile(hookPath)
	if err != nil {
		return CheckResult{
			Name:     "commit-msg hook",
			Passed:   false,
			Optional: true,
			Message:  fmt.Sprintf("not installed - add 'changegen lint \"$1\"' to %s", hookPath),
		}
	}
	if !strings.Contains(string(data), "changegen lint") {
		return CheckResult{
			Name:     "commit-msg hook",
			Passed:   false,
			Optional: true,
			Message:  "installed but does not run 'changegen lint'",
		}
	}
	return CheckResult{
		Name:     "commit-msg hook",
		Passed:   true,
		Optional: true,
		Message:  "runs changegen lint",
	}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var output string

	for _, check := range report.Checks {
		switch {
		case check.Passed:
			output += fmt.Sprintf("✓ %s: %s\n", check.Name, check.Message)
		case check.Optional:
			output += fmt.Sprintf("○ %s: %s\n", check.Name, check.Message)
		default:
			output += fmt.Sprintf("✗ %s: %s\n", check.Name, check.Message)
		}
	}

	return output
}
