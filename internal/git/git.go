// Package git provides the commit source for changegen. It opens repositories
// with the go-git library and resolves revisions to commits that satisfy
// metadata.Commit, so trailers can be read without a git CLI installation.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// ErrNotRepository is returned by Open when no repository is found at or
// above the given path.
var ErrNotRepository = errors.New("not a git repository")

// RevisionNotFoundError is returned when a revision does not name a commit.
type RevisionNotFoundError struct {
	Revision string
	Err      error
}

func (e *RevisionNotFoundError) Error() string {
	return fmt.Sprintf("revision %q not found: %v", e.Revision, e.Err)
}

func (e *RevisionNotFoundError) Unwrap() error {
	return e.Err
}

// Repository is an opened git repository.
type Repository struct {
	repo *git.Repository
	path string
}

// Open opens the git repository containing path, walking up the directory
// tree to find the .git directory. If path is empty, the current working
// directory is used.
func Open(path string) (*Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("opening repository at %s: %w", path, ErrNotRepository)
		}
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return &Repository{repo: repo, path: path}, nil
}

// IsRepository checks if path is within a git repository.
func IsRepository(path string) bool {
	_, err := Open(path)
	result := err == nil
	logDebug("[git] IsRepository(%s): %v", path, result)
	return result
}

// Root returns the absolute path to the repository work tree root.
// Bare repositories have no work tree and return the path they were opened with.
func (r *Repository) Root() (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		if errors.Is(err, git.ErrIsBareRepository) {
			return r.path, nil
		}
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] Root: %s", root)
	return root, nil
}

// HooksDir returns the directory git runs hooks from. core.hooksPath wins
// when set in the repository or global config; relative values are taken
// from the work tree root. Otherwise it is the hooks directory of the
// common git dir, which linked worktrees share with the main repository.
func (r *Repository) HooksDir() (string, error) {
	root, err := r.Root()
	if err != nil {
		return "", err
	}

	cfg, err := r.repo.ConfigScoped(config.GlobalScope)
	if err != nil {
		return "", fmt.Errorf("reading git config: %w", err)
	}
	if hooksPath := cfg.Raw.Section("core").Option("hooksPath"); hooksPath != "" {
		if rest, ok := strings.CutPrefix(hooksPath, "~/"); ok {
			if home, err := os.UserHomeDir(); err == nil {
				hooksPath = filepath.Join(home, rest)
			}
		}
		if !filepath.IsAbs(hooksPath) {
			hooksPath = filepath.Join(root, hooksPath)
		}
		logDebug("[git] HooksDir from core.hooksPath: %s", hooksPath)
		return filepath.Clean(hooksPath), nil
	}

	gitDir, err := commonGitDir(root)
	if err != nil {
		return "", err
	}
	logDebug("[git] HooksDir: %s", filepath.Join(gitDir, "hooks"))
	return filepath.Join(gitDir, "hooks"), nil
}

// commonGitDir finds the git dir shared by all work trees of the repository
// at root. A .git file points at a linked worktree's private dir, whose
// commondir file points back at the main git dir. A bare repository is its
// own git dir.
func commonGitDir(root string) (string, error) {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return root, nil
	case err != nil:
		return "", fmt.Errorf("reading %s: %w", gitDir, err)
	case !info.IsDir():
		data, err := os.ReadFile(gitDir)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", gitDir, err)
		}
		target, ok := strings.CutPrefix(strings.TrimSpace(string(data)), "gitdir:")
		if !ok {
			return "", fmt.Errorf("%s: missing gitdir line", gitDir)
		}
		gitDir = resolveFrom(root, strings.TrimSpace(target))
	}

	if data, err := os.ReadFile(filepath.Join(gitDir, "commondir")); err == nil {
		gitDir = resolveFrom(gitDir, strings.TrimSpace(string(data)))
	}
	return gitDir, nil
}

func resolveFrom(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// ResolveCommit resolves a revision such as "HEAD", "main~2", a tag or a
// full hash to the commit it names.
func (r *Repository) ResolveCommit(rev string) (*Commit, error) {
	if strings.TrimSpace(rev) == "" {
		return nil, &RevisionNotFoundError{Revision: rev, Err: errors.New("empty revision")}
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, &RevisionNotFoundError{Revision: rev, Err: err}
	}

	obj, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, &RevisionNotFoundError{Revision: rev, Err: err}
	}

	logDebug("[git] ResolveCommit: %s -> %s", rev, obj.Hash)
	return NewCommit(obj), nil
}

// ResolveCommits resolves each revision in order. It stops at the first
// revision that cannot be resolved.
func (r *Repository) ResolveCommits(revs []string) ([]*Commit, error) {
	commits := make([]*Commit, 0, len(revs))
	for _, rev := range revs {
		c, err := r.ResolveCommit(rev)
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, nil
}

// Commit is a resolved commit. It implements metadata.Commit.
type Commit struct {
	hash    plumbing.Hash
	message string
	author  object.Signature
}

// NewCommit wraps a go-git commit object.
func NewCommit(c *object.Commit) *Commit {
	return &Commit{
		hash:    c.Hash,
		message: c.Message,
		author:  c.Author,
	}
}

// ID returns the full hex hash.
func (c *Commit) ID() string {
	return c.hash.String()
}

// ShortID returns the first seven characters of the hash.
func (c *Commit) ShortID() string {
	id := c.hash.String()
	if len(id) > 7 {
		return id[:7]
	}
	return id
}

// MessageBytes returns the raw commit message. go-git keeps the message as
// stored, so invalid UTF-8 survives here.
func (c *Commit) MessageBytes() []byte {
	return []byte(c.message)
}

// Summary returns the first line of the commit message.
func (c *Commit) Summary() string {
	summary, _, _ := strings.Cut(c.message, "\n")
	return strings.TrimSpace(summary)
}

// Author returns the author in "Name <email>" form.
func (c *Commit) Author() string {
	return fmt.Sprintf("%s <%s>", c.author.Name, c.author.Email)
}
