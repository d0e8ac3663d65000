// Package git answers the history questions the provenance resolver asks:
// which commit introduced a file, what that commit says about itself, where
// HEAD points and what the origin remote is. It uses the go-git library so no
// git binary is required at runtime.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// DefaultRemote is the remote consulted for the repository URL.
const DefaultRemote = "origin"

// ErrNoCommit is returned when no commit in history added the requested file.
var ErrNoCommit = errors.New("no commit introduced the file")

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Commit is the part of a commit the release pipeline cares about.
type Commit struct {
	Hash        string
	Message     string
	AuthorName  string
	AuthorEmail string
}

// Repo is an opened git repository.
type Repo struct {
	repo *git.Repository
	root string
}

// Open opens the git repository containing path (or the current working
// directory when path is empty), walking up to find the .git directory.
func Open(path string) (*Repo, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] repository root: %s", root)
	return &Repo{repo: repo, root: root}, nil
}

// Root returns the absolute path of the working tree.
func (r *Repo) Root() string {
	return r.root
}

// RemoteURL returns the first configured URL of the named remote.
func (r *Repo) RemoteURL(name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("looking up remote %q: %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", name)
	}

	logDebug("[git] remote %s: %s", name, urls[0])
	return urls[0], nil
}

// OriginURL returns the URL of the origin remote.
func (r *Repo) OriginURL() (string, error) {
	return r.RemoteURL(DefaultRemote)
}

// HeadCommit returns the full hash HEAD points to.
func (r *Repo) HeadCommit() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	return head.Hash().String(), nil
}

// IntroducingCommit finds the most recent non-merge commit reachable from
// HEAD that added path (the file exists in the commit but not in its parent).
func (r *Repo) IntroducingCommit(path string) (Commit, error) {
	rel, err := r.relative(path)
	if err != nil {
		return Commit{}, err
	}

	head, err := r.repo.Head()
	if err != nil {
		return Commit{}, fmt.Errorf("getting HEAD reference: %w", err)
	}

	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash(), FileName: &rel})
	if err != nil {
		return Commit{}, fmt.Errorf("reading history of %s: %w", rel, err)
	}
	defer iter.Close()

	var found *object.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		added, err := addedIn(c, rel)
		if err != nil {
			return err
		}
		if added {
			found = c
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return Commit{}, fmt.Errorf("searching history of %s: %w", rel, err)
	}
	if found == nil {
		logDebug("[git] IntroducingCommit: nothing added %s", rel)
		return Commit{}, fmt.Errorf("%w: %s", ErrNoCommit, rel)
	}

	logDebug("[git] IntroducingCommit: %s added in %s", rel, found.Hash)
	return toCommit(found), nil
}

// addedIn reports whether c adds rel relative to its first parent.
// Merge commits never count, matching `git log --diff-filter=A`.
func addedIn(c *object.Commit, rel string) (bool, error) {
	if c.NumParents() > 1 {
		return false, nil
	}
	if _, err := c.File(rel); err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return false, nil
		}
		return false, err
	}
	if c.NumParents() == 0 {
		return true, nil
	}

	parent, err := c.Parent(0)
	if err != nil {
		return false, err
	}
	if _, err := parent.File(rel); err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// relative converts path into a slash-separated path inside the worktree.
func (r *Repo) relative(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	root := r.root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside the repository at %s", path, r.root)
	}
	return filepath.ToSlash(rel), nil
}

func toCommit(c *object.Commit) Commit {
	return Commit{
		Hash:        c.Hash.String(),
		Message:     c.Message,
		AuthorName:  c.Author.Name,
		AuthorEmail: c.Author.Email,
	}
}
