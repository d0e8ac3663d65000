package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Signature is the author recorded on commits made by GitRepo.
type Signature struct {
	Name  string
	Email string
}

// DefaultSignature is used when a commit does not name an author.
var DefaultSignature = Signature{Name: "Test", Email: "test@test.com"}

// GitRepo is a throwaway repository in a temp directory, driven through
// go-git so tests never depend on a git binary being installed.
type GitRepo struct {
	t    *testing.T
	Dir  string
	repo *git.Repository
	tick time.Time
}

// NewGitRepo initializes an empty repository in a fresh temp directory.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()

	dir := t.TempDir()
	// Resolve symlinks (macOS /var -> /private/var) so paths compare equal
	// with what go-git reports for the worktree root.
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("git init failed: %v", err)
	}

	return &GitRepo{
		t:    t,
		Dir:  dir,
		repo: repo,
		tick: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Path joins rel onto the repository directory.
func (r *GitRepo) Path(rel string) string {
	return filepath.Join(r.Dir, filepath.FromSlash(rel))
}

// WriteFile writes content to rel inside the repository, creating parents.
func (r *GitRepo) WriteFile(rel, content string) string {
	r.t.Helper()

	path := r.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("creating directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatalf("writing %s: %v", rel, err)
	}
	return path
}

// Remove deletes rel from the working tree.
func (r *GitRepo) Remove(rel string) {
	r.t.Helper()

	if err := os.Remove(r.Path(rel)); err != nil {
		r.t.Fatalf("removing %s: %v", rel, err)
	}
}

// Commit stages every change in the working tree and commits it with msg,
// returning the new commit hash. A zero Signature uses DefaultSignature.
func (r *GitRepo) Commit(msg string, author Signature) string {
	r.t.Helper()

	if author.Name == "" {
		author = DefaultSignature
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("getting worktree: %v", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		r.t.Fatalf("git add failed: %v", err)
	}

	// Strictly increasing timestamps keep log order deterministic.
	r.tick = r.tick.Add(time.Minute)
	hash, err := wt.Commit(msg, &git.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  author.Name,
			Email: author.Email,
			When:  r.tick,
		},
	})
	if err != nil {
		r.t.Fatalf("git commit failed: %v", err)
	}
	return hash.String()
}

// AddRemote registers a remote with a single URL.
func (r *GitRepo) AddRemote(name, url string) {
	r.t.Helper()

	_, err := r.repo.CreateRemote(&config.RemoteConfig{
		Name: name,
		URLs: []string{url},
	})
	if err != nil {
		r.t.Fatalf("adding remote %s: %v", name, err)
	}
}
