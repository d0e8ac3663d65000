package provenance

import (
	"context"

	"github.com/ariel-frischer/changeset/internal/git"
	"github.com/ariel-frischer/changeset/internal/github"
)

// VCS is the local history the resolver reads. *git.Repo satisfies it.
type VCS interface {
	OriginURL() (string, error)
	HeadCommit() (string, error)
	IntroducingCommit(path string) (git.Commit, error)
}

// Remote is the hosted-repository API the resolver consults for usernames.
// *github.Client satisfies it.
type Remote interface {
	PullRequestAuthor(ctx context.Context, n int) (string, error)
	User(ctx context.Context, login string) (github.Identity, error)
	PullRequestCommitAuthors(ctx context.Context, n int) ([]github.Identity, error)
}

// lookup is the outcome of a call that may have nothing to offer.
// Callers branch on ok instead of inspecting errors.
type lookup[T any] struct {
	value T
	ok    bool
}

func found[T any](v T) lookup[T] {
	return lookup[T]{value: v, ok: true}
}

// Resolver assembles Info for records and for the run as a whole.
// VCS and Remote may both be nil; the resolver then relies on Env alone.
type Resolver struct {
	VCS    VCS
	Remote Remote
	Env    Env

	// Warnf, when set, receives degradation notices such as a failed
	// remote lookup. Degradation never stops resolution.
	Warnf func(format string, args ...any)

	repoURL lookup[string]
	cache   map[string]Info
}

// NewResolver creates a Resolver. Pass a nil interface (not a typed nil
// pointer) for a collaborator that is unavailable.
func NewResolver(vcs VCS, remote Remote, env Env) *Resolver {
	return &Resolver{
		VCS:    vcs,
		Remote: remote,
		Env:    env,
		cache:  make(map[string]Info),
	}
}

// RepoURL returns the GitHub web URL of the origin remote, or "" when the
// origin is missing or not hosted on GitHub.
func (r *Resolver) RepoURL() string {
	if r.repoURL.ok {
		return r.repoURL.value
	}

	url := ""
	if r.VCS != nil {
		if remote, err := r.VCS.OriginURL(); err != nil {
			logDebug("[provenance] origin remote unavailable: %v", err)
		} else if _, _, u, ok := RepoURLFromRemote(remote); ok {
			url = u
		} else {
			logDebug("[provenance] origin %q is not a GitHub remote", remote)
		}
	}
	r.repoURL = found(url)
	return url
}

// ForRun returns run-level provenance: the environment overrides, with the
// commit falling back to HEAD.
func (r *Resolver) ForRun(ctx context.Context) Info {
	info := Info{RepoURL: r.RepoURL()}
	r.applyEnvFallbacks(&info)
	return info
}

// ForRecord returns the provenance of the record at path. History of the
// record file wins; environment overrides only fill what history left empty.
// Results are cached per path for the lifetime of the resolver.
func (r *Resolver) ForRecord(ctx context.Context, path string) Info {
	if info, ok := r.cache[path]; ok {
		return info
	}

	info := Info{RepoURL: r.RepoURL()}
	if commit := r.introducingCommit(path); commit.ok {
		r.fromCommit(ctx, &info, commit.value)
	}
	r.applyEnvFallbacks(&info)

	if r.cache == nil {
		r.cache = make(map[string]Info)
	}
	r.cache[path] = info
	return info
}

// fromCommit fills info from the commit that introduced a record.
func (r *Resolver) fromCommit(ctx context.Context, info *Info, commit git.Commit) {
	info.CommitHash = commit.Hash

	commitAuthor := lookup[Author]{}
	if commit.AuthorName != "" {
		commitAuthor = found(Author{Name: commit.AuthorName})
	}

	var (
		profile lookup[github.Identity]
		remote  []github.Identity
	)

	n, hasPR := ExtractPRNumber(commit.Message)
	if hasPR {
		info.PRNumber = n
		if login := r.pullRequestAuthor(ctx, n); login.ok {
			info.PRAuthor = &Author{Name: login.value, IsUsername: true}
			profile = r.user(ctx, login.value)
			if authors := r.commitAuthors(ctx, n); authors.ok {
				remote = authors.value
			}
		}
	}
	if info.PRAuthor == nil && commitAuthor.ok {
		a := commitAuthor.value
		info.PRAuthor = &a
	}

	candidates := collectCandidates(remote, ParseCoAuthorTrailers(commit.Message))
	info.CoAuthors = dedupe(info.PRAuthor, profile, candidates)
}

// applyEnvFallbacks fills fields history could not provide.
func (r *Resolver) applyEnvFallbacks(info *Info) {
	if info.PRNumber == 0 {
		if n, ok := r.Env.prNumber(); ok {
			info.PRNumber = n
		}
	}
	if info.PRAuthor == nil && r.Env.PRAuthor != "" {
		info.PRAuthor = &Author{Name: r.Env.PRAuthor, IsUsername: true}
	}
	if info.CommitHash == "" {
		if r.Env.CommitSHA != "" {
			info.CommitHash = r.Env.CommitSHA
		} else if head := r.headCommit(); head.ok {
			info.CommitHash = head.value
		}
	}
}

func (r *Resolver) introducingCommit(path string) lookup[git.Commit] {
	if r.VCS == nil {
		return lookup[git.Commit]{}
	}
	c, err := r.VCS.IntroducingCommit(path)
	if err != nil {
		logDebug("[provenance] no introducing commit for %s: %v", path, err)
		return lookup[git.Commit]{}
	}
	return found(c)
}

func (r *Resolver) headCommit() lookup[string] {
	if r.VCS == nil {
		return lookup[string]{}
	}
	h, err := r.VCS.HeadCommit()
	if err != nil {
		logDebug("[provenance] HEAD unavailable: %v", err)
		return lookup[string]{}
	}
	return found(h)
}

func (r *Resolver) pullRequestAuthor(ctx context.Context, n int) lookup[string] {
	if r.Remote == nil {
		return lookup[string]{}
	}
	login, err := r.Remote.PullRequestAuthor(ctx, n)
	if err != nil {
		r.warnf("could not look up author of PR #%d, using the commit author instead: %v", n, err)
		return lookup[string]{}
	}
	return found(login)
}

func (r *Resolver) user(ctx context.Context, login string) lookup[github.Identity] {
	id, err := r.Remote.User(ctx, login)
	if err != nil {
		logDebug("[provenance] profile of %s unavailable: %v", login, err)
		return lookup[github.Identity]{}
	}
	return found(id)
}

func (r *Resolver) commitAuthors(ctx context.Context, n int) lookup[[]github.Identity] {
	ids, err := r.Remote.PullRequestCommitAuthors(ctx, n)
	if err != nil {
		logDebug("[provenance] commit authors of PR #%d unavailable: %v", n, err)
		return lookup[[]github.Identity]{}
	}
	return found(ids)
}

func (r *Resolver) warnf(format string, args ...any) {
	logDebug("[provenance] "+format, args...)
	if r.Warnf != nil {
		r.Warnf(format, args...)
	}
}
