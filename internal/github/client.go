// Package github looks up pull request and user details on GitHub for
// changelog attribution. Every call is best effort: callers treat an error as
// "remote unavailable" and fall back to what local history provides.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// DefaultTimeout bounds each remote lookup.
const DefaultTimeout = 10 * time.Second

// commitsPerPage is the page size used when listing pull request commits.
const commitsPerPage = 100

// debugLogger is a function that logs debug messages when debug mode is enabled.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for GitHub lookups.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Identity is a GitHub account as seen through a pull request or profile.
// Name and Email may be empty when the account keeps them private.
type Identity struct {
	Login string
	Name  string
	Email string
}

// Client queries one repository on GitHub.
type Client struct {
	owner   string
	repo    string
	timeout time.Duration

	c *gh.Client
}

// NewClient creates a client for owner/repo using hc for transport.
// A nil hc uses http.DefaultClient (unauthenticated, heavily rate limited).
func NewClient(hc *http.Client, owner, repo string) *Client {
	return &Client{
		owner:   owner,
		repo:    repo,
		timeout: DefaultTimeout,
		c:       gh.NewClient(hc),
	}
}

// NewTokenClient creates a client that authenticates with a static token.
// An empty token yields an unauthenticated client.
func NewTokenClient(ctx context.Context, token, owner, repo string) *Client {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(ctx, ts)
	}
	return NewClient(hc, owner, repo)
}

// SetBaseURL points the client at a different API root, such as a GitHub
// Enterprise server or a test server.
func (c *Client) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing base URL %q: %w", raw, err)
	}
	c.c.BaseURL = u
	return nil
}

// SetTimeout overrides the per-lookup timeout. Zero disables it.
func (c *Client) SetTimeout(d time.Duration) {
	c.timeout = d
}

// Repository returns the owner/repo pair the client is bound to.
func (c *Client) Repository() string {
	return c.owner + "/" + c.repo
}

// PullRequestAuthor returns the login of the user who opened pull request n.
func (c *Client) PullRequestAuthor(ctx context.Context, n int) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	logDebug("[github] GET repos/%s/%s/pulls/%d", c.owner, c.repo, n)
	pr, _, err := c.c.PullRequests.Get(ctx, c.owner, c.repo, n)
	if err != nil {
		return "", fmt.Errorf("fetching pull request #%d: %w", n, err)
	}

	login := pr.GetUser().GetLogin()
	if login == "" {
		return "", fmt.Errorf("pull request #%d has no author", n)
	}
	return login, nil
}

// User returns the public profile of login.
func (c *Client) User(ctx context.Context, login string) (Identity, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	logDebug("[github] GET users/%s", login)
	u, _, err := c.c.Users.Get(ctx, login)
	if err != nil {
		return Identity{}, fmt.Errorf("fetching user %s: %w", login, err)
	}

	return Identity{
		Login: login,
		Name:  u.GetName(),
		Email: u.GetEmail(),
	}, nil
}

// PullRequestCommitAuthors returns the author of every commit in pull
// request n, in commit order. Commits whose author has no linked GitHub
// account are omitted. The same login may appear more than once.
func (c *Client) PullRequestCommitAuthors(ctx context.Context, n int) ([]Identity, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var authors []Identity
	opts := &gh.ListOptions{PerPage: commitsPerPage}
	for {
		logDebug("[github] GET repos/%s/%s/pulls/%d/commits page=%d", c.owner, c.repo, n, opts.Page)
		commits, resp, err := c.c.PullRequests.ListCommits(ctx, c.owner, c.repo, n, opts)
		if err != nil {
			return nil, fmt.Errorf("listing commits of pull request #%d: %w", n, err)
		}

		for _, rc := range commits {
			login := rc.GetAuthor().GetLogin()
			if login == "" {
				continue
			}
			authors = append(authors, Identity{
				Login: login,
				Name:  rc.GetCommit().GetAuthor().GetName(),
				Email: rc.GetCommit().GetAuthor().GetEmail(),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return authors, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
