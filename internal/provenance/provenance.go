// Package provenance works out who and what a changelog entry should credit:
// the pull request, the commit and the people involved. It combines local git
// history, optional GitHub lookups and CI environment overrides, and always
// produces a usable (possibly empty) result rather than an error.
package provenance

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ShortHashLen is the number of hash characters shown in citations.
const ShortHashLen = 7

// Environment variables consulted for run-level overrides.
const (
	EnvPRNumber    = "PR_NUMBER"
	EnvPRAuthor    = "PR_AUTHOR"
	EnvCommitSHA   = "COMMIT_SHA"
	EnvGitHubToken = "GITHUB_TOKEN"
	EnvGHToken     = "GH_TOKEN"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for provenance resolution.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Author is a person to thank. IsUsername is true only when the name is a
// confirmed GitHub login, in which case it is rendered with a leading @.
type Author struct {
	Name       string
	IsUsername bool
}

// Display renders the author for a thanks clause.
func (a Author) Display() string {
	if strings.HasPrefix(a.Name, "@") {
		return a.Name
	}
	if a.IsUsername {
		return "@" + a.Name
	}
	return a.Name
}

// Info is the attribution attached to one changelog entry. Zero fields are
// simply omitted when rendering.
type Info struct {
	CommitHash string
	RepoURL    string
	PRNumber   int
	PRAuthor   *Author
	CoAuthors  []Author
}

// Env holds the CI overrides read from the process environment.
type Env struct {
	PRNumber  string
	PRAuthor  string
	CommitSHA string
	Token     string
}

// EnvFromOS reads Env from the current process environment.
// GITHUB_TOKEN takes precedence over GH_TOKEN.
func EnvFromOS() Env {
	token := os.Getenv(EnvGitHubToken)
	if token == "" {
		token = os.Getenv(EnvGHToken)
	}
	return Env{
		PRNumber:  strings.TrimSpace(os.Getenv(EnvPRNumber)),
		PRAuthor:  strings.TrimSpace(os.Getenv(EnvPRAuthor)),
		CommitSHA: strings.TrimSpace(os.Getenv(EnvCommitSHA)),
		Token:     token,
	}
}

// prNumber parses the PR_NUMBER override, accepting an optional leading #.
func (e Env) prNumber() (int, bool) {
	s := strings.TrimPrefix(e.PRNumber, "#")
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		logDebug("[provenance] ignoring invalid %s=%q", EnvPRNumber, e.PRNumber)
		return 0, false
	}
	return n, true
}

// ShortHash returns the first ShortHashLen characters of a commit hash.
func ShortHash(hash string) string {
	if len(hash) <= ShortHashLen {
		return hash
	}
	return hash[:ShortHashLen]
}

// Citation renders the one-line attribution clause for info, for example
//
//	[#42](https://github.com/acme/widgets/pull/42) [`abc1234`](https://github.com/acme/widgets/commit/abc1234) Thanks @alice!
//
// Links need a repository URL; an empty Info renders as "".
func Citation(info Info) string {
	var parts []string

	if info.PRNumber > 0 && info.RepoURL != "" {
		parts = append(parts, fmt.Sprintf("[#%d](%s/pull/%d)", info.PRNumber, info.RepoURL, info.PRNumber))
	}

	if short := ShortHash(info.CommitHash); short != "" && info.RepoURL != "" {
		parts = append(parts, fmt.Sprintf("[`%s`](%s/commit/%s)", short, info.RepoURL, short))
	}

	var names []string
	if info.PRAuthor != nil && info.PRAuthor.Name != "" {
		names = append(names, info.PRAuthor.Display())
	}
	for _, a := range info.CoAuthors {
		if a.Name != "" {
			names = append(names, a.Display())
		}
	}
	if thanks := thanksClause(names); thanks != "" {
		parts = append(parts, thanks)
	}

	return strings.Join(parts, " ")
}

func thanksClause(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return "Thanks " + names[0] + "!"
	default:
		return "Thanks " + strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1] + "!"
	}
}
