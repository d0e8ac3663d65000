package provenance

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// prNumberPattern matches "(#123)" squash titles and "Merge pull request #123".
	prNumberPattern = regexp.MustCompile(`(?:#|pull request #)(\d+)`)

	coAuthorPattern = regexp.MustCompile(`^Co-authored-by:\s*(.+?)\s*<(.+?)>$`)

	githubRemotePattern = regexp.MustCompile(`github\.com[:/]([^/]+)/([^/]+?)(?:\.git)?$`)
)

// Trailer is a Co-authored-by trailer from a commit message.
type Trailer struct {
	Name  string
	Email string
}

// ExtractPRNumber returns the first usable pull request number referenced in
// a commit message. References to #0 or numbers that overflow int are passed
// over.
func ExtractPRNumber(message string) (int, bool) {
	for _, m := range prNumberPattern.FindAllStringSubmatch(message, -1) {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

// ParseCoAuthorTrailers returns every Co-authored-by trailer in message,
// in order of appearance.
func ParseCoAuthorTrailers(message string) []Trailer {
	var trailers []Trailer
	for _, line := range strings.Split(message, "\n") {
		m := coAuthorPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		trailers = append(trailers, Trailer{Name: name, Email: strings.TrimSpace(m[2])})
	}
	return trailers
}

// RepoURLFromRemote extracts owner and repository from a GitHub remote URL
// (https or ssh form) and returns the canonical web URL for it.
func RepoURLFromRemote(remote string) (owner, repo, url string, ok bool) {
	m := githubRemotePattern.FindStringSubmatch(strings.TrimSpace(remote))
	if m == nil {
		return "", "", "", false
	}
	owner, repo = m[1], m[2]
	return owner, repo, "https://github.com/" + owner + "/" + repo, true
}
