package provenance

import (
	"github.com/ariel-frischer/changeset/internal/github"
)

// CandidateSource says where a co-author candidate came from, and with it how
// much the name can be trusted.
type CandidateSource int

const (
	// SourceRemoteCommit is an author of a commit in the pull request with a
	// linked GitHub account. The name is a confirmed login.
	SourceRemoteCommit CandidateSource = iota
	// SourceTrailer is a Co-authored-by trailer. The name is free text.
	SourceTrailer
)

// Candidate is a possible co-author before deduplication.
type Candidate struct {
	Author
	Email    string
	Source   CandidateSource
	Identity *github.Identity
}

// collectCandidates gathers every possible co-author into one list: remote
// commit authors first, then commit message trailers.
func collectCandidates(remote []github.Identity, trailers []Trailer) []Candidate {
	candidates := make([]Candidate, 0, len(remote)+len(trailers))
	for i := range remote {
		id := remote[i]
		candidates = append(candidates, Candidate{
			Author:   Author{Name: id.Login, IsUsername: true},
			Email:    id.Email,
			Source:   SourceRemoteCommit,
			Identity: &id,
		})
	}
	for _, t := range trailers {
		candidates = append(candidates, Candidate{
			Author: Author{Name: t.Name},
			Email:  t.Email,
			Source: SourceTrailer,
		})
	}
	return candidates
}

// dedupe reduces candidates to the final co-author list. Remote candidates
// other than the PR author are kept once per login, in first-seen order.
// A trailer survives only if it is neither the PR author (by name, or by the
// email or name on the PR author's profile) nor any remote candidate (by
// email or name). Repeated trailers collapse to the first.
func dedupe(prAuthor *Author, profile lookup[github.Identity], candidates []Candidate) []Author {
	var remote []Candidate
	for _, c := range candidates {
		if c.Source == SourceRemoteCommit {
			remote = append(remote, c)
		}
	}

	var result []Author
	seen := make(map[string]bool)
	for _, c := range remote {
		if isPRAuthorLogin(prAuthor, c.Name) || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		result = append(result, c.Author)
	}

	seenTrailer := make(map[string]bool)
	for _, c := range candidates {
		if c.Source != SourceTrailer || seenTrailer[c.Name] {
			continue
		}
		if isPRAuthor(prAuthor, profile, c) || matchesRemote(remote, c) {
			continue
		}
		seenTrailer[c.Name] = true
		result = append(result, c.Author)
	}

	return result
}

func isPRAuthorLogin(prAuthor *Author, login string) bool {
	return prAuthor != nil && prAuthor.IsUsername && prAuthor.Name == login
}

func isPRAuthor(prAuthor *Author, profile lookup[github.Identity], c Candidate) bool {
	if prAuthor != nil && c.Name == prAuthor.Name {
		return true
	}
	if !profile.ok {
		return false
	}
	return sameNonEmpty(c.Email, profile.value.Email) || sameNonEmpty(c.Name, profile.value.Name)
}

func matchesRemote(remote []Candidate, c Candidate) bool {
	for _, r := range remote {
		if sameNonEmpty(c.Email, r.Identity.Email) || sameNonEmpty(c.Name, r.Identity.Name) {
			return true
		}
	}
	return false
}

func sameNonEmpty(a, b string) bool {
	return a != "" && a == b
}
