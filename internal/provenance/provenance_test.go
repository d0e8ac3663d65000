package provenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthor_Display(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		author Author
		want   string
	}{
		"username gets @":       {author: Author{Name: "alice", IsUsername: true}, want: "@alice"},
		"display name verbatim": {author: Author{Name: "Alice Smith"}, want: "Alice Smith"},
		"no double @":           {author: Author{Name: "@alice", IsUsername: true}, want: "@alice"},
		"explicit @ kept":       {author: Author{Name: "@bob"}, want: "@bob"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.author.Display())
		})
	}
}

func TestCitation(t *testing.T) {
	t.Parallel()

	const repo = "https://github.com/acme/widgets"
	hash := "abc1234def5678"

	tests := map[string]struct {
		info Info
		want string
	}{
		"empty": {
			info: Info{},
			want: "",
		},
		"links need a repo url": {
			info: Info{PRNumber: 42, CommitHash: hash},
			want: "",
		},
		"pr and commit": {
			info: Info{RepoURL: repo, PRNumber: 42, CommitHash: hash},
			want: "[#42](https://github.com/acme/widgets/pull/42) [`abc1234`](https://github.com/acme/widgets/commit/abc1234)",
		},
		"single author": {
			info: Info{RepoURL: repo, CommitHash: hash, PRAuthor: &Author{Name: "alice", IsUsername: true}},
			want: "[`abc1234`](https://github.com/acme/widgets/commit/abc1234) Thanks @alice!",
		},
		"two authors": {
			info: Info{
				PRAuthor:  &Author{Name: "alice", IsUsername: true},
				CoAuthors: []Author{{Name: "Bob Jones"}},
			},
			want: "Thanks @alice and Bob Jones!",
		},
		"three authors": {
			info: Info{
				RepoURL:   repo,
				PRNumber:  7,
				PRAuthor:  &Author{Name: "alice", IsUsername: true},
				CoAuthors: []Author{{Name: "bob", IsUsername: true}, {Name: "Carol"}},
			},
			want: "[#7](https://github.com/acme/widgets/pull/7) Thanks @alice, @bob and Carol!",
		},
		"co-authors without pr author": {
			info: Info{CoAuthors: []Author{{Name: "Carol"}}},
			want: "Thanks Carol!",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Citation(tt.info))
		})
	}
}

func TestShortHash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc1234", ShortHash("abc1234def"))
	assert.Equal(t, "abc", ShortHash("abc"))
	assert.Equal(t, "", ShortHash(""))
}

func TestEnvFromOS(t *testing.T) {
	t.Setenv(EnvPRNumber, " 42 ")
	t.Setenv(EnvPRAuthor, "alice")
	t.Setenv(EnvCommitSHA, "deadbeef")
	t.Setenv(EnvGitHubToken, "")
	t.Setenv(EnvGHToken, "gh-token")

	env := EnvFromOS()
	assert.Equal(t, Env{PRNumber: "42", PRAuthor: "alice", CommitSHA: "deadbeef", Token: "gh-token"}, env)

	t.Setenv(EnvGitHubToken, "github-token")
	assert.Equal(t, "github-token", EnvFromOS().Token)
}

func TestEnv_prNumber(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		value  string
		want   int
		wantOK bool
	}{
		"plain":    {value: "42", want: 42, wantOK: true},
		"hash":     {value: "#42", want: 42, wantOK: true},
		"empty":    {value: ""},
		"garbage":  {value: "abc"},
		"zero":     {value: "0"},
		"negative": {value: "-3"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			n, ok := Env{PRNumber: tt.value}.prNumber()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}
