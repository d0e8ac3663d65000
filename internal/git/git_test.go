package git

import (
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/changeset/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_DetectsParentRepository(t *testing.T) {
	t.Parallel()

	repo := testutil.NewGitRepo(t)
	repo.WriteFile("pkg/a/pyproject.toml", "[project]\nname = \"a\"\n")
	repo.Commit("initial", testutil.Signature{})

	r, err := Open(repo.Path("pkg/a"))
	require.NoError(t, err)
	assert.Equal(t, repo.Dir, r.Root())
}

func TestOpen_NotARepository(t *testing.T) {
	t.Parallel()

	_, err := Open(t.TempDir())
	require.Error(t, err)
}

func TestOriginURL(t *testing.T) {
	t.Parallel()

	repo := testutil.NewGitRepo(t)
	repo.Commit("initial", testutil.Signature{})

	r, err := Open(repo.Dir)
	require.NoError(t, err)

	_, err = r.OriginURL()
	require.Error(t, err, "no origin configured yet")

	repo.AddRemote("origin", "git@github.com:acme/widgets.git")
	url, err := r.OriginURL()
	require.NoError(t, err)
	assert.Equal(t, "git@github.com:acme/widgets.git", url)
}

func TestHeadCommit(t *testing.T) {
	t.Parallel()

	repo := testutil.NewGitRepo(t)
	repo.Commit("one", testutil.Signature{})
	second := repo.Commit("two", testutil.Signature{})

	r, err := Open(repo.Dir)
	require.NoError(t, err)

	head, err := r.HeadCommit()
	require.NoError(t, err)
	assert.Equal(t, second, head)
}

func TestIntroducingCommit(t *testing.T) {
	t.Parallel()

	repo := testutil.NewGitRepo(t)
	repo.WriteFile("README.md", "# widgets\n")
	repo.Commit("initial", testutil.Signature{})

	alice := testutil.Signature{Name: "Alice", Email: "alice@example.com"}
	record := repo.WriteFile(".changeset/brave-otter.md", "---\n\"a\": patch\n---\n\nFix\n")
	added := repo.Commit("Add changeset (#42)\n\nCo-authored-by: Bob <bob@example.com>", alice)

	repo.WriteFile(".changeset/brave-otter.md", "---\n\"a\": minor\n---\n\nFix\n")
	repo.Commit("Tweak changeset", testutil.Signature{})

	r, err := Open(repo.Dir)
	require.NoError(t, err)

	c, err := r.IntroducingCommit(record)
	require.NoError(t, err)
	assert.Equal(t, added, c.Hash)
	assert.Equal(t, "Alice", c.AuthorName)
	assert.Equal(t, "alice@example.com", c.AuthorEmail)
	assert.Contains(t, c.Message, "(#42)")
	assert.Contains(t, c.Message, "Co-authored-by: Bob")
}

func TestIntroducingCommit_MostRecentAddWins(t *testing.T) {
	t.Parallel()

	repo := testutil.NewGitRepo(t)
	repo.WriteFile(".changeset/x.md", "first\n")
	repo.Commit("first add", testutil.Signature{})
	repo.Remove(".changeset/x.md")
	repo.Commit("remove", testutil.Signature{})
	repo.WriteFile(".changeset/x.md", "second\n")
	readded := repo.Commit("second add", testutil.Signature{})

	r, err := Open(repo.Dir)
	require.NoError(t, err)

	c, err := r.IntroducingCommit(repo.Path(".changeset/x.md"))
	require.NoError(t, err)
	assert.Equal(t, readded, c.Hash)
}

func TestIntroducingCommit_Uncommitted(t *testing.T) {
	t.Parallel()

	repo := testutil.NewGitRepo(t)
	repo.WriteFile("README.md", "# widgets\n")
	repo.Commit("initial", testutil.Signature{})
	path := repo.WriteFile(".changeset/new.md", "pending\n")

	r, err := Open(repo.Dir)
	require.NoError(t, err)

	_, err = r.IntroducingCommit(path)
	require.ErrorIs(t, err, ErrNoCommit)
}

func TestIntroducingCommit_OutsideRepository(t *testing.T) {
	t.Parallel()

	repo := testutil.NewGitRepo(t)
	repo.Commit("initial", testutil.Signature{})

	r, err := Open(repo.Dir)
	require.NoError(t, err)

	_, err = r.IntroducingCommit(filepath.Join(t.TempDir(), "elsewhere.md"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside the repository")
}

func TestSetDebugLogger(t *testing.T) {
	var lines []string
	SetDebugLogger(func(format string, args ...any) {
		lines = append(lines, format)
	})
	defer SetDebugLogger(nil)

	repo := testutil.NewGitRepo(t)
	repo.Commit("initial", testutil.Signature{})

	_, err := Open(repo.Dir)
	require.NoError(t, err)
	assert.NotEmpty(t, lines)
}
