package changeset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStore_List(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "b-record.md", "---\n\"pkg-a\": minor\n---\n\nSecond.\n")
	writeFile(t, dir, "a-record.md", "---\n\"pkg-a\": patch\n---\n\nFirst.\n")
	writeFile(t, dir, "broken.md", "---\n\"pkg-a\": patch\n\nno closing delimiter\n")
	writeFile(t, dir, ReadmeFile, "# Changesets\n")
	writeFile(t, dir, "config.json", "{}")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ArchiveDirName), 0o755))

	records, warnings, err := NewStore(dir).List()
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "a-record", records[0].ID)
	assert.Equal(t, "b-record", records[1].ID)

	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], ErrMalformedRecord)
	assert.Contains(t, warnings[0].Error(), "broken.md")
}

func TestStore_List_MissingDir(t *testing.T) {
	t.Parallel()

	records, warnings, err := NewStore(filepath.Join(t.TempDir(), "nope")).List()
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, warnings)
}

func TestStore_Write(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), ".changeset")
	store := NewStore(dir)
	store.slug = func() string { return "fixed-slug-name" }

	entries := []Entry{{Package: "pkg-a", Class: Minor}}
	rec, err := store.Write(entries, "Add thing.")
	require.NoError(t, err)
	assert.Equal(t, "fixed-slug-name", rec.ID)
	assert.Equal(t, filepath.Join(dir, "fixed-slug-name.md"), rec.Path)

	parsed, err := Parse(rec.Path)
	require.NoError(t, err)
	assert.Equal(t, entries, parsed.Entries)
	assert.Equal(t, "Add thing.", parsed.Description)
}

func TestStore_Write_FallbackSlug(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "taken.md", "---\n\"pkg\": patch\n---\nx\n")

	store := NewStore(dir)
	store.slug = func() string { return "taken" }
	store.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC) }

	rec, err := store.Write([]Entry{{Package: "pkg", Class: Patch}}, "x")
	require.NoError(t, err)
	assert.Regexp(t, `^changeset-20240301123045-[0-9a-f]{6}$`, rec.ID)
}

func TestStore_Write_Validation(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	_, err := store.Write(nil, "desc")
	assert.Error(t, err)

	_, err = store.Write([]Entry{{Package: "pkg", Class: Patch}}, "   ")
	assert.Error(t, err)
}

func TestStore_Archive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p1 := writeFile(t, dir, "one.md", "---\n\"pkg\": patch\n---\nx\n")
	p2 := writeFile(t, dir, "two.md", "---\n\"pkg\": minor\n---\ny\n")

	store := NewStore(dir)
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	records := []Record{{ID: "one", Path: p1}, {ID: "two", Path: p2}, {ID: "one", Path: p1}}

	archiveDir, err := store.Archive(records, at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "archive", "20240506_070809"), archiveDir)

	assert.NoFileExists(t, p1)
	assert.NoFileExists(t, p2)
	assert.FileExists(t, filepath.Join(archiveDir, "one.md"))
	assert.FileExists(t, filepath.Join(archiveDir, "two.md"))

	// Archived records are no longer listed.
	remaining, _, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestStore_Archive_ContinuesPastFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := writeFile(t, dir, "present.md", "---\n\"pkg\": patch\n---\nx\n")
	missing := filepath.Join(dir, "missing.md")

	archiveDir, err := NewStore(dir).Archive([]Record{{Path: missing}, {Path: p}}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.md")
	assert.FileExists(t, filepath.Join(archiveDir, "present.md"))
}
