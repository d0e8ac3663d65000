package changelog

import (
	"testing"

	"github.com/ariel-frischer/changeset/internal/changeset"
	"github.com/ariel-frischer/changeset/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSection_MinorBeforePatch(t *testing.T) {
	t.Parallel()

	records := []changeset.Record{
		{ID: "a", Path: "a.md", Description: "Fix crash", Entries: []changeset.Entry{{Package: "pkg-a", Class: changeset.Patch}}},
		{ID: "b", Path: "b.md", Description: "Add feature", Entries: []changeset.Entry{{Package: "pkg-a", Class: changeset.Minor}}},
	}
	groups := changeset.Group(records)
	require.Len(t, groups, 1)

	bump := version.Resolve(version.Version{Major: 1, Minor: 2, Patch: 3}, groups[0].Classes())
	assert.Equal(t, changeset.Minor, bump.Class)

	section := RenderSection("pkg-a", bump.Next.String(), groups[0].Entries, nil)
	assert.Equal(t, "## 1.3.0\n\n### Minor Changes\n\n- Add feature\n\n### Patch Changes\n\n- Fix crash", section.String())
}

func TestRenderSection_PerEntryCitation(t *testing.T) {
	t.Parallel()

	records := []changeset.Record{
		{ID: "one", Path: "one.md", Description: "First", Entries: []changeset.Entry{{Package: "pkg", Class: changeset.Patch}}},
		{ID: "two", Path: "two.md", Description: "Second", Entries: []changeset.Entry{{Package: "pkg", Class: changeset.Patch}}},
	}
	entries := changeset.Group(records)[0].Entries

	cite := func(e changeset.PackageEntry) string {
		if e.Record.ID == "one" {
			return "Thanks @alice!"
		}
		return ""
	}

	section := RenderSection("pkg", "0.0.2", entries, cite)
	require.Len(t, section.Groups, 1)
	assert.Equal(t, []string{"Thanks @alice! - First", "- Second"}, section.Groups[0].Lines)
}

func TestSection_String(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		section Section
		want    string
	}{
		"all classes": {
			section: Section{Version: "2.0.0", Groups: []Group{
				{Class: changeset.Major, Lines: []string{"- Break"}},
				{Class: changeset.Minor, Lines: []string{"- Add", "- Add more"}},
				{Class: changeset.Patch, Lines: []string{"- Fix"}},
			}},
			want: "## 2.0.0\n\n### Major Changes\n\n- Break\n\n### Minor Changes\n\n- Add\n- Add more\n\n### Patch Changes\n\n- Fix",
		},
		"no groups": {
			section: Section{Version: "1.0.0"},
			want:    "## 1.0.0",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.section.String())
		})
	}
}

func TestFormatLine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "- Fix", FormatLine("", "Fix"))
	assert.Equal(t, "- Fix", FormatLine("  ", "Fix"))
	assert.Equal(t, "[#1](u/pull/1) - Fix", FormatLine("[#1](u/pull/1)", "Fix"))
}

func TestReleaseDescription(t *testing.T) {
	t.Parallel()

	releases := []PackageRelease{
		{Package: "pkg-a", Section: Section{Version: "1.3.0", Groups: []Group{{Class: changeset.Minor, Lines: []string{"- Add"}}}}},
		{Package: "pkg-b", Section: Section{Version: "0.1.1", Groups: []Group{{Class: changeset.Patch, Lines: []string{"- Fix"}}}}},
	}

	want := "# Releases\n\n" +
		"## pkg-a@1.3.0\n\n### Minor Changes\n\n- Add\n\n" +
		"## pkg-b@0.1.1\n\n### Patch Changes\n\n- Fix\n"
	assert.Equal(t, want, ReleaseDescription(releases))
	assert.Equal(t, "# Releases\n", ReleaseDescription(nil))
}
