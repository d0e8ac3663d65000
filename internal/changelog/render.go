package changelog

import (
	"strings"

	"github.com/ariel-frischer/changeset/internal/changeset"
)

// CitationFunc returns the attribution clause for one entry, or "" when
// nothing is known. The entry's own record is available through
// entry.Record, so each line can credit the change that produced it.
type CitationFunc func(entry changeset.PackageEntry) string

// RenderSection builds the section for pkg at version from its entries.
// Groups follow the fixed major, minor, patch order and entries keep their
// order within a group. A nil cite renders bare "- <description>" lines.
func RenderSection(pkg, version string, entries []changeset.PackageEntry, cite CitationFunc) Section {
	section := Section{Package: pkg, Version: version}

	for _, class := range changeset.Classes() {
		var lines []string
		for _, e := range entries {
			if e.Class != class {
				continue
			}
			citation := ""
			if cite != nil {
				citation = cite(e)
			}
			lines = append(lines, FormatLine(citation, e.Description))
		}
		if len(lines) > 0 {
			section.Groups = append(section.Groups, Group{Class: class, Lines: lines})
		}
	}

	return section
}

// FormatLine renders one changelog line: the citation, if any, followed by
// "- <description>".
func FormatLine(citation, description string) string {
	line := "- " + description
	if citation = strings.TrimSpace(citation); citation != "" {
		line = citation + " " + line
	}
	return line
}

// ReleaseDescription renders the combined pull request body for a release:
// a "# Releases" header, then one "## <package>@<version>" subsection per
// package holding that package's section body.
func ReleaseDescription(releases []PackageRelease) string {
	lines := []string{"# Releases", ""}

	for _, r := range releases {
		lines = append(lines, "## "+r.Package+"@"+r.Section.Version, "")
		if body := r.Section.Body(); body != "" {
			lines = append(lines, body, "")
		}
	}

	return strings.Join(lines, "\n")
}
