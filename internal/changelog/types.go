package changelog

import (
	"errors"
	"strings"

	"github.com/ariel-frischer/changeset/internal/changeset"
	"github.com/ariel-frischer/changeset/internal/version"
)

// DefaultFileName is the changelog file kept next to each package manifest.
const DefaultFileName = "CHANGELOG.md"

// ErrVersionExists is returned by Merge when the document already has a
// section for the version being merged.
var ErrVersionExists = errors.New("changelog already contains this version")

// Group is the lines of one change class within a section.
type Group struct {
	Class changeset.ChangeClass
	Lines []string
}

// Section is one version's worth of changelog for one package.
type Section struct {
	Package string
	Version string
	Groups  []Group
}

// Header returns the section's version header line.
func (s Section) Header() string {
	return "## " + s.Version
}

// Body returns the section without its version header: one
// "### <Label>" block per group, separated by blank lines.
func (s Section) Body() string {
	var lines []string
	for _, g := range s.Groups {
		lines = append(lines, "### "+g.Class.Label(), "")
		lines = append(lines, g.Lines...)
		lines = append(lines, "")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// String renders the full section, header included, with no trailing newline.
func (s Section) String() string {
	body := s.Body()
	if body == "" {
		return s.Header()
	}
	return s.Header() + "\n\n" + body
}

// PackageRelease is a package's computed release: the bump and its section.
type PackageRelease struct {
	Package string
	Bump    version.Bump
	Section Section
}
