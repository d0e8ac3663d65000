package changeset

import (
	"fmt"
	"strings"
)

// ChangeClass is the semantic-versioning impact of a change.
type ChangeClass string

const (
	Major ChangeClass = "major"
	Minor ChangeClass = "minor"
	Patch ChangeClass = "patch"
)

// Classes returns every change class in rendering order, most disruptive first.
func Classes() []ChangeClass {
	return []ChangeClass{Major, Minor, Patch}
}

// ParseChangeClass converts a frontmatter value into a ChangeClass.
func ParseChangeClass(s string) (ChangeClass, error) {
	switch c := ChangeClass(strings.ToLower(strings.TrimSpace(s))); c {
	case Major, Minor, Patch:
		return c, nil
	default:
		return "", fmt.Errorf("unknown change class %q (expected: major, minor, patch)", s)
	}
}

// Label returns the changelog subsection title for the class.
func (c ChangeClass) Label() string {
	switch c {
	case Major:
		return "Major Changes"
	case Minor:
		return "Minor Changes"
	case Patch:
		return "Patch Changes"
	default:
		return capitalizeFirst(string(c)) + " Changes"
	}
}

// Entry pairs a package with the change class a record assigns to it.
type Entry struct {
	Package string
	Class   ChangeClass
}

// Record is a parsed changeset file. Records are never mutated in place;
// they are written once and later archived.
type Record struct {
	// ID is the filename without the .md extension.
	ID string
	// Entries lists the packages the record targets, in frontmatter order.
	Entries []Entry
	// Description is shared verbatim by every entry.
	Description string
	// Path is where the record lives on disk.
	Path string
}

// PackageEntry is one changelog-worthy change to a package.
type PackageEntry struct {
	Class       ChangeClass
	Description string
	Record      *Record
}

// PackageChanges collects every pending change for a single package.
type PackageChanges struct {
	Package string
	Entries []PackageEntry
}

// Classes returns the change classes of all entries, one per entry.
func (p PackageChanges) Classes() []ChangeClass {
	classes := make([]ChangeClass, len(p.Entries))
	for i, e := range p.Entries {
		classes[i] = e.Class
	}
	return classes
}

// Records returns the distinct records contributing to the package, in entry order.
func (p PackageChanges) Records() []*Record {
	seen := make(map[string]bool)
	var records []*Record
	for _, e := range p.Entries {
		if e.Record == nil || seen[e.Record.Path] {
			continue
		}
		seen[e.Record.Path] = true
		records = append(records, e.Record)
	}
	return records
}

// Group builds one PackageChanges per package. Packages appear in the order
// they are first seen; entries keep the order of the records slice.
func Group(records []Record) []PackageChanges {
	index := make(map[string]int)
	var groups []PackageChanges

	for i := range records {
		rec := &records[i]
		for _, e := range rec.Entries {
			pos, ok := index[e.Package]
			if !ok {
				pos = len(groups)
				index[e.Package] = pos
				groups = append(groups, PackageChanges{Package: e.Package})
			}
			groups[pos].Entries = append(groups[pos].Entries, PackageEntry{
				Class:       e.Class,
				Description: rec.Description,
				Record:      rec,
			})
		}
	}

	return groups
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
