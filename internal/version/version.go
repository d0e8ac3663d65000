// Package version resolves the next semantic version of a package from the
// change classes recorded against it. Only plain MAJOR.MINOR.PATCH versions
// are supported; pre-release and build metadata are rejected.
package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ariel-frischer/changeset/internal/changeset"
)

// ErrInvalidVersion is matched by every InvalidVersionError.
var ErrInvalidVersion = errors.New("invalid version")

// InvalidVersionError reports a version string that is not MAJOR.MINOR.PATCH.
type InvalidVersionError struct {
	Value string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("%s %q (expected: MAJOR.MINOR.PATCH)", ErrInvalidVersion, e.Value)
}

// Is lets errors.Is match ErrInvalidVersion.
func (e *InvalidVersionError) Is(target error) bool {
	return target == ErrInvalidVersion
}

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// Version is a semantic version triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse parses a MAJOR.MINOR.PATCH string.
func Parse(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Version{}, &InvalidVersionError{Value: s}
	}

	var parts [3]int
	for i := range parts {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Version{}, &InvalidVersionError{Value: s}
		}
		parts[i] = n
	}

	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

// String formats the version as MAJOR.MINOR.PATCH.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Bump returns the version that follows v for a change of the given class.
func (v Version) Bump(class changeset.ChangeClass) Version {
	switch class {
	case changeset.Major:
		return Version{Major: v.Major + 1}
	case changeset.Minor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}

// BumpString parses current and bumps it by class.
func BumpString(current string, class changeset.ChangeClass) (string, error) {
	v, err := Parse(current)
	if err != nil {
		return "", err
	}
	return v.Bump(class).String(), nil
}

// DominantClass picks the most disruptive class present: any major wins,
// then any minor, and everything else is a patch.
func DominantClass(classes []changeset.ChangeClass) changeset.ChangeClass {
	hasMinor := false
	for _, c := range classes {
		switch c {
		case changeset.Major:
			return changeset.Major
		case changeset.Minor:
			hasMinor = true
		}
	}
	if hasMinor {
		return changeset.Minor
	}
	return changeset.Patch
}

// Bump describes a resolved version change for one package.
type Bump struct {
	Current Version
	Next    Version
	Class   changeset.ChangeClass
}

// Resolve computes the bump for a package at version current with the given
// pending change classes.
func Resolve(current Version, classes []changeset.ChangeClass) Bump {
	class := DominantClass(classes)
	return Bump{
		Current: current,
		Next:    current.Bump(class),
		Class:   class,
	}
}

// String renders the bump as "1.2.3 → 1.3.0 (minor)".
func (b Bump) String() string {
	return fmt.Sprintf("%s → %s (%s)", b.Current, b.Next, b.Class)
}
