package config

import (
	"path/filepath"

	"github.com/ariel-frischer/changeset/internal/changeset"
)

// DefaultDir is the record directory used when the command line names none.
const DefaultDir = ".changeset"

// File names inside the record directory.
const (
	ConfigJSONFile  = "config.json"
	ConfigYAMLFile  = "config.yml"
	HistoryFileName = "history.yaml"
)

// Paths locates everything a run reads and writes. It is built once at the
// command line boundary and passed to each component.
type Paths struct {
	// Root is the project root manifests are discovered under.
	Root string
	// Dir is the record directory holding pending changesets and config.
	Dir string
}

// NewPaths builds Paths for a project rooted at root. A relative dir is
// resolved against root; an empty dir means DefaultDir.
func NewPaths(root, dir string) Paths {
	if dir == "" {
		dir = DefaultDir
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return Paths{Root: root, Dir: dir}
}

// ConfigJSON returns the path of the JSON project config.
func (p Paths) ConfigJSON() string {
	return filepath.Join(p.Dir, ConfigJSONFile)
}

// ConfigYAML returns the path of the YAML project config.
func (p Paths) ConfigYAML() string {
	return filepath.Join(p.Dir, ConfigYAMLFile)
}

// ArchiveDir returns the directory consumed records are moved under.
func (p Paths) ArchiveDir() string {
	return filepath.Join(p.Dir, changeset.ArchiveDirName)
}

// HistoryFile returns the release history log path.
func (p Paths) HistoryFile() string {
	return filepath.Join(p.Dir, HistoryFileName)
}
