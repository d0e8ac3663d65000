// Package manifest locates package manifests (pyproject.toml by default) and
// reads or updates their project.name and project.version fields. The
// manifest format is treated as a key-value contract: only the version line of
// the [project] table is ever rewritten, every other byte is preserved.
package manifest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the manifest file looked up in each package directory.
const DefaultFileName = "pyproject.toml"

// DefaultVersion is reported when a manifest declares no project.version.
const DefaultVersion = "0.0.0"

// ErrManifestNotFound is returned when no manifest declares the requested package.
var ErrManifestNotFound = errors.New("manifest not found")

// skipDirs are directory names never descended into during discovery.
var skipDirs = map[string]bool{
	"venv":         true,
	"env":          true,
	"build":        true,
	"dist":         true,
	"__pycache__":  true,
	"node_modules": true,
}

// Manifest is the subset of a package manifest the release pipeline uses.
type Manifest struct {
	Path    string
	Name    string
	Version string
	// HasProject reports whether the manifest has a [project] table.
	// SetVersion can only write manifests that do.
	HasProject bool
}

// Dir returns the package directory containing the manifest.
func (m Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

type projectTable struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

type pyproject struct {
	Project *projectTable `toml:"project"`
}

// Read parses the manifest at path. A manifest without project.name is
// named after its directory; one without project.version reports DefaultVersion.
func Read(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var doc pyproject
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Manifest{}, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	m := Manifest{Path: path}
	if doc.Project != nil {
		m.HasProject = true
		m.Name = doc.Project.Name
		m.Version = doc.Project.Version
	}
	if m.Name == "" {
		m.Name = filepath.Base(filepath.Dir(path))
	}
	if m.Version == "" {
		m.Version = DefaultVersion
	}
	return m, nil
}

// Finder discovers manifests below a root directory.
type Finder struct {
	Root     string
	FileName string
}

// NewFinder creates a finder for fileName manifests below root.
func NewFinder(root, fileName string) *Finder {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return &Finder{Root: root, FileName: fileName}
}

// Discover returns every readable manifest below Root, sorted by path.
// Hidden directories and common build/environment directories are skipped.
// Manifests that fail to parse are ignored.
func (f *Finder) Discover() ([]Manifest, error) {
	var paths []string

	err := filepath.WalkDir(f.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != f.Root && (strings.HasPrefix(d.Name(), ".") || skipDirs[d.Name()]) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == f.FileName {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning for %s: %w", f.FileName, err)
	}

	sort.Strings(paths)

	manifests := make([]Manifest, 0, len(paths))
	for _, p := range paths {
		m, err := Read(p)
		if err != nil {
			continue
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}

// Find returns the manifest whose project.name equals pkg.
func (f *Finder) Find(pkg string) (Manifest, error) {
	manifests, err := f.Discover()
	if err != nil {
		return Manifest{}, err
	}
	for _, m := range manifests {
		if m.Name == pkg {
			return m, nil
		}
	}
	return Manifest{}, fmt.Errorf("%w: no %s declares package %q", ErrManifestNotFound, f.FileName, pkg)
}

var (
	tableHeader = regexp.MustCompile(`^\s*\[\[?\s*([^\]]+?)\s*\]\]?\s*(#.*)?$`)
	versionKey  = regexp.MustCompile(`^(\s*version\s*=\s*)(["'])([^"']*)(["'])(.*)$`)
	nameKey     = regexp.MustCompile(`^\s*name\s*=`)
)

// ErrNoProjectTable is returned by SetVersion for a manifest without a
// [project] table.
var ErrNoProjectTable = errors.New("no [project] table")

// SetVersion rewrites project.version in the manifest at path to v.
// Only the matching line of the [project] table changes. A [project] table
// without a version gets one, right after its name line.
func SetVersion(path, v string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading manifest %s: %w", path, err)
	}

	updated, err := replaceProjectVersion(data, v)
	if err != nil {
		return fmt.Errorf("updating %s: %w", path, err)
	}

	// Guard against producing a manifest the parser rejects.
	var doc pyproject
	if err := toml.Unmarshal(updated, &doc); err != nil {
		return fmt.Errorf("updated manifest %s no longer parses: %w", path, err)
	}
	if doc.Project == nil || doc.Project.Version != v {
		return fmt.Errorf("updated manifest %s does not report version %q", path, v)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat manifest %s: %w", path, err)
	}
	return os.WriteFile(path, updated, info.Mode().Perm())
}

// replaceProjectVersion edits the version line in the [project] table, or
// inserts one when the table has none.
func replaceProjectVersion(data []byte, v string) ([]byte, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanLinesKeepEnding)

	var lines []string
	inProject := false
	replaced := false
	insertAt := -1
	for scanner.Scan() {
		line := scanner.Text()
		body := strings.TrimRight(line, "\r\n")
		ending := line[len(body):]

		if m := tableHeader.FindStringSubmatch(body); m != nil {
			inProject = m[1] == "project"
			if inProject && insertAt < 0 {
				insertAt = len(lines) + 1
			}
		} else if inProject && !replaced {
			if m := versionKey.FindStringSubmatch(body); m != nil {
				body = m[1] + m[2] + v + m[4] + m[5]
				replaced = true
			} else if nameKey.MatchString(body) {
				insertAt = len(lines) + 1
			}
		}

		lines = append(lines, body+ending)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if !replaced {
		if insertAt < 0 {
			return nil, ErrNoProjectTable
		}
		prev := lines[insertAt-1]
		ending := prev[len(strings.TrimRight(prev, "\r\n")):]
		if ending == "" {
			ending = "\n"
			lines[insertAt-1] = prev + ending
		}
		inserted := fmt.Sprintf("version = %q%s", v, ending)
		lines = append(lines[:insertAt], append([]string{inserted}, lines[insertAt:]...)...)
	}

	return []byte(strings.Join(lines, "")), nil
}

// scanLinesKeepEnding is bufio.ScanLines without stripping line terminators.
func scanLinesKeepEnding(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
