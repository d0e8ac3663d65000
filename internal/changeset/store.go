package changeset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ReadmeFile is the documentation file kept in the changeset directory.
// It is never treated as a record.
const ReadmeFile = "README.md"

// ArchiveDirName is the subdirectory consumed records are moved into.
const ArchiveDirName = "archive"

// ArchiveTimestampFormat names each run's archive directory.
const ArchiveTimestampFormat = "20060102_150405"

// Store reads, writes and archives the records of one changeset directory.
type Store struct {
	// Dir is the changeset directory (e.g., .changeset).
	Dir string

	// slug generates candidate record names; defaults to randomSlug.
	slug func() string
	// now is used by the fallback slug; defaults to time.Now.
	now func() time.Time
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// List parses every pending record in the directory, sorted by filename.
// Malformed records are excluded and reported in the returned warnings;
// they never make List fail. The error is non-nil only when the directory
// itself cannot be read.
func (s *Store) List() ([]Record, []error, error) {
	dirEntries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading changeset directory %s: %w", s.Dir, err)
	}

	var names []string
	for _, de := range dirEntries {
		if de.IsDir() || de.Name() == ReadmeFile || filepath.Ext(de.Name()) != ".md" {
			continue
		}
		names = append(names, de.Name())
	}
	sort.Strings(names)

	var (
		records  []Record
		warnings []error
	)
	for _, name := range names {
		rec, err := Parse(filepath.Join(s.Dir, name))
		if err != nil {
			warnings = append(warnings, err)
			continue
		}
		records = append(records, rec)
	}

	return records, warnings, nil
}

// Write creates a new record file under a freshly generated unique name.
func (s *Store) Write(entries []Entry, description string) (Record, error) {
	if len(entries) == 0 {
		return Record{}, fmt.Errorf("a changeset must name at least one package")
	}
	if strings.TrimSpace(description) == "" {
		return Record{}, fmt.Errorf("a changeset description cannot be empty")
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return Record{}, fmt.Errorf("creating changeset directory: %w", err)
	}

	id := s.uniqueID()
	path := filepath.Join(s.Dir, id+".md")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Record{}, fmt.Errorf("creating changeset %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(Render(entries, description)); err != nil {
		return Record{}, fmt.Errorf("writing changeset %s: %w", path, err)
	}

	return Record{
		ID:          id,
		Entries:     entries,
		Description: strings.TrimSpace(description),
		Path:        path,
	}, nil
}

// Archive moves the record files into <Dir>/archive/<timestamp>/ and returns
// that directory. Files are moved, never deleted. A failure on one record
// does not stop the others; all failures are joined into the returned error.
func (s *Store) Archive(records []Record, at time.Time) (string, error) {
	archiveDir := filepath.Join(s.Dir, ArchiveDirName, at.Format(ArchiveTimestampFormat))
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("creating archive directory: %w", err)
	}

	var errs []error
	seen := make(map[string]bool)
	for _, rec := range records {
		if seen[rec.Path] {
			continue
		}
		seen[rec.Path] = true

		dest := filepath.Join(archiveDir, filepath.Base(rec.Path))
		if err := os.Rename(rec.Path, dest); err != nil {
			errs = append(errs, fmt.Errorf("archiving %s: %w", rec.Path, err))
		}
	}

	return archiveDir, errors.Join(errs...)
}

// ArchiveDir returns the directory holding all archived runs.
func (s *Store) ArchiveDir() string {
	return filepath.Join(s.Dir, ArchiveDirName)
}
