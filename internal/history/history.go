// Package history keeps a log of applied releases in .changeset/history.yaml,
// recording which versions each run produced and which records it archived.
package history

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// HistoryFile is the on-disk history document.
type HistoryFile struct {
	Entries []HistoryEntry `yaml:"entries"`
}

// HistoryEntry records one applied release run.
type HistoryEntry struct {
	Timestamp  time.Time        `yaml:"timestamp"`
	Packages   []PackageVersion `yaml:"packages"`
	Records    []string         `yaml:"records,omitempty"`
	ArchiveDir string           `yaml:"archive_dir,omitempty"`
}

// PackageVersion is one package's bump within a run.
type PackageVersion struct {
	Name  string `yaml:"name"`
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Class string `yaml:"class"`
}

// LoadHistory reads the history at path. A missing file yields an empty history.
func LoadHistory(path string) (*HistoryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &HistoryFile{}, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var history HistoryFile
	if err := yaml.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parsing history file %s: %w", path, err)
	}
	return &history, nil
}

// SaveHistory writes history to path, replacing the file atomically.
func SaveHistory(path string, history *HistoryFile) error {
	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".history-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp history file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp history file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting history file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing history file: %w", err)
	}
	return nil
}
