package history

import (
	"fmt"
	"io"
	"os"
)

// Writer appends release runs to the history file with automatic pruning.
type Writer struct {
	// Path is the history file.
	Path string
	// MaxEntries is the maximum number of entries to retain (0 = unlimited).
	MaxEntries int
	// ErrOut receives warnings when logging fails (default: os.Stderr).
	ErrOut io.Writer
}

// NewWriter creates a new history writer.
func NewWriter(path string, maxEntries int) *Writer {
	return &Writer{
		Path:       path,
		MaxEntries: maxEntries,
	}
}

// LogEntry adds a new entry to the history file.
// It loads the existing history, appends the new entry, prunes if needed, and saves.
// Errors are non-fatal: they are reported as warnings and don't fail the release.
func (w *Writer) LogEntry(entry HistoryEntry) {
	if err := w.Append(entry); err != nil {
		out := w.ErrOut
		if out == nil {
			out = os.Stderr
		}
		fmt.Fprintf(out, "Warning: failed to log history: %v\n", err)
	}
}

// Append adds entry to the history file and prunes the oldest entries
// beyond MaxEntries.
func (w *Writer) Append(entry HistoryEntry) error {
	history, err := LoadHistory(w.Path)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	history.Entries = append(history.Entries, entry)

	// Prune oldest entries if over limit
	if w.MaxEntries > 0 && len(history.Entries) > w.MaxEntries {
		excess := len(history.Entries) - w.MaxEntries
		history.Entries = history.Entries[excess:]
	}

	if err := SaveHistory(w.Path, history); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}

	return nil
}
