package changeset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Delimiter opens and closes the frontmatter block of a record.
const Delimiter = "---"

// ErrMalformedRecord is matched by every MalformedRecordError.
var ErrMalformedRecord = errors.New("malformed changeset record")

// MalformedRecordError describes why a record file could not be used.
type MalformedRecordError struct {
	Path   string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", ErrMalformedRecord, e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedRecord, e.Reason)
}

// Is lets errors.Is match ErrMalformedRecord.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// frontmatterLine matches `"<package>": <class>` after trimming.
var frontmatterLine = regexp.MustCompile(`^"(.+)":\s*(\w+)`)

// Parse reads and parses the record stored at path.
func Parse(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("reading changeset %s: %w", path, err)
	}
	return ParseBytes(recordID(path), path, data)
}

// ParseBytes parses record content. Frontmatter lines that do not hold a
// package/class pair are skipped; only a missing opening or closing delimiter,
// or a frontmatter with no usable pair at all, is an error.
func ParseBytes(id, path string, data []byte) (Record, error) {
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	if strings.TrimRight(lines[0], "\r") != Delimiter {
		return Record{}, &MalformedRecordError{Path: path, Reason: "missing opening frontmatter delimiter"}
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == Delimiter {
			end = i
			break
		}
	}
	if end < 0 {
		return Record{}, &MalformedRecordError{Path: path, Reason: "missing closing frontmatter delimiter"}
	}

	entries := parseFrontmatter(lines[1:end])
	if len(entries) == 0 {
		return Record{}, &MalformedRecordError{Path: path, Reason: "frontmatter names no packages"}
	}

	description := strings.TrimSpace(strings.Join(lines[end+1:], "\n"))

	return Record{
		ID:          id,
		Entries:     entries,
		Description: description,
		Path:        path,
	}, nil
}

// parseFrontmatter extracts package/class pairs, keeping their order.
func parseFrontmatter(lines []string) []Entry {
	var entries []Entry
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := frontmatterLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		class, err := ParseChangeClass(m[2])
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Package: m[1], Class: class})
	}
	return entries
}

// Render produces the canonical file content for a record.
func Render(entries []Entry, description string) []byte {
	var b strings.Builder
	b.WriteString(Delimiter + "\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "\"%s\": %s\n", e.Package, e.Class)
	}
	b.WriteString(Delimiter + "\n\n")
	b.WriteString(strings.TrimSpace(description))
	b.WriteString("\n")
	return []byte(b.String())
}

// recordID derives the record ID from its filename.
func recordID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
