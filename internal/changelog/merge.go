package changelog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Merge splices section into a changelog document and returns the new
// content. When exists is false, content is ignored and a document headed
// "# <pkg>" is synthesized.
//
// The section goes after the first blank line following the first "# "
// header line, or directly after the header when no blank line follows.
// A document without a header gets the section prepended. Nothing else in
// the document changes, and the inserted lines use the document's line
// ending.
func Merge(content []byte, exists bool, pkg string, section Section) ([]byte, error) {
	text := string(content)
	if !exists {
		text = "# " + pkg + "\n\n"
	}

	for _, v := range ParseVersions(text) {
		if v == section.Version {
			return nil, fmt.Errorf("%w: %s", ErrVersionExists, section.Version)
		}
	}

	// Split on "\n" only so CRLF lines keep their "\r" and rejoin unchanged.
	cr := ""
	if lineEnding(text) == "\r\n" {
		cr = "\r"
	}
	rendered := strings.ReplaceAll(section.String(), "\n", cr+"\n")
	lines := strings.Split(text, "\n")

	at := splicePoint(lines)
	if at < 0 {
		return []byte(rendered + cr + "\n" + cr + "\n" + text), nil
	}

	merged := make([]string, 0, len(lines)+2)
	merged = append(merged, lines[:at]...)
	merged = append(merged, rendered+cr, cr)
	merged = append(merged, lines[at:]...)
	return []byte(strings.Join(merged, "\n")), nil
}

// lineEnding reports the line terminator of the first line of text,
// defaulting to "\n".
func lineEnding(text string) string {
	if i := strings.IndexByte(text, '\n'); i > 0 && text[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// splicePoint returns the line index a new section is inserted at, or -1
// when the document has no top-level header.
func splicePoint(lines []string) int {
	for i, line := range lines {
		if !strings.HasPrefix(line, "# ") {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "" {
				return j + 1
			}
		}
		return i + 1
	}
	return -1
}

// MergeFile merges section into the changelog at path, creating the file
// when it does not exist.
func MergeFile(path, pkg string, section Section) error {
	content, err := os.ReadFile(path)
	exists := true
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading changelog %s: %w", path, err)
		}
		exists = false
	}

	merged, err := Merge(content, exists, pkg, section)
	if err != nil {
		return fmt.Errorf("merging into %s: %w", path, err)
	}

	if err := os.WriteFile(path, merged, 0o644); err != nil {
		return fmt.Errorf("writing changelog %s: %w", path, err)
	}
	return nil
}

// ParseVersions lists the "## <version>" headers of a changelog document in
// document order.
func ParseVersions(content string) []string {
	var versions []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if v, ok := strings.CutPrefix(line, "## "); ok {
			if v = strings.TrimSpace(v); v != "" {
				versions = append(versions, v)
			}
		}
	}
	return versions
}
