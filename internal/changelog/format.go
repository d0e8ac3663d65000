package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ariel-frischer/changeset/internal/changeset"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// maxSeparatorWidth caps separator lines on very wide terminals.
const maxSeparatorWidth = 100

// ClassStyle defines the color and icon for a change class.
type ClassStyle struct {
	Color *color.Color
	Icon  string
}

// classStyles maps change classes to their terminal styling.
var classStyles = map[changeset.ChangeClass]ClassStyle{
	changeset.Major: {Color: color.New(color.FgRed, color.Bold), Icon: "💥"},
	changeset.Minor: {Color: color.New(color.FgBlue), Icon: "✨"},
	changeset.Patch: {Color: color.New(color.FgYellow), Icon: "🐛"},
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatSummary writes the per-package bump summary shown before any file
// is written:
//
//	Found updates for 2 package(s):
//	  📦 pkg-a: 1.2.0 → 1.3.0 (minor)
func FormatSummary(w io.Writer, releases []PackageRelease, opts FormatOptions) error {
	header := fmt.Sprintf("Found updates for %d package(s):", len(releases))
	if !opts.Plain {
		header = color.GreenString(header)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	for _, r := range releases {
		class := string(r.Bump.Class)
		if !opts.Plain {
			class = classStyles[r.Bump.Class].Color.Sprint(class)
		}
		if _, err := fmt.Fprintf(w, "  📦 %s: %s → %s (%s)\n", r.Package, r.Bump.Current, r.Bump.Next, class); err != nil {
			return err
		}
	}
	return nil
}

// FormatSection writes a rendered section under a title, framed by
// separator lines, for dry-run previews.
func FormatSection(w io.Writer, title string, section Section, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	if opts.Plain {
		if _, err := fmt.Fprintf(w, "\n%s\n", title); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintf(w, "\n%s\n", color.CyanString(title)); err != nil {
		return err
	}

	sep := Separator('-', width)
	if _, err := fmt.Fprintln(w, sep); err != nil {
		return err
	}
	if err := writeSection(w, section, opts, width); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, sep)
	return err
}

// writeSection writes a section with colored class headers. Plain output is
// byte-identical to Section.String.
func writeSection(w io.Writer, section Section, opts FormatOptions, width int) error {
	if opts.Plain {
		_, err := fmt.Fprintln(w, section.String())
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	if _, err := fmt.Fprintln(w, bold(section.Header())); err != nil {
		return err
	}

	for _, g := range section.Groups {
		style := classStyles[g.Class]
		colored := style.Color.SprintFunc()
		if _, err := fmt.Fprintf(w, "\n%s %s\n\n", style.Icon, colored("### "+g.Class.Label())); err != nil {
			return err
		}
		for _, line := range g.Lines {
			if _, err := fmt.Fprintln(w, wrapText(line, width, "  ")); err != nil {
				return err
			}
		}
	}
	return nil
}

// Separator returns a rule of ch sized to width, capped for wide terminals.
// A non-positive width uses the detected terminal width.
func Separator(ch rune, width int) string {
	width = resolveWidth(width)
	if width > maxSeparatorWidth {
		width = maxSeparatorWidth
	}
	return strings.Repeat(string(ch), width)
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		// Find the last space within maxWidth
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}
