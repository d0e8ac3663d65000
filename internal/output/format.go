// Package output provides terminal output formatting utilities for the changeset CLI.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintHeader prints a bold cyan heading such as "📜 Generating changelogs...".
func PrintHeader(out io.Writer, message string) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s\n\n", cyan(message))
}

// PrintSuccess prints a green checkmark followed by a cyan message.
func PrintSuccess(out io.Writer, message string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), cyan(message))
}

// PrintWarning prints a yellow warning line.
func PrintWarning(out io.Writer, message string) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", yellow("⚠"), yellow(message))
}

// PrintFailure prints a red failure line.
func PrintFailure(out io.Writer, message string) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", red("✗"), message)
}

// PrintNotice prints a yellow informational line without an icon, such as
// "No changesets found. Nothing to do!".
func PrintNotice(out io.Writer, message string) {
	fmt.Fprintln(out, color.YellowString(message))
}

// PrintFramed prints body between two rules of ch under a cyan title.
// The rules are sized to the terminal width, capped at 100 columns.
func PrintFramed(out io.Writer, ch rune, title, body string) {
	width := GetTerminalWidth()
	if width > 100 {
		width = 100
	}
	rule := strings.Repeat(string(ch), width)

	fmt.Fprintf(out, "\n%s\n", rule)
	fmt.Fprintln(out, color.CyanString(title))
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, strings.TrimRight(body, "\n"))
	fmt.Fprintln(out, rule)
}
