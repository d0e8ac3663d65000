package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// FormatError formats a CLIError for display in the terminal.
// Colors follow fatih/color's detection, so NO_COLOR and non-TTY output
// get plain text.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n", errorLabel("Error"), categoryFmt(err.Category.String()), errorMsg(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", usageLabel("Usage: "), err.Usage)
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", fixLabel("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", bullet("•"), step)
		}
	}

	return sb.String()
}

// FprintError prints a formatted CLIError to the given writer.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}
