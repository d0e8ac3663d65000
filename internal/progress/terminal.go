package progress

import (
	"os"

	"golang.org/x/term"
)

// Environment switches read by DetectTerminalCapabilities.
const (
	EnvNoColor = "NO_COLOR"
	EnvASCII   = "CHANGESET_ASCII"
)

var (
	unicodeSymbols = ProgressSymbols{Checkmark: "✓", Failure: "✗", SpinnerSet: 14}
	asciiSymbols   = ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9}
)

// DetectTerminalCapabilities inspects stdout and the NO_COLOR and
// CHANGESET_ASCII switches.
func DetectTerminalCapabilities() TerminalCapabilities {
	return detect(os.Stdout, os.Getenv)
}

func detect(f *os.File, getenv func(string) string) TerminalCapabilities {
	fd := int(f.Fd())
	caps := TerminalCapabilities{IsTTY: term.IsTerminal(fd)}
	if !caps.IsTTY {
		return caps
	}

	caps.SupportsColor = getenv(EnvNoColor) == ""
	caps.SupportsUnicode = getenv(EnvASCII) != "1"
	if w, _, err := term.GetSize(fd); err == nil {
		caps.Width = w
	}
	return caps
}

// SelectSymbols picks Unicode symbols and the braille spinner (set 14) when
// the terminal supports them, ASCII and a |/-\ spinner (set 9) otherwise.
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if caps.SupportsUnicode {
		return unicodeSymbols
	}
	return asciiSymbols
}
