// Package progress detects what the terminal can render and shows a spinner
// while slow lookups run.
package progress

// TerminalCapabilities describes the output terminal.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// ProgressSymbols is the symbol set used for progress output.
type ProgressSymbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int // index into spinner.CharSets
}
