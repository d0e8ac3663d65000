package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// spinnerInterval is the frame delay of the spinner animation.
const spinnerInterval = 100 * time.Millisecond

// Spinner shows an animated status line on a TTY. On anything else it
// degrades to plain start and finish lines so CI logs stay readable.
type Spinner struct {
	out     io.Writer
	symbols ProgressSymbols
	s       *spinner.Spinner
	message string
}

// NewSpinner creates a spinner writing to out.
func NewSpinner(out io.Writer, caps TerminalCapabilities) *Spinner {
	symbols := SelectSymbols(caps)
	sp := &Spinner{out: out, symbols: symbols}
	if caps.IsTTY {
		sp.s = spinner.New(spinner.CharSets[symbols.SpinnerSet], spinnerInterval,
			spinner.WithWriter(out),
			spinner.WithHiddenCursor(true),
		)
	}
	return sp
}

// Start begins showing message.
func (sp *Spinner) Start(message string) {
	sp.message = message
	if sp.s == nil {
		fmt.Fprintf(sp.out, "%s...\n", message)
		return
	}
	sp.s.Suffix = " " + message
	sp.s.Start()
}

// Success stops the spinner and prints a checkmark line.
func (sp *Spinner) Success(message string) {
	sp.finish(sp.symbols.Checkmark, message)
}

// Fail stops the spinner and prints a failure line.
func (sp *Spinner) Fail(message string) {
	sp.finish(sp.symbols.Failure, message)
}

func (sp *Spinner) finish(symbol, message string) {
	if message == "" {
		message = sp.message
	}
	if sp.s != nil {
		sp.s.Stop()
	}
	fmt.Fprintf(sp.out, "%s %s\n", symbol, message)
}
