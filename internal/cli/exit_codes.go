package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/changeset/internal/errors"
)

// Exit codes for the changeset CLI
const (
	// ExitSuccess indicates successful command execution, including runs
	// with nothing to release
	ExitSuccess = 0

	// ExitFailure indicates the command failed
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingConfig indicates the project configuration is missing or invalid
	ExitMissingConfig = 4
)

// ExitError carries a specific exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

// NewExitError creates an ExitError with the given code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by Execute to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument:
			return ExitInvalidArguments
		case clierrors.Configuration:
			return ExitMissingConfig
		}
	}

	return ExitFailure
}
