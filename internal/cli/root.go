// Package cli implements the changeset command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/ariel-frischer/changeset/internal/config"
	clierrors "github.com/ariel-frischer/changeset/internal/errors"
	"github.com/ariel-frischer/changeset/internal/git"
	"github.com/ariel-frischer/changeset/internal/github"
	"github.com/ariel-frischer/changeset/internal/provenance"
	"github.com/spf13/cobra"
)

// Command group IDs for help output.
const (
	GroupRelease = "release"
	GroupInfo    = "info"
)

var (
	debugFlag bool
	rootFlag  string
	dirFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "changeset",
	Short: "Changeset-driven versioning and changelogs for multi-package repositories",
	Long: `changeset tracks unreleased changes to the packages of a repository as small
Markdown records in .changeset/, and turns them into version bumps, changelog
sections and a release pull request description.

Each record names the packages it affects with a major, minor or patch change
class. A release bumps every affected package by its most significant class,
prepends a section to the package's CHANGELOG.md, and archives the records.`,
	Example: `  # Record a change
  changeset add --package widgets:minor --message "Add gadget support"

  # See what a release would do
  changeset status
  changeset changelog --dry-run

  # Release, writing the PR body for CI
  changeset changelog --output-pr-description release.md`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			installDebugLogger(cmd.ErrOrStderr())
		}
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupInfo, Title: "Information:"},
	)

	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Print debug tracing to stderr")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Project root (default: repository root, else current directory)")
	rootCmd.PersistentFlags().StringVar(&dirFlag, "dir", config.DefaultDir, "Changeset directory, relative to the project root")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
	})
}

// Execute runs the root command and reports any error on stderr.
// Use ExitCode to turn the returned error into a process exit code.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// reportError prints err unless it only carries an exit code.
func reportError(w io.Writer, err error) {
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		clierrors.FprintError(w, cliErr)
		return
	}
	if exitErr, ok := err.(*ExitError); ok && exitErr.Err == nil {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// installDebugLogger routes the debug tracing of the history, remote and
// provenance layers to w.
func installDebugLogger(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logger := func(format string, args ...any) {
		fmt.Fprintf(w, "[debug] "+format+"\n", args...)
	}
	git.SetDebugLogger(logger)
	github.SetDebugLogger(logger)
	provenance.SetDebugLogger(logger)
}
