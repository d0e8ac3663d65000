package cli

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/changeset/internal/history"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var historyLimitFlag int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View past releases",
	Long:  `View the log of applied releases with timestamp, package versions and the number of changesets consumed.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistory(cmd, currentProjectOptions(), historyLimitFlag)
	},
}

func init() {
	historyCmd.GroupID = GroupInfo
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 0, "Limit to last N releases (most recent)")
}

func runHistory(cmd *cobra.Command, opts projectOptions, limit int) error {
	if limit < 0 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}

	proj, err := openProject(opts)
	if err != nil {
		return err
	}

	histFile, err := history.LoadHistory(proj.Paths.HistoryFile())
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	entries := histFile.Entries
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No history available.")
		return nil
	}

	displayEntries(cmd, entries)
	return nil
}

// displayEntries formats and displays history entries.
func displayEntries(cmd *cobra.Command, entries []history.HistoryEntry) {
	out := cmd.OutOrStdout()
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, entry := range entries {
		versions := make([]string, len(entry.Packages))
		for i, p := range entry.Packages {
			versions[i] = fmt.Sprintf("%s %s → %s", p.Name, p.From, cyan(p.To))
		}
		fmt.Fprintf(out, "%s  %s  (%d changeset(s))\n",
			entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
			strings.Join(versions, ", "),
			len(entry.Records),
		)
	}
}
