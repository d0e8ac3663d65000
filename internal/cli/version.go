package cli

import (
	"fmt"

	"github.com/ariel-frischer/changeset/internal/build"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for changeset",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, line := range build.Info() {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
	},
}

func init() {
	versionCmd.GroupID = GroupInfo
	rootCmd.AddCommand(versionCmd)
}
