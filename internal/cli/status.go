package cli

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/changeset/internal/changelog"
	clierrors "github.com/ariel-frischer/changeset/internal/errors"
	"github.com/ariel-frischer/changeset/internal/output"
	"github.com/ariel-frischer/changeset/internal/release"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List pending changesets and the versions they would produce",
	Long: `List every pending changeset and the version each affected package would be
bumped to. Nothing is written and no history or GitHub lookups are made.`,
	Example: `  changeset status
  changeset status --dir .changes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd, currentProjectOptions())
	},
}

func init() {
	statusCmd.GroupID = GroupRelease
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, opts projectOptions) error {
	out := cmd.OutOrStdout()

	proj, err := openProject(opts)
	if err != nil {
		return err
	}
	cfg, err := proj.loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	pipeline := release.New(cfg, proj.Paths, nil)
	plan, err := pipeline.Compute(commandContext(cmd))
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "reading changesets")
	}

	printWarnings(cmd, plan.Warnings)

	if len(plan.Records) == 0 {
		output.PrintNotice(out, "No pending changesets.")
		return nil
	}

	fmt.Fprintf(out, "%d pending changeset(s):\n", len(plan.Records))
	for _, rec := range plan.Records {
		targets := make([]string, len(rec.Entries))
		for i, e := range rec.Entries {
			targets[i] = fmt.Sprintf("%s %s %s (%s)", cfg.Emoji(e.Class), e.Package, e.Class, cfg.Describe(e.Class))
		}
		fmt.Fprintf(out, "  • %s: %s\n", rec.ID, strings.Join(targets, ", "))
	}
	fmt.Fprintln(out)

	if plan.Empty() {
		output.PrintNotice(out, "No releasable packages found.")
		return nil
	}
	return changelog.FormatSummary(out, plan.Releases(), changelog.FormatOptions{Plain: color.NoColor})
}
