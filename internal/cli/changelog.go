package cli

import (
	"fmt"
	"path/filepath"

	"github.com/ariel-frischer/changeset/internal/changelog"
	clierrors "github.com/ariel-frischer/changeset/internal/errors"
	"github.com/ariel-frischer/changeset/internal/output"
	"github.com/ariel-frischer/changeset/internal/progress"
	"github.com/ariel-frischer/changeset/internal/provenance"
	"github.com/ariel-frischer/changeset/internal/release"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// changelogOptions are the inputs of one changelog run.
type changelogOptions struct {
	Project         projectOptions
	DryRun          bool
	DescriptionPath string
	NoArchive       bool
	NoRemote        bool
	Env             provenance.Env
}

var (
	changelogDryRunFlag    bool
	changelogDescFlag      string
	changelogNoArchiveFlag bool
	changelogNoRemoteFlag  bool
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Bump versions and write changelogs from pending changesets",
	Long: `Consume every pending changeset: bump each affected package's version,
prepend a section to its changelog, and archive the consumed records.

Each changelog line credits the pull request, commit and authors that
introduced its changeset, read from git history and, when the origin remote is
on GitHub, the GitHub API (GITHUB_TOKEN or GH_TOKEN). PR_NUMBER, PR_AUTHOR and
COMMIT_SHA fill in whatever history cannot provide.`,
	Example: `  # Preview without writing anything
  changeset changelog --dry-run

  # Release and write the pull request body
  changeset changelog --output-pr-description release.md

  # Offline release that keeps the consumed records in place
  changeset changelog --no-remote --no-archive`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChangelog(cmd, changelogOptions{
			Project:         currentProjectOptions(),
			DryRun:          changelogDryRunFlag,
			DescriptionPath: changelogDescFlag,
			NoArchive:       changelogNoArchiveFlag,
			NoRemote:        changelogNoRemoteFlag,
			Env:             provenance.EnvFromOS(),
		})
	},
}

func init() {
	changelogCmd.GroupID = GroupRelease
	rootCmd.AddCommand(changelogCmd)

	changelogCmd.Flags().BoolVar(&changelogDryRunFlag, "dry-run", false, "Show what would change without writing anything")
	changelogCmd.Flags().StringVar(&changelogDescFlag, "output-pr-description", "", "Write the release pull request description to this file")
	changelogCmd.Flags().BoolVar(&changelogNoArchiveFlag, "no-archive", false, "Leave consumed changesets in place")
	changelogCmd.Flags().BoolVar(&changelogNoRemoteFlag, "no-remote", false, "Skip GitHub API lookups")
}

func runChangelog(cmd *cobra.Command, opts changelogOptions) error {
	out := cmd.OutOrStdout()
	ctx := commandContext(cmd)

	proj, err := openProject(opts.Project)
	if err != nil {
		return err
	}
	cfg, err := proj.loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	output.PrintHeader(out, "📜 Generating changelogs...")

	pipeline := release.New(cfg, proj.Paths, proj.newResolver(ctx, opts.Env, !opts.NoRemote))
	if pipeline.History != nil {
		pipeline.History.ErrOut = cmd.ErrOrStderr()
	}

	sp := progress.NewSpinner(out, progress.DetectTerminalCapabilities())
	sp.Start("Resolving versions and attribution")
	plan, err := pipeline.Compute(ctx)
	if err != nil {
		sp.Fail("Could not read pending changesets")
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "reading changesets")
	}
	sp.Success(fmt.Sprintf("Read %d changeset(s)", len(plan.Records)))

	printWarnings(cmd, plan.Warnings)

	if len(plan.Records) == 0 {
		output.PrintNotice(out, "No changesets found. Nothing to do!")
		return nil
	}
	if plan.Empty() {
		output.PrintNotice(out, "No releasable packages found. Nothing to do!")
		return nil
	}

	fmtOpts := changelog.FormatOptions{Plain: color.NoColor}
	if err := changelog.FormatSummary(out, plan.Releases(), fmtOpts); err != nil {
		return err
	}

	if opts.DryRun {
		return previewRelease(cmd, proj, plan, fmtOpts)
	}

	descPath := opts.DescriptionPath
	if descPath != "" && !filepath.IsAbs(descPath) {
		descPath, _ = filepath.Abs(descPath)
	}

	fmt.Fprintln(out)
	res, err := pipeline.Apply(plan, release.Options{
		Archive:         cfg.Archive && !opts.NoArchive,
		DescriptionPath: descPath,
	})
	for _, path := range res.Written {
		if path == descPath {
			output.PrintSuccess(out, "PR description written to "+proj.rel(path))
			continue
		}
		output.PrintSuccess(out, "Updated "+proj.rel(path))
	}
	printWarnings(cmd, res.Warnings)
	if err != nil {
		output.PrintFailure(out, "Release incomplete")
		return clierrors.ReleaseFailed(err)
	}

	if res.ArchiveDir != "" {
		output.PrintSuccess(out, fmt.Sprintf("Archived %d changeset(s) to %s", len(res.Archived), proj.rel(res.ArchiveDir)))
	}
	return nil
}

// previewRelease prints the release description and every section that a
// real run would write.
func previewRelease(cmd *cobra.Command, proj *project, plan *release.Plan, opts changelog.FormatOptions) error {
	out := cmd.OutOrStdout()

	output.PrintFramed(out, '=', "📝 PR description", plan.Description)
	for _, u := range plan.Updates {
		title := fmt.Sprintf("📄 %s (%s)", u.Package, proj.rel(u.ChangelogPath))
		if err := changelog.FormatSection(out, title, u.Section, opts); err != nil {
			return err
		}
	}

	fmt.Fprintln(out)
	output.PrintNotice(out, "Dry run: no files were written.")
	return nil
}

// printWarnings reports non-fatal problems, one line each.
func printWarnings(cmd *cobra.Command, warnings []error) {
	for _, w := range warnings {
		output.PrintWarning(cmd.OutOrStdout(), w.Error())
	}
}
