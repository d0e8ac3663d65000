package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ariel-frischer/changeset/internal/changeset"
	clierrors "github.com/ariel-frischer/changeset/internal/errors"
	"github.com/ariel-frischer/changeset/internal/manifest"
	"github.com/ariel-frischer/changeset/internal/output"
	"github.com/spf13/cobra"
)

// addOptions are the inputs of one add run.
type addOptions struct {
	Project  projectOptions
	Packages []string
	Message  string
}

var (
	addPackagesFlag []string
	addMessageFlag  string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a change to one or more packages",
	Long: `Write a new changeset record naming the affected packages, the change class
for each, and a description that becomes the changelog line.`,
	Example: `  changeset add --package widgets:minor --message "Add gadget support"
  changeset add -p widgets:patch -p gizmos:major -m "Rename the frobnicate API"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(cmd, addOptions{
			Project:  currentProjectOptions(),
			Packages: addPackagesFlag,
			Message:  addMessageFlag,
		})
	},
}

func init() {
	addCmd.GroupID = GroupRelease
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringArrayVarP(&addPackagesFlag, "package", "p", nil, "Affected package as <name>:<major|minor|patch> (repeatable)")
	addCmd.Flags().StringVarP(&addMessageFlag, "message", "m", "", "Description of the change")
}

func runAdd(cmd *cobra.Command, opts addOptions) error {
	out := cmd.OutOrStdout()

	entries, err := parsePackageSpecs(opts.Packages)
	if err != nil {
		return err
	}
	message := strings.TrimSpace(opts.Message)
	if message == "" {
		return clierrors.MissingMessage()
	}

	proj, err := openProject(opts.Project)
	if err != nil {
		return err
	}
	cfg, err := proj.loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	finder := manifest.NewFinder(proj.Paths.Root, cfg.ManifestFile)
	for _, e := range entries {
		if _, err := finder.Find(e.Package); errors.Is(err, manifest.ErrManifestNotFound) {
			output.PrintWarning(out, fmt.Sprintf("no %s declares package %q; it will be skipped at release time", cfg.ManifestFile, e.Package))
		}
	}

	rec, err := changeset.NewStore(proj.Paths.Dir).Write(entries, message)
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "writing changeset")
	}

	output.PrintSuccess(out, "Created "+proj.rel(rec.Path))
	return nil
}

// parsePackageSpecs parses repeated <name>:<class> values. Each package may
// appear once.
func parsePackageSpecs(specs []string) ([]changeset.Entry, error) {
	if len(specs) == 0 {
		return nil, clierrors.MissingPackages()
	}

	seen := make(map[string]bool)
	entries := make([]changeset.Entry, 0, len(specs))
	for _, spec := range specs {
		i := strings.LastIndex(spec, ":")
		if i <= 0 {
			return nil, clierrors.InvalidPackageSpec(spec, nil)
		}
		name := strings.TrimSpace(spec[:i])
		if name == "" {
			return nil, clierrors.InvalidPackageSpec(spec, nil)
		}
		class, err := changeset.ParseChangeClass(spec[i+1:])
		if err != nil {
			return nil, clierrors.InvalidPackageSpec(spec, err)
		}
		if seen[name] {
			return nil, clierrors.InvalidPackageSpec(spec, errors.New("package listed more than once"))
		}
		seen[name] = true
		entries = append(entries, changeset.Entry{Package: name, Class: class})
	}
	return entries, nil
}
