// Package release turns pending changeset records into a release: it works
// out each package's next version, renders its changelog section with
// attribution, and then writes manifests and changelogs, archives the
// consumed records and logs the run.
//
// Compute never touches the filesystem beyond reading, so a dry run is simply
// a Compute without an Apply.
package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ariel-frischer/changeset/internal/changelog"
	"github.com/ariel-frischer/changeset/internal/changeset"
	"github.com/ariel-frischer/changeset/internal/config"
	"github.com/ariel-frischer/changeset/internal/history"
	"github.com/ariel-frischer/changeset/internal/manifest"
	"github.com/ariel-frischer/changeset/internal/provenance"
	"github.com/ariel-frischer/changeset/internal/version"
)

// Options controls Apply.
type Options struct {
	// DryRun makes Apply a no-op.
	DryRun bool
	// Archive moves consumed records into a timestamped archive directory.
	Archive bool
	// DescriptionPath, when set, receives the combined release description.
	DescriptionPath string
	// Now stamps the archive directory and history entry (default time.Now).
	Now func() time.Time
}

// PackageUpdate is the computed release of one package.
type PackageUpdate struct {
	Package       string
	Manifest      manifest.Manifest
	ChangelogPath string
	Bump          version.Bump
	Section       changelog.Section
	Changes       changeset.PackageChanges
}

// Release returns the update in the shape the changelog renderers take.
func (u PackageUpdate) Release() changelog.PackageRelease {
	return changelog.PackageRelease{Package: u.Package, Bump: u.Bump, Section: u.Section}
}

// Plan is everything a release would do, computed without side effects.
type Plan struct {
	// Updates holds one entry per releasable package, in discovery order.
	Updates []PackageUpdate
	// Records holds every well-formed pending record.
	Records []changeset.Record
	// Warnings holds non-fatal problems: malformed records, packages without
	// a manifest or with an unusable version, degraded attribution.
	Warnings []error
	// Description is the combined release pull request body.
	Description string
}

// Empty reports whether there is nothing to release.
func (p *Plan) Empty() bool {
	return len(p.Updates) == 0
}

// Releases returns the updates as changelog releases.
func (p *Plan) Releases() []changelog.PackageRelease {
	releases := make([]changelog.PackageRelease, len(p.Updates))
	for i, u := range p.Updates {
		releases[i] = u.Release()
	}
	return releases
}

// Consumed returns the records that contribute to at least one update, in
// enumeration order. Records whose packages were all skipped are left out so
// they stay pending.
func (p *Plan) Consumed() []changeset.Record {
	used := make(map[string]bool)
	for _, u := range p.Updates {
		for _, rec := range u.Changes.Records() {
			used[rec.Path] = true
		}
	}

	var consumed []changeset.Record
	for _, rec := range p.Records {
		if used[rec.Path] {
			consumed = append(consumed, rec)
		}
	}
	return consumed
}

// Result reports what Apply changed.
type Result struct {
	// Written lists every file written, in write order.
	Written []string
	// ArchiveDir is where records were moved, if archiving ran.
	ArchiveDir string
	// Archived lists the records moved into ArchiveDir.
	Archived []changeset.Record
	// Warnings holds non-fatal problems such as a changelog that already
	// contained the new version.
	Warnings []error
}

// Pipeline computes and applies releases for one project.
type Pipeline struct {
	Config    *config.Config
	Paths     config.Paths
	Store     *changeset.Store
	Manifests *manifest.Finder
	// Provenance attributes changelog lines. Nil renders lines without
	// attribution.
	Provenance *provenance.Resolver
	// History logs applied runs. Nil disables logging.
	History *history.Writer
}

// New wires a Pipeline for the project at paths.
func New(cfg *config.Config, paths config.Paths, resolver *provenance.Resolver) *Pipeline {
	p := &Pipeline{
		Config:     cfg,
		Paths:      paths,
		Store:      changeset.NewStore(paths.Dir),
		Manifests:  manifest.NewFinder(paths.Root, cfg.ManifestFile),
		Provenance: resolver,
	}
	if cfg.MaxHistoryEntries > 0 {
		p.History = history.NewWriter(paths.HistoryFile(), cfg.MaxHistoryEntries)
	}
	return p
}

// Compute builds the release plan. Only an unreadable record directory is
// an error; every per-record and per-package problem becomes a warning.
func (p *Pipeline) Compute(ctx context.Context) (*Plan, error) {
	records, malformed, err := p.Store.List()
	if err != nil {
		return nil, err
	}

	plan := &Plan{Records: records, Warnings: malformed}

	if p.Provenance != nil {
		prev := p.Provenance.Warnf
		p.Provenance.Warnf = func(format string, args ...any) {
			plan.Warnings = append(plan.Warnings, fmt.Errorf(format, args...))
		}
		defer func() { p.Provenance.Warnf = prev }()
	}

	cite := p.citationFunc(ctx)
	for _, changes := range changeset.Group(plan.Records) {
		update, err := p.computeUpdate(changes, cite)
		if err != nil {
			plan.Warnings = append(plan.Warnings, err)
			continue
		}
		plan.Updates = append(plan.Updates, update)
	}

	plan.Description = changelog.ReleaseDescription(plan.Releases())
	return plan, nil
}

// computeUpdate resolves one package's bump and section.
func (p *Pipeline) computeUpdate(changes changeset.PackageChanges, cite changelog.CitationFunc) (PackageUpdate, error) {
	m, err := p.Manifests.Find(changes.Package)
	if err != nil {
		return PackageUpdate{}, fmt.Errorf("skipping %s: %w", changes.Package, err)
	}
	if !m.HasProject {
		return PackageUpdate{}, fmt.Errorf("skipping %s (%s): %w", changes.Package, m.Path, manifest.ErrNoProjectTable)
	}

	current, err := version.Parse(m.Version)
	if err != nil {
		return PackageUpdate{}, fmt.Errorf("skipping %s (%s): %w", changes.Package, m.Path, err)
	}

	bump := version.Resolve(current, changes.Classes())
	return PackageUpdate{
		Package:       changes.Package,
		Manifest:      m,
		ChangelogPath: filepath.Join(m.Dir(), p.Config.ChangelogFile),
		Bump:          bump,
		Section:       changelog.RenderSection(changes.Package, bump.Next.String(), changes.Entries, cite),
		Changes:       changes,
	}, nil
}

// citationFunc attributes each entry from its own record's provenance.
func (p *Pipeline) citationFunc(ctx context.Context) changelog.CitationFunc {
	if p.Provenance == nil {
		return nil
	}
	return func(e changeset.PackageEntry) string {
		if e.Record == nil {
			return provenance.Citation(p.Provenance.ForRun(ctx))
		}
		return provenance.Citation(p.Provenance.ForRecord(ctx, e.Record.Path))
	}
}

// Apply performs plan: merge changelog sections, bump manifest versions,
// write the release description, archive consumed records and log the run.
// A package's manifest is only bumped once its changelog holds the new
// version, so a failed run never leaves a bumped manifest behind a missing
// section. A changelog that already holds the new version is a warning and
// the manifest is still bumped. Any other write failure stops archiving and
// logging so the records stay pending for a rerun, and is returned after the
// remaining packages were attempted.
func (p *Pipeline) Apply(plan *Plan, opts Options) (*Result, error) {
	res := &Result{}
	if opts.DryRun || plan.Empty() {
		return res, nil
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	var errs []error
	for _, u := range plan.Updates {
		if err := changelog.MergeFile(u.ChangelogPath, u.Package, u.Section); err != nil {
			if !errors.Is(err, changelog.ErrVersionExists) {
				errs = append(errs, fmt.Errorf("updating %s: %w", u.Package, err))
				continue
			}
			res.Warnings = append(res.Warnings, err)
		} else {
			res.Written = append(res.Written, u.ChangelogPath)
		}

		if err := manifest.SetVersion(u.Manifest.Path, u.Bump.Next.String()); err != nil {
			errs = append(errs, fmt.Errorf("updating %s: %w", u.Package, err))
			continue
		}
		res.Written = append(res.Written, u.Manifest.Path)
	}

	if opts.DescriptionPath != "" {
		if err := os.WriteFile(opts.DescriptionPath, []byte(plan.Description), 0o644); err != nil {
			errs = append(errs, fmt.Errorf("writing release description: %w", err))
		} else {
			res.Written = append(res.Written, opts.DescriptionPath)
		}
	}

	if len(errs) > 0 {
		return res, errors.Join(errs...)
	}

	at := now()
	if opts.Archive {
		consumed := plan.Consumed()
		dir, err := p.Store.Archive(consumed, at)
		res.ArchiveDir = dir
		res.Archived = consumed
		if err != nil {
			res.Warnings = append(res.Warnings, err)
		}
	}

	if p.History != nil {
		p.History.LogEntry(historyEntry(plan, res, at))
	}

	return res, nil
}

func historyEntry(plan *Plan, res *Result, at time.Time) history.HistoryEntry {
	entry := history.HistoryEntry{Timestamp: at, ArchiveDir: res.ArchiveDir}
	for _, u := range plan.Updates {
		entry.Packages = append(entry.Packages, history.PackageVersion{
			Name:  u.Package,
			From:  u.Bump.Current.String(),
			To:    u.Bump.Next.String(),
			Class: string(u.Bump.Class),
		})
	}
	for _, rec := range res.Archived {
		entry.Records = append(entry.Records, rec.ID)
	}
	return entry
}
