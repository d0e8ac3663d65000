package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/changeset/internal/config"
	clierrors "github.com/ariel-frischer/changeset/internal/errors"
	"github.com/ariel-frischer/changeset/internal/git"
	"github.com/ariel-frischer/changeset/internal/github"
	"github.com/ariel-frischer/changeset/internal/provenance"
	"github.com/spf13/cobra"
)

// projectOptions locates the project a command works on.
type projectOptions struct {
	// Root is the project root; empty means the enclosing repository root,
	// or the current directory outside a repository.
	Root string
	// Dir is the changeset directory, relative to Root unless absolute.
	Dir string
}

// currentProjectOptions reads the persistent flags.
func currentProjectOptions() projectOptions {
	return projectOptions{Root: rootFlag, Dir: dirFlag}
}

// project is an opened project: its paths and, when it lives in a git
// repository, the repository.
type project struct {
	Paths config.Paths
	Repo  *git.Repo
}

// openProject resolves the project root and opens its repository. A project
// outside any repository still works; it just has no history to cite.
func openProject(opts projectOptions) (*project, error) {
	root := opts.Root
	if root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolving project root %s: %w", root, err)
		}
		root = abs
	}

	repo, err := git.Open(root)
	if err != nil {
		repo = nil
	}

	if root == "" {
		if repo != nil {
			root = repo.Root()
		} else if root, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	return &project{Paths: config.NewPaths(root, opts.Dir), Repo: repo}, nil
}

// loadConfig loads the project configuration, converting failures into
// CLI errors with remediation.
func (p *project) loadConfig(warnings io.Writer) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{Paths: p.Paths, WarningWriter: warnings})
	if err != nil {
		if errors.Is(err, config.ErrConfigMissing) {
			return nil, clierrors.ConfigMissing(p.rel(p.Paths.ConfigJSON()), p.rel(p.Paths.ConfigYAML()))
		}
		return nil, clierrors.InvalidConfig(err)
	}
	return cfg, nil
}

// newResolver builds the provenance resolver. The remote is consulted only
// when useRemote is set and origin points at GitHub.
func (p *project) newResolver(ctx context.Context, env provenance.Env, useRemote bool) *provenance.Resolver {
	var vcs provenance.VCS
	if p.Repo != nil {
		vcs = p.Repo
	}

	var remote provenance.Remote
	if useRemote && p.Repo != nil {
		if origin, err := p.Repo.OriginURL(); err == nil {
			if owner, name, _, ok := provenance.RepoURLFromRemote(origin); ok {
				remote = github.NewTokenClient(ctx, env.Token, owner, name)
			}
		}
	}

	return provenance.NewResolver(vcs, remote, env)
}

// rel returns path relative to the project root for display, or path
// unchanged when it lies elsewhere.
func (p *project) rel(path string) string {
	r, err := filepath.Rel(p.Paths.Root, path)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return path
	}
	return r
}

// commandContext returns the command's context, or a background context
// for commands that were never executed.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
