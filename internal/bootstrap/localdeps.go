package bootstrap

import (
	"context"
	"fmt"

	"github.com/agentx-labs/monolink/internal/changelog"
	"github.com/agentx-labs/monolink/internal/manifest"
	"github.com/agentx-labs/monolink/internal/versioning"
	"github.com/agentx-labs/monolink/internal/workspace"
)

// LocalDependency is a repository package that dependents may link to.
// Version is the version the package will have after its pending release.
type LocalDependency struct {
	Path     string
	Manifest *manifest.PackageManifest
	Version  string
}

// LocalDependencies maps package name to its local checkout. It is computed
// once per run and only read afterwards.
type LocalDependencies map[string]LocalDependency

// Has reports whether name is a local dependency.
func (l LocalDependencies) Has(name string) bool {
	_, ok := l[name]
	return ok
}

// HistorySource returns the repository commits, oldest first.
type HistorySource func(ctx context.Context) ([]changelog.Commit, error)

// NextVersions returns the projects whose pending increment changes their
// declared version, keyed by name, with the version they will be released as.
// Projects whose declared version is not valid semver are left out because
// their next version cannot be predicted.
func NextVersions(status map[string]*changelog.ProjectStatus, projects []workspace.Project) LocalDependencies {
	local := make(LocalDependencies)
	for _, p := range projects {
		s, ok := status[p.Name]
		if !ok || s.Increment == versioning.None {
			continue
		}

		next, err := versioning.Bump(p.Version(), s.Increment)
		if err != nil || next == p.Version() {
			continue
		}

		local[p.Name] = LocalDependency{Path: p.Path, Manifest: p.Manifest, Version: next}
	}
	return local
}

// AllLocal returns every project as a local dependency at its declared version.
func AllLocal(projects []workspace.Project) LocalDependencies {
	local := make(LocalDependencies, len(projects))
	for _, p := range projects {
		local[p.Name] = LocalDependency{Path: p.Path, Manifest: p.Manifest, Version: p.Version()}
	}
	return local
}

// Estimate runs the full history through the status generator in monorepo
// mode and returns the pending status together with the local dependency set.
func Estimate(ctx context.Context, projects []workspace.Project, history HistorySource) (map[string]*changelog.ProjectStatus, LocalDependencies, error) {
	commits, err := history(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("reading commit history: %w", err)
	}
	status := changelog.GenerateStatus(projects, commits, true)
	return status, NextVersions(status, projects), nil
}

// shouldLink reports whether dependency name with declared range should be
// left out of the install and satisfied by linking instead.
func shouldLink(local LocalDependencies, name, declared string, ignoreSemVer bool) bool {
	dep, ok := local[name]
	if !ok {
		return false
	}
	return ignoreSemVer || !versioning.Satisfies(dep.Version, declared)
}

// filterDependencies returns the dependencies that must still be installed
// from the registry. A nil input stays nil.
func filterDependencies(deps map[string]string, local LocalDependencies, ignoreSemVer bool) map[string]string {
	if deps == nil {
		return nil
	}
	kept := make(map[string]string, len(deps))
	for name, declared := range deps {
		if !shouldLink(local, name, declared, ignoreSemVer) {
			kept[name] = declared
		}
	}
	return kept
}
