package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/agentx-labs/monolink/internal/manifest"
	"github.com/agentx-labs/monolink/internal/platform"
	"github.com/agentx-labs/monolink/internal/tasks"
	"github.com/agentx-labs/monolink/internal/workspace"
)

// DefaultDependencyDir is the directory packages are installed into.
const DefaultDependencyDir = "node_modules"

// binDir is the executables directory inside the dependency directory.
const binDir = ".bin"

// Linker links local dependencies into a project's dependency directory.
type Linker struct {
	Local         LocalDependencies
	Concurrency   int
	DependencyDir string
}

// Link links every dependency the project declares that is also a local
// dependency, replacing any copy the install phase put in its place.
// Declared dependencies that are not local are never linked, even when a
// project of that name exists in the repository.
func (l *Linker) Link(ctx context.Context, project workspace.Project) error {
	m, err := manifest.Read(manifest.PathIn(project.Path))
	if err != nil {
		return err
	}

	toLink := l.linkTargets(m)
	if len(toLink) == 0 {
		return nil
	}

	linkTasks := make([]tasks.Task, 0, len(toLink))
	for _, name := range toLink {
		linkTasks = append(linkTasks, tasks.Task{
			Title: name,
			Run: func(context.Context) error {
				if err := l.linkOne(project, name, l.Local[name]); err != nil {
					return &LinkError{Project: project.Name, Dependency: name, Err: err}
				}
				return nil
			},
		})
	}

	return tasks.NewRunner(nil, l.Concurrency).Run(ctx, linkTasks)
}

// linkTargets returns the declared dependency names that are local, sorted.
func (l *Linker) linkTargets(m *manifest.PackageManifest) []string {
	var names []string
	for _, name := range m.DependencyNames() {
		if l.Local.Has(name) {
			names = append(names, name)
		}
	}
	return names
}

func (l *Linker) dependencyDir(project workspace.Project) string {
	dir := l.DependencyDir
	if dir == "" {
		dir = DefaultDependencyDir
	}
	return filepath.Join(project.Path, dir)
}

// removeInstalledCopy deletes a package directory the package manager
// installed where a local dependency is about to be linked. Links are left to
// the platform layer, and anything that is not a directory stays a collision.
func removeInstalledCopy(dest string) error {
	info, err := os.Lstat(dest)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	// Windows junctions report ModeIrregular rather than ModeSymlink.
	if info.Mode()&(os.ModeSymlink|os.ModeIrregular) != 0 || !info.IsDir() {
		return nil
	}
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("removing installed copy %s: %w", dest, err)
	}
	return nil
}

// linkOne links a single local dependency and its executables.
func (l *Linker) linkOne(project workspace.Project, name string, dep LocalDependency) error {
	depDir := l.dependencyDir(project)
	dest := filepath.Join(depDir, filepath.FromSlash(name))

	// Scoped packages need their @scope directory.
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	if err := removeInstalledCopy(dest); err != nil {
		return err
	}
	if err := platform.CreateDirLink(dep.Path, dest); err != nil {
		return err
	}

	if dep.Manifest == nil || dep.Manifest.Bin.IsZero() {
		return nil
	}

	bins := filepath.Join(depDir, binDir)
	if err := os.MkdirAll(bins, 0o755); err != nil {
		return err
	}

	executables := dep.Manifest.Bin.Executables(name)
	commands := make([]string, 0, len(executables))
	for cmd := range executables {
		commands = append(commands, cmd)
	}
	sort.Strings(commands)

	for _, cmd := range commands {
		target := filepath.Join(dep.Path, filepath.FromSlash(executables[cmd]))
		if err := platform.CreateSymlink(target, filepath.Join(bins, cmd)); err != nil {
			return err
		}
		// Unbuilt entry points are linked anyway and become executable once built.
		if err := platform.MakeExecutable(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
