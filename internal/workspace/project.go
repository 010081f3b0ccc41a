package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/agentx-labs/monolink/internal/manifest"
)

// Project is a package inside the repository. Name is unique within a workspace.
type Project struct {
	Name     string
	Path     string
	Manifest *manifest.PackageManifest
}

// Version returns the version declared in the project's manifest.
func (p Project) Version() string {
	if p.Manifest == nil {
		return ""
	}
	return p.Manifest.Version
}

// LoadProject reads the manifest in dir and returns the project it describes.
func LoadProject(dir string) (Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Project{}, fmt.Errorf("resolving %s: %w", dir, err)
	}
	m, err := manifest.Read(manifest.PathIn(abs))
	if err != nil {
		return Project{}, err
	}
	return Project{Name: m.Name, Path: abs, Manifest: m}, nil
}

// Load returns the projects found in directories matching the given globs,
// relative to root. Directories without a package.json are ignored. Projects
// are sorted by name and names must be unique.
func Load(root string, globs []string) ([]Project, error) {
	seenDir := make(map[string]bool)
	byName := make(map[string]string)
	var projects []Project

	for _, pattern := range globs {
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid package glob %q: %w", pattern, err)
		}

		for _, dir := range matches {
			if seenDir[dir] {
				continue
			}
			seenDir[dir] = true

			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				continue
			}
			if _, err := os.Stat(manifest.PathIn(dir)); err != nil {
				continue
			}

			p, err := LoadProject(dir)
			if err != nil {
				return nil, err
			}
			if other, dup := byName[p.Name]; dup {
				return nil, fmt.Errorf("duplicate project name %q in %s and %s", p.Name, other, p.Path)
			}
			byName[p.Name] = p.Path
			projects = append(projects, p)
		}
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

// Select returns the projects whose names appear in names, preserving the
// order of projects. An empty names list selects every project.
func Select(projects []Project, names []string) []Project {
	if len(names) == 0 {
		return append([]Project(nil), projects...)
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var selected []Project
	for _, p := range projects {
		if wanted[p.Name] {
			selected = append(selected, p)
		}
	}
	return selected
}

// Find returns the project with the given name.
func Find(projects []Project, name string) (Project, bool) {
	for _, p := range projects {
		if p.Name == name {
			return p, true
		}
	}
	return Project{}, false
}
