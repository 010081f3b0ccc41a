package changelog

import (
	"github.com/agentx-labs/monolink/internal/manifest"
	"github.com/agentx-labs/monolink/internal/versioning"
	"github.com/agentx-labs/monolink/internal/workspace"
)

// ProjectStatus is the pending release window of one project.
type ProjectStatus struct {
	Project   string
	Path      string
	Increment versioning.Increment
	Commits   []Commit
	Manifest  *manifest.PackageManifest
}

// GenerateStatus folds commits (oldest first) into a status per project and
// returns only the projects with a pending increment.
//
// In monorepo mode a commit targets the project named by its scope and
// commits scoped to unknown projects are ignored. Otherwise every commit
// targets the first project.
func GenerateStatus(projects []workspace.Project, commits []Commit, monorepo bool) map[string]*ProjectStatus {
	status := make(map[string]*ProjectStatus, len(projects))
	for _, p := range projects {
		status[p.Name] = &ProjectStatus{
			Project:   p.Name,
			Path:      p.Path,
			Increment: versioning.None,
			Manifest:  p.Manifest,
		}
	}
	if len(projects) == 0 {
		return status
	}

	for _, c := range commits {
		target := projects[0].Name
		if monorepo {
			if _, known := status[c.Scope]; !known {
				continue
			}
			target = c.Scope
		}

		s := status[target]
		inc, reset := Classify(c, target)
		if inc > versioning.None {
			s.Increment = versioning.Max(s.Increment, inc)
			s.Commits = append(s.Commits, c)
		}
		if reset {
			s.Increment = versioning.None
			s.Commits = nil
		}
	}

	for name, s := range status {
		if s.Increment == versioning.None {
			delete(status, name)
		}
	}
	return status
}
