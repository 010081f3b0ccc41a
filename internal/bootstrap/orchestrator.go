package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/agentx-labs/monolink/internal/cleanup"
	"github.com/agentx-labs/monolink/internal/tasks"
	"github.com/agentx-labs/monolink/internal/workspace"
)

// Phase titles.
const (
	PhaseInstall = "Installing dependencies"
	PhaseLink    = "Linking local dependencies"
)

// Options controls one bootstrap run.
type Options struct {
	// Names selects projects by name; empty selects all.
	Names []string
	// LinkAll links every local project regardless of versions.
	LinkAll bool
	// Monorepo enables commit-based estimation of the local dependency set.
	Monorepo   bool
	Concurrent int
	Verbose    bool
	// DependencyDir defaults to DefaultDependencyDir.
	DependencyDir string
}

// Orchestrator bootstraps a set of projects.
type Orchestrator struct {
	Projects       []workspace.Project
	History        HistorySource
	PackageManager PackageManager
	// Registry receives manifest restores; defaults to cleanup.Default.
	Registry *cleanup.Registry

	Out io.Writer
	Err io.Writer
}

// SelectProjects returns the projects matching names, or ErrNoProjects.
func SelectProjects(projects []workspace.Project, names []string) ([]workspace.Project, error) {
	selected := workspace.Select(projects, names)
	if len(selected) == 0 {
		return nil, ErrNoProjects
	}
	return selected, nil
}

// LocalDependencySet computes the dependencies that will be linked. With
// LinkAll every project qualifies; outside monorepo mode none does;
// otherwise only projects with a pending version change.
func (o *Orchestrator) LocalDependencySet(ctx context.Context, opts Options) (LocalDependencies, error) {
	switch {
	case opts.LinkAll:
		return AllLocal(o.Projects), nil
	case !opts.Monorepo:
		return LocalDependencies{}, nil
	}
	if o.History == nil {
		return nil, errors.New("monorepo mode needs a commit history source")
	}
	_, local, err := Estimate(ctx, o.Projects, o.History)
	return local, err
}

// Run installs every selected project and then links local dependencies into
// them. Linking starts only after all installs have settled, and is skipped
// when any install failed. An empty selection prints a warning and succeeds.
func (o *Orchestrator) Run(ctx context.Context, opts Options) error {
	out := writerOr(o.Out, io.Discard)
	errOut := writerOr(o.Err, io.Discard)

	selected, err := SelectProjects(o.Projects, opts.Names)
	if err != nil {
		if errors.Is(err, ErrNoProjects) {
			fmt.Fprintln(errOut, "warning: No projects were found")
			return nil
		}
		return err
	}

	local, err := o.LocalDependencySet(ctx, opts)
	if err != nil {
		return err
	}

	installer := &Installer{
		PackageManager: o.PackageManager,
		Local:          local,
		IgnoreSemVer:   opts.LinkAll,
		Verbose:        opts.Verbose,
		Registry:       o.Registry,
	}
	linker := &Linker{
		Local:         local,
		Concurrency:   opts.Concurrent,
		DependencyDir: opts.DependencyDir,
	}

	runner := tasks.NewRunner(out, opts.Concurrent)

	installTasks := make([]tasks.Task, 0, len(selected))
	linkTasks := make([]tasks.Task, 0, len(selected))
	for _, p := range selected {
		installTasks = append(installTasks, tasks.Task{
			Title: p.Name,
			Run:   func(ctx context.Context) error { return installer.Install(ctx, p) },
		})
		linkTasks = append(linkTasks, tasks.Task{
			Title: p.Name,
			Run:   func(ctx context.Context) error { return linker.Link(ctx, p) },
		})
	}

	if err := runner.Phase(ctx, PhaseInstall, installTasks); err != nil {
		return fmt.Errorf("installing dependencies: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := runner.Phase(ctx, PhaseLink, linkTasks); err != nil {
		return fmt.Errorf("linking local dependencies: %w", err)
	}
	return nil
}
