package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/agentx-labs/monolink/internal/cleanup"
	"github.com/agentx-labs/monolink/internal/manifest"
	"github.com/agentx-labs/monolink/internal/workspace"
)

// BackupSuffix is appended to a manifest path to name its backup.
const BackupSuffix = ".backup"

// Installer installs one project's registry dependencies with its local
// dependencies temporarily removed from the manifest.
type Installer struct {
	PackageManager PackageManager
	Local          LocalDependencies
	IgnoreSemVer   bool
	Verbose        bool

	// Registry receives the manifest restore while the manifest is rewritten;
	// defaults to cleanup.Default.
	Registry *cleanup.Registry
}

// Install rewrites the project's manifest without the dependencies that will
// be linked, runs the package manager, and puts the original manifest back.
// The original file is restored on every return path, and by the registry if
// the process is interrupted first.
func (in *Installer) Install(ctx context.Context, project workspace.Project) error {
	path := manifest.PathIn(project.Path)
	backup := path + BackupSuffix

	m, err := manifest.Read(path)
	if err != nil {
		return &ManifestIOError{Project: project.Name, Op: "read", Path: path, Err: err}
	}

	filtered := m.WithDependencies(
		filterDependencies(m.Dependencies, in.Local, in.IgnoreSemVer),
		filterDependencies(m.DevDependencies, in.Local, in.IgnoreSemVer),
	)

	// A leftover backup means an earlier run never restored; renaming over it
	// would lose the only copy of the original manifest.
	if _, err := os.Lstat(backup); err == nil {
		return &ManifestIOError{Project: project.Name, Op: "back up", Path: path,
			Err: fmt.Errorf("backup %s already exists; restore it before bootstrapping", backup)}
	}

	if err := os.Rename(path, backup); err != nil {
		return &ManifestIOError{Project: project.Name, Op: "back up", Path: path, Err: err}
	}

	registry := in.Registry
	if registry == nil {
		registry = cleanup.Default
	}
	guard := cleanup.Acquire(registry, func() error {
		return os.Rename(backup, path)
	})

	restore := func() error {
		if err := guard.Release(); err != nil {
			return &ManifestIOError{Project: project.Name, Op: "restore", Path: path, Err: err}
		}
		return nil
	}

	if err := manifest.Write(path, filtered); err != nil {
		writeErr := &ManifestIOError{Project: project.Name, Op: "write", Path: path, Err: err}
		return errors.Join(writeErr, restore())
	}

	installErr := in.PackageManager.Install(ctx, project.Path, in.Verbose)
	if restoreErr := restore(); restoreErr != nil {
		return errors.Join(installErr, restoreErr)
	}
	return installErr
}
