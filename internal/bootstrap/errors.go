package bootstrap

import (
	"errors"
	"fmt"
)

// ErrNoProjects is returned when the project filter selects nothing.
var ErrNoProjects = errors.New("no projects were found")

// ManifestIOError is a failure to back up, write, or restore a manifest.
type ManifestIOError struct {
	Project string
	Op      string
	Path    string
	Err     error
}

func (e *ManifestIOError) Error() string {
	return fmt.Sprintf("%s: %s manifest %s: %v", e.Project, e.Op, e.Path, e.Err)
}

func (e *ManifestIOError) Unwrap() error { return e.Err }

// InstallError is a package manager run that did not succeed.
type InstallError struct {
	Dir      string
	ExitCode int
	Output   string
	Err      error
}

func (e *InstallError) Error() string {
	msg := fmt.Sprintf("install in %s failed", e.Dir)
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" with exit code %d", e.ExitCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *InstallError) Unwrap() error { return e.Err }

// LinkError is a failure to link one local dependency into a project.
type LinkError struct {
	Project    string
	Dependency string
	Err        error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("linking %s into %s: %v", e.Dependency, e.Project, e.Err)
}

func (e *LinkError) Unwrap() error { return e.Err }
