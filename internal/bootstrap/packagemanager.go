package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// maxOutputLines bounds the captured output attached to an InstallError.
const maxOutputLines = 20

// PackageManager installs the dependencies declared in a directory's manifest.
type PackageManager interface {
	Install(ctx context.Context, dir string, verbose bool) error
}

// ExecPackageManager runs `<Binary> install` as a subprocess.
type ExecPackageManager struct {
	Binary string

	// Stdout and Stderr receive output in verbose mode; defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// Install runs the install command in dir. Output is streamed when verbose
// and otherwise captured and attached to the returned error.
func (m *ExecPackageManager) Install(ctx context.Context, dir string, verbose bool) error {
	bin, err := exec.LookPath(m.Binary)
	if err != nil {
		return &InstallError{Dir: dir, Err: fmt.Errorf("package manager %q not found: %w", m.Binary, err)}
	}

	cmd := exec.CommandContext(ctx, bin, "install")
	cmd.Dir = dir

	var captured bytes.Buffer
	if verbose {
		cmd.Stdout = writerOr(m.Stdout, os.Stdout)
		cmd.Stderr = writerOr(m.Stderr, os.Stderr)
	} else {
		cmd.Stdout = &captured
		cmd.Stderr = &captured
	}

	if err := cmd.Run(); err != nil {
		installErr := &InstallError{Dir: dir, Output: tail(captured.String(), maxOutputLines)}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			installErr.ExitCode = exitErr.ExitCode()
		}
		if ctx.Err() != nil {
			installErr.Err = ctx.Err()
		} else if installErr.ExitCode <= 0 {
			installErr.Err = err
		}
		return installErr
	}
	return nil
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}

// tail returns the last n non-empty lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
