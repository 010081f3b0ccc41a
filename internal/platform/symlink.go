package platform

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrPathCollision is returned when a link destination is occupied by
// something other than a link.
var ErrPathCollision = errors.New("path exists and is not a link")

// CreateDirLink links the directory link to target. An existing link at that
// path is replaced, and a link already pointing at target is left untouched.
// A real file or directory at link is an ErrPathCollision.
//
// On Windows without symlink privileges a directory junction is created.
func CreateDirLink(target, link string) error {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolving link target %s: %w", target, err)
	}

	done, err := prepareLinkPath(absTarget, link)
	if err != nil || done {
		return err
	}

	if runtime.GOOS != "windows" || IsSymlinkSupported() {
		return os.Symlink(absTarget, link)
	}
	return createJunction(absTarget, link)
}

// CreateSymlink creates a symbolic link from link pointing to target,
// replacing an existing link at that path.
// On Windows, it attempts os.Symlink first (requires developer mode),
// then falls back to copying the file and writing a .target sidecar.
func CreateSymlink(target, link string) error {
	done, err := prepareLinkPath(target, link)
	if err != nil || done {
		return err
	}

	if runtime.GOOS != "windows" {
		return os.Symlink(target, link)
	}

	if err := os.Symlink(target, link); err == nil {
		return nil
	}

	if err := copyFileForSymlink(target, link); err != nil {
		return fmt.Errorf("symlink fallback (copy) failed: %w", err)
	}

	// Sidecar lets ReadSymlinkTarget recover the original target; the copy
	// alone is usable without it.
	_ = os.WriteFile(link+".target", []byte(target), 0o644)
	return nil
}

// RemoveSymlink removes a symlink (or its fallback copy and sidecar).
func RemoveSymlink(path string) error {
	err := os.Remove(path)
	os.Remove(path + ".target") // best-effort
	return err
}

// ReadSymlinkTarget returns the target of a symlink.
// On Windows, if os.Readlink fails (because a copy fallback was used),
// it reads from the .target sidecar file.
func ReadSymlinkTarget(path string) (string, error) {
	target, err := os.Readlink(path)
	if err == nil {
		return target, nil
	}

	if runtime.GOOS != "windows" {
		return "", err
	}

	data, readErr := os.ReadFile(path + ".target")
	if readErr != nil {
		return "", fmt.Errorf("readlink failed and no .target sidecar found: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// IsSymlinkSupported returns true if the current platform supports native symlinks.
// On Windows this attempts a test symlink to check developer mode.
func IsSymlinkSupported() bool {
	if runtime.GOOS != "windows" {
		return true
	}

	tmpDir := os.TempDir()
	link := filepath.Join(tmpDir, ".monolink-symlink-test")
	defer os.Remove(link)

	return os.Symlink(tmpDir, link) == nil
}

// prepareLinkPath clears an existing link at path. It reports done when the
// existing link already resolves to target.
func prepareLinkPath(target, path string) (done bool, err error) {
	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("inspecting %s: %w", path, err)
	}

	// Windows junctions report ModeIrregular rather than ModeSymlink.
	if info.Mode()&(os.ModeSymlink|os.ModeIrregular) == 0 && !isSidecarCopy(path) {
		return false, fmt.Errorf("%s: %w", path, ErrPathCollision)
	}

	if current, err := ReadSymlinkTarget(path); err == nil && current == target {
		return true, nil
	}

	if err := RemoveSymlink(path); err != nil {
		return false, fmt.Errorf("removing stale link %s: %w", path, err)
	}
	return false, nil
}

// isSidecarCopy reports whether path is a copy fallback written by CreateSymlink.
func isSidecarCopy(path string) bool {
	_, err := os.Stat(path + ".target")
	return err == nil
}

// createJunction creates an NTFS directory junction, which needs no special
// privileges on Windows.
func createJunction(target, link string) error {
	out, err := exec.Command("cmd", "/c", "mklink", "/J", link, target).CombinedOutput()
	if err != nil {
		return fmt.Errorf("creating junction %s: %w: %s", link, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// copyFileForSymlink copies src to dst. If src is a relative path, it
// resolves relative to the directory containing dst.
func copyFileForSymlink(src, dst string) error {
	resolvedSrc := src
	if !filepath.IsAbs(src) {
		resolvedSrc = filepath.Join(filepath.Dir(dst), src)
	}

	in, err := os.Open(resolvedSrc)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
