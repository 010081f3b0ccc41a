//go:build integration && !windows

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// testEnv is a throwaway monorepo with its own git history and package manager.
type testEnv struct {
	Root string
	Repo *git.Repository
	// Npm is a fake package manager that records the manifest it installed from.
	Npm string

	commits int
}

// fakeNpm copies the manifest it was run against to .installed-package.json,
// installs a registry copy of @acme/core when the manifest still declares it,
// and fails when the manifest names a package called "broken".
const fakeNpm = `#!/bin/sh
[ "$1" = "install" ] || exit 64
cp package.json .installed-package.json
if grep -q '"broken"' package.json; then
  echo "npm ERR! 404 broken not found" >&2
  exit 1
fi
mkdir -p node_modules
if grep -q '"@acme/core"' package.json; then
  mkdir -p node_modules/@acme/core
  echo '{"name": "@acme/core", "version": "1.4.0"}' > node_modules/@acme/core/package.json
fi
`

// setupTestEnv creates an empty git repository and a fake npm binary.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	if err != nil {
		t.Fatalf("git init: %v", err)
	}

	npm := filepath.Join(t.TempDir(), "npm")
	writeFile(t, npm, fakeNpm)
	if err := os.Chmod(npm, 0o755); err != nil {
		t.Fatalf("chmod npm: %v", err)
	}

	return &testEnv{Root: root, Repo: repo, Npm: npm}
}

// writePackage writes packages/<dir>/package.json.
func (e *testEnv) writePackage(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(e.Root, "packages", dir)
	writeFile(t, filepath.Join(path, "package.json"), content)
	return path
}

// commit stages everything and commits it with msg.
func (e *testEnv) commit(t *testing.T, msg string) {
	t.Helper()
	wt, err := e.Repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	// Give every commit a file change so none is empty.
	e.commits++
	writeFile(t, filepath.Join(e.Root, "CHANGES"), strings.Repeat("x\n", e.commits))
	if err := wt.AddGlob("."); err != nil {
		t.Fatalf("git add: %v", err)
	}
	when := time.Date(2024, 1, 1, 0, 0, e.commits, 0, time.UTC)
	if _, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: when},
	}); err != nil {
		t.Fatalf("git commit: %v", err)
	}
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating dir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// assertSymlinkTo fails the test unless path is a symlink to target.
func assertSymlinkTo(t *testing.T, path, target string) {
	t.Helper()
	got, err := os.Readlink(path)
	if err != nil {
		t.Errorf("expected symlink at %s: %v", path, err)
		return
	}
	if got != target {
		t.Errorf("%s links to %s, want %s", path, got, target)
	}
}

// assertNotExists fails the test if anything exists at path.
func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err == nil {
		t.Errorf("expected nothing at %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	if data := readFile(t, path); !strings.Contains(data, substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, data)
	}
}

// assertFileLacks fails if the file contains substr.
func assertFileLacks(t *testing.T, path, substr string) {
	t.Helper()
	if data := readFile(t, path); strings.Contains(data, substr) {
		t.Errorf("file %s unexpectedly contains %q.\nContents:\n%s", path, substr, data)
	}
}
