package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/agentx-labs/monolink/internal/cleanup"
	"github.com/agentx-labs/monolink/internal/manifest"
	"github.com/agentx-labs/monolink/internal/workspace"
)

// writeProject creates packages/<dir>/package.json under root and loads it.
func writeProject(t *testing.T, root, dir, content string) workspace.Project {
	t.Helper()
	path := filepath.Join(root, "packages", dir)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(manifest.PathIn(path), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := workspace.LoadProject(path)
	if err != nil {
		t.Fatalf("loading project %s: %v", dir, err)
	}
	return p
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// fakePackageManager records the manifest each install saw.
type fakePackageManager struct {
	mu       sync.Mutex
	seen     map[string]*manifest.PackageManifest
	fail     map[string]error
	onRun    func(dir string)
	installs int

	// materialize creates a real dependency directory for every dependency
	// in the manifest, the way a registry install does.
	materialize bool
}

func newFakePackageManager() *fakePackageManager {
	return &fakePackageManager{
		seen: make(map[string]*manifest.PackageManifest),
		fail: make(map[string]error),
	}
}

func (f *fakePackageManager) Install(ctx context.Context, dir string, verbose bool) error {
	m, err := manifest.Read(manifest.PathIn(dir))

	f.mu.Lock()
	f.installs++
	if err == nil {
		f.seen[dir] = m
	}
	failure := f.fail[dir]
	onRun := f.onRun
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if f.materialize {
		for _, name := range m.DependencyNames() {
			if err := os.MkdirAll(filepath.Join(dir, DefaultDependencyDir, filepath.FromSlash(name)), 0o755); err != nil {
				return err
			}
		}
	}
	if onRun != nil {
		onRun(dir)
	}
	if failure != nil {
		return failure
	}
	return ctx.Err()
}

func (f *fakePackageManager) manifestFor(dir string) *manifest.PackageManifest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[dir]
}

func newRegistry() *cleanup.Registry { return cleanup.NewRegistry() }
