package bootstrap

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/agentx-labs/monolink/internal/manifest"
)

const appManifest = `{
  "name": "app",
  "version": "1.0.0",
  "private": true,
  "dependencies": {
    "core": "^1.0.0",
    "ui": "^2.0.0",
    "react": "^18.2.0"
  },
  "devDependencies": {
    "tooling": "~0.3.0",
    "jest": "^29.0.0"
  }
}
`

func installerLocal() LocalDependencies {
	return LocalDependencies{
		"core":    {Version: "1.0.1"},
		"ui":      {Version: "1.4.0"},
		"tooling": {Version: "0.4.0"},
	}
}

func TestInstallFiltersManifest(t *testing.T) {
	root := t.TempDir()
	app := writeProject(t, root, "app", appManifest)
	pm := newFakePackageManager()

	in := &Installer{PackageManager: pm, Local: installerLocal(), Registry: newRegistry()}
	if err := in.Install(context.Background(), app); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	seen := pm.manifestFor(app.Path)
	if seen == nil {
		t.Fatal("package manager did not run")
	}
	// core's range accepts 1.0.1 and stays; ui and tooling do not accept
	// their next versions and are left to linking.
	for name, want := range map[string]bool{"core": true, "ui": false, "react": true} {
		if _, ok := seen.Dependencies[name]; ok != want {
			t.Errorf("dependency %s present = %v, want %v", name, ok, want)
		}
	}
	for name, want := range map[string]bool{"tooling": false, "jest": true} {
		if _, ok := seen.DevDependencies[name]; ok != want {
			t.Errorf("devDependency %s present = %v, want %v", name, ok, want)
		}
	}
}

func TestInstallIgnoreSemVerDropsAllLocal(t *testing.T) {
	root := t.TempDir()
	app := writeProject(t, root, "app", appManifest)
	pm := newFakePackageManager()

	in := &Installer{PackageManager: pm, Local: installerLocal(), IgnoreSemVer: true, Registry: newRegistry()}
	if err := in.Install(context.Background(), app); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	seen := pm.manifestFor(app.Path)
	if len(seen.Dependencies) != 1 || seen.Dependencies["react"] == "" {
		t.Errorf("dependencies = %v, want only react", seen.Dependencies)
	}
	if len(seen.DevDependencies) != 1 || seen.DevDependencies["jest"] == "" {
		t.Errorf("devDependencies = %v, want only jest", seen.DevDependencies)
	}
}

func TestInstallRestoresManifestOnSuccess(t *testing.T) {
	root := t.TempDir()
	app := writeProject(t, root, "app", appManifest)
	registry := newRegistry()

	in := &Installer{PackageManager: newFakePackageManager(), Local: installerLocal(), Registry: registry}
	if err := in.Install(context.Background(), app); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	path := manifest.PathIn(app.Path)
	if got := readFile(t, path); got != appManifest {
		t.Errorf("manifest not restored byte-for-byte:\n%s", got)
	}
	if _, err := os.Stat(path + BackupSuffix); !os.IsNotExist(err) {
		t.Error("backup left behind")
	}
	if registry.Len() != 0 {
		t.Error("restore still registered after install")
	}
}

func TestInstallRestoresManifestOnFailure(t *testing.T) {
	root := t.TempDir()
	app := writeProject(t, root, "app", appManifest)
	registry := newRegistry()
	pm := newFakePackageManager()
	failure := &InstallError{Dir: app.Path, ExitCode: 1}
	pm.fail[app.Path] = failure

	in := &Installer{PackageManager: pm, Local: installerLocal(), Registry: registry}
	err := in.Install(context.Background(), app)

	var installErr *InstallError
	if !errors.As(err, &installErr) {
		t.Fatalf("expected InstallError, got %v", err)
	}
	if got := readFile(t, manifest.PathIn(app.Path)); got != appManifest {
		t.Errorf("manifest not restored after failure:\n%s", got)
	}
	if registry.Len() != 0 {
		t.Error("restore still registered after failed install")
	}
}

func TestInstallRestoresManifestOnInterrupt(t *testing.T) {
	root := t.TempDir()
	app := writeProject(t, root, "app", appManifest)
	registry := newRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pm := newFakePackageManager()
	pm.onRun = func(dir string) {
		// An interrupt arrives while the rewritten manifest is on disk.
		if got := readFile(t, manifest.PathIn(dir)); got == appManifest {
			t.Error("manifest was not rewritten before install")
		}
		registry.RunAll()
		if got := readFile(t, manifest.PathIn(dir)); got != appManifest {
			t.Errorf("interrupt did not restore manifest:\n%s", got)
		}
		cancel()
	}

	in := &Installer{PackageManager: pm, Local: installerLocal(), Registry: registry}
	err := in.Install(ctx, app)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	var ioErr *ManifestIOError
	if errors.As(err, &ioErr) {
		t.Errorf("restore after interrupt reported an error: %v", ioErr)
	}
	if got := readFile(t, manifest.PathIn(app.Path)); got != appManifest {
		t.Errorf("manifest changed after interrupted install:\n%s", got)
	}
}

func TestInstallRefusesLeftoverBackup(t *testing.T) {
	root := t.TempDir()
	app := writeProject(t, root, "app", appManifest)
	path := manifest.PathIn(app.Path)
	if err := os.WriteFile(path+BackupSuffix, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	pm := newFakePackageManager()

	in := &Installer{PackageManager: pm, Local: installerLocal(), Registry: newRegistry()}
	err := in.Install(context.Background(), app)

	var ioErr *ManifestIOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected ManifestIOError, got %v", err)
	}
	if pm.installs != 0 {
		t.Error("package manager ran despite leftover backup")
	}
	if got := readFile(t, path); got != appManifest {
		t.Errorf("manifest modified:\n%s", got)
	}
}

func TestInstallMissingManifest(t *testing.T) {
	app := project("ghost", "1.0.0")
	app.Path = t.TempDir()

	in := &Installer{PackageManager: newFakePackageManager(), Registry: newRegistry()}
	err := in.Install(context.Background(), app)

	var ioErr *ManifestIOError
	if !errors.As(err, &ioErr) || ioErr.Op != "read" {
		t.Fatalf("expected read ManifestIOError, got %v", err)
	}
}

func TestInstallWritesRangesVerbatim(t *testing.T) {
	root := t.TempDir()
	app := writeProject(t, root, "app", `{
  "name": "app",
  "version": "1.0.0",
  "dependencies": {"core": ">=1.0.0 <2.0.0", "react": ">=18"}
}
`)
	pm := newFakePackageManager()
	var rewritten string
	pm.onRun = func(dir string) { rewritten = readFile(t, manifest.PathIn(dir)) }

	in := &Installer{PackageManager: pm, Local: LocalDependencies{"core": {Version: "2.0.0"}}, Registry: newRegistry()}
	if err := in.Install(context.Background(), app); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	if !strings.Contains(rewritten, `"react": ">=18"`) {
		t.Errorf("range rewritten with escapes:\n%s", rewritten)
	}
	if strings.Contains(rewritten, `"core"`) {
		t.Errorf("core should be removed from the install:\n%s", rewritten)
	}
}
