package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/monolink/internal/config"
	"github.com/agentx-labs/monolink/internal/workspace"
	"github.com/spf13/viper"
)

// repo is a loaded repository: its settings and the projects they select.
type repo struct {
	Root     string
	Viper    *viper.Viper
	Settings config.Settings
	Projects []workspace.Project
}

// resolveRoot returns the absolute repository root from --root or the
// working directory.
func resolveRoot() (string, error) {
	if rootDir != "" {
		return filepath.Abs(rootDir)
	}
	return os.Getwd()
}

// loadSettings reads the repository settings without loading projects.
func loadSettings() (string, *viper.Viper, error) {
	root, err := resolveRoot()
	if err != nil {
		return "", nil, fmt.Errorf("resolving repository root: %w", err)
	}
	v, err := config.Load(root)
	if err != nil {
		return "", nil, err
	}
	return root, v, nil
}

func loadRepo() (*repo, error) {
	root, v, err := loadSettings()
	if err != nil {
		return nil, err
	}
	settings := config.Resolve(v)

	// Outside monorepo mode the repository root is the only project.
	var projects []workspace.Project
	if settings.Mono {
		projects, err = workspace.Load(root, settings.Packages)
	} else {
		var p workspace.Project
		if p, err = workspace.LoadProject(root); err == nil {
			projects = []workspace.Project{p}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	return &repo{Root: root, Viper: v, Settings: settings, Projects: projects}, nil
}
