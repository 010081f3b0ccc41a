package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/monolink/internal/branding"
	"github.com/spf13/viper"
)

const fileType = "yaml"

// Setting keys.
const (
	KeyNpmBinary     = "npm_binary"
	KeyMono          = "mono"
	KeyPackages      = "packages"
	KeyConcurrent    = "concurrent"
	KeyDependencyDir = "dependency_dir"
)

// Settings holds the resolved repository settings.
type Settings struct {
	NpmBinary     string
	Mono          bool
	Packages      []string
	Concurrent    int
	DependencyDir string
}

// FilePath returns the full path to the settings file for a repository root.
func FilePath(root string) string {
	return filepath.Join(root, branding.ConfigFile())
}

// Load initializes a Viper instance that reads the settings file under root
// and environment variables prefixed with the branding env prefix.
// A missing settings file is not an error.
func Load(root string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(KeyNpmBinary, "npm")
	v.SetDefault(KeyMono, true)
	v.SetDefault(KeyPackages, []string{"packages/*"})
	v.SetDefault(KeyConcurrent, 2)
	v.SetDefault(KeyDependencyDir, "node_modules")

	v.SetConfigFile(FilePath(root))
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading settings %s: %w", FilePath(root), err)
		}
	}
	return v, nil
}

// Resolve extracts typed Settings from a loaded Viper instance.
func Resolve(v *viper.Viper) Settings {
	s := Settings{
		NpmBinary:     v.GetString(KeyNpmBinary),
		Mono:          v.GetBool(KeyMono),
		Packages:      v.GetStringSlice(KeyPackages),
		Concurrent:    v.GetInt(KeyConcurrent),
		DependencyDir: v.GetString(KeyDependencyDir),
	}
	if s.Concurrent < 1 {
		s.Concurrent = 1
	}
	return s
}

// Get returns a setting by key. Lists are joined with commas. Returns empty
// string if not set.
func Get(v *viper.Viper, key string) string {
	switch v.Get(key).(type) {
	case []string, []any:
		return strings.Join(v.GetStringSlice(key), ",")
	}
	return v.GetString(key)
}

// Set writes a key-value pair into the settings file under root.
func Set(root, key, value string) error {
	v, err := Load(root)
	if err != nil {
		return err
	}

	if key == KeyPackages {
		v.Set(key, strings.Split(value, ","))
	} else {
		v.Set(key, value)
	}

	configFile := FilePath(root)
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}

	return nil
}
