// Package config manages repository-level settings stored at <root>/.monolink.yaml.
// It provides functions to load, read, and write settings such as the package
// manager binary, monorepo mode, and the project globs used to find packages.
package config
