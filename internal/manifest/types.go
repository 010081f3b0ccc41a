package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
)

// FileName is the manifest file name inside a project directory.
const FileName = "package.json"

// PackageManifest is the typed view of a package.json file. Fields the tool
// does not model are kept in raw so that a rewritten manifest preserves them.
type PackageManifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
	Bin             Bin               `json:"bin"`

	raw map[string]json.RawMessage
}

// Bin is the "bin" field of a manifest. npm accepts either a single path,
// installed under the package's own name, or a map of command name to path.
type Bin struct {
	Path     string
	Commands map[string]string
}

// UnmarshalJSON accepts both the string and the object form.
func (b *Bin) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		b.Path = single
		return nil
	}

	var commands map[string]string
	if err := json.Unmarshal(data, &commands); err != nil {
		return fmt.Errorf("bin must be a string or an object of strings: %w", err)
	}
	b.Commands = commands
	return nil
}

// MarshalJSON writes the form the field was read in.
func (b Bin) MarshalJSON() ([]byte, error) {
	if b.Path != "" {
		return json.Marshal(b.Path)
	}
	return json.Marshal(b.Commands)
}

// IsZero reports whether no executables are declared.
func (b Bin) IsZero() bool {
	return b.Path == "" && len(b.Commands) == 0
}

// Executables returns command name → relative path for a package named pkgName.
// A single-path bin is exposed under the unscoped package name.
func (b Bin) Executables(pkgName string) map[string]string {
	if b.Path != "" {
		return map[string]string{path.Base(strings.TrimPrefix(pkgName, "@")): b.Path}
	}
	out := make(map[string]string, len(b.Commands))
	for name, target := range b.Commands {
		out[name] = target
	}
	return out
}

// DependencyNames returns the sorted union of dependency and devDependency names.
func (m *PackageManifest) DependencyNames() []string {
	seen := make(map[string]bool, len(m.Dependencies)+len(m.DevDependencies))
	var names []string
	for _, deps := range []map[string]string{m.Dependencies, m.DevDependencies} {
		for name := range deps {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// WithDependencies returns a copy of the manifest with both dependency maps
// replaced. Unmodelled fields are shared with the receiver.
func (m *PackageManifest) WithDependencies(deps, devDeps map[string]string) *PackageManifest {
	clone := *m
	clone.Dependencies = deps
	clone.DevDependencies = devDeps
	return &clone
}

// Marshal encodes the manifest as indented JSON with sorted keys, preserving
// fields that are not modelled. A dependency section absent from the original stays absent.
func (m *PackageManifest) Marshal() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(m.raw)+4)
	for k, v := range m.raw {
		out[k] = v
	}

	set := func(key string, value any, present bool) error {
		if !present {
			return nil
		}
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		out[key] = data
		return nil
	}

	_, hadDeps := m.raw["dependencies"]
	_, hadDevDeps := m.raw["devDependencies"]
	if err := set("name", m.Name, true); err != nil {
		return nil, err
	}
	if err := set("version", m.Version, m.Version != ""); err != nil {
		return nil, err
	}
	if err := set("dependencies", nonNil(m.Dependencies), hadDeps || m.Dependencies != nil); err != nil {
		return nil, err
	}
	if err := set("devDependencies", nonNil(m.DevDependencies), hadDevDeps || m.DevDependencies != nil); err != nil {
		return nil, err
	}

	// Ranges such as ">=1.0.0" are written as-is rather than HTML-escaped.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return buf.Bytes(), nil
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
