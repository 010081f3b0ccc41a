package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalid is wrapped by errors returned for manifests that fail schema validation.
var ErrInvalid = errors.New("invalid manifest")

// PathIn returns the manifest path inside a project directory.
func PathIn(projectDir string) string {
	return filepath.Join(projectDir, FileName)
}

// Read reads, validates, and decodes the manifest at path.
func Read(path string) (*PackageManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, path)
}

// Decode validates raw manifest bytes and decodes them. source is used in
// error messages only.
func Decode(data []byte, source string) (*PackageManifest, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating manifest %s: %w", source, err)
	}
	if !result.Valid {
		msgs := make([]string, 0, len(result.Issues))
		for _, issue := range result.Issues {
			msgs = append(msgs, issue.String())
		}
		return nil, fmt.Errorf("%w %s: %s", ErrInvalid, source, strings.Join(msgs, "; "))
	}

	var m PackageManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", source, err)
	}
	if err := json.Unmarshal(data, &m.raw); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", source, err)
	}

	return &m, nil
}

// Write encodes the manifest and writes it to path.
func Write(path string, m *PackageManifest) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
