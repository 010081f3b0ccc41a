// Package manifest handles reading, validating, and rewriting package.json
// manifests. Manifests are validated against an embedded JSON schema at the
// point they are read, so the rest of the tool works with typed records only.
package manifest
