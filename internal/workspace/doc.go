// Package workspace models the projects of a monorepo and loads them from the
// directories matched by the configured package globs.
package workspace
