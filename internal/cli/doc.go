// Package cli defines the Cobra command tree for the monolink CLI. Each file
// in this package registers one top-level command (bootstrap, status, list,
// etc.) with the root command. Commands load the repository through
// loadRepo and delegate to internal packages for business logic; they only
// handle flag parsing and output formatting.
package cli
