// Package bootstrap installs and links the packages of a monorepo.
//
// It first works out which local packages are about to be released with a
// new version (the local dependency set). Every selected project is then
// installed through the package manager with those dependencies removed from
// its manifest, and finally the local packages are linked into each
// project's dependency directory.
package bootstrap
