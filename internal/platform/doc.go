// Package platform provides cross-platform filesystem operations for linking
// packages: directory links, executable symlinks, and permission changes. On
// Unix systems it uses native symlinks and chmod directly. On Windows it
// creates directory junctions when symlinks need developer mode, and falls
// back to copying files with a .target sidecar for file links.
package platform
