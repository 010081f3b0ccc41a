// Package changelog estimates, per project, the semantic-version increment
// implied by the commits since that project's last release. Commits are read
// from git history, parsed as conventional commits, classified, and folded
// into a per-project status that resets on each release commit.
package changelog
