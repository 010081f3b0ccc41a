// Package versioning models semantic-version increments and answers the two
// version questions bootstrapping needs: what a project's next version will be,
// and whether a dependency range accepts it.
package versioning
