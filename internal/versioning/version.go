package versioning

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Increment is a semantic-version bump class. Values are ordered so that the
// larger of two increments is the stronger bump.
type Increment int

const (
	None Increment = iota
	Patch
	Minor
	Major
)

func (i Increment) String() string {
	switch i {
	case None:
		return "none"
	case Patch:
		return "patch"
	case Minor:
		return "minor"
	case Major:
		return "major"
	default:
		return fmt.Sprintf("Increment(%d)", int(i))
	}
}

// Max returns the stronger of two increments.
func Max(a, b Increment) Increment {
	if b > a {
		return b
	}
	return a
}

// Bump applies an increment to a version string.
//
// Versions below 1.0.0 treat a minor increment as a patch increment, so
// features on 0.y.z only move z. A major increment always moves to the next
// major version. None returns the version unchanged (normalized).
func Bump(current string, inc Increment) (string, error) {
	v, err := parseSemver(current)
	if err != nil {
		return "", fmt.Errorf("parsing version %q: %w", current, err)
	}

	var next semver.Version
	switch inc {
	case None:
		next = *v
	case Patch:
		next = v.IncPatch()
	case Minor:
		if v.Major() == 0 {
			next = v.IncPatch()
		} else {
			next = v.IncMinor()
		}
	case Major:
		next = v.IncMajor()
	default:
		return "", fmt.Errorf("unknown increment %d", int(inc))
	}
	return next.String(), nil
}

// Satisfies reports whether version falls inside the dependency range
// constraint. Ranges or versions that cannot be parsed (tags, file: or git
// specifiers) never satisfy.
func Satisfies(version, constraint string) bool {
	v, err := parseSemver(version)
	if err != nil {
		return false
	}
	c, err := semver.NewConstraint(strings.TrimSpace(constraint))
	if err != nil {
		return false
	}
	return c.Check(v)
}

// parseSemver strips a leading "v" and parses the version string strictly.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	return semver.StrictNewVersion(version)
}
