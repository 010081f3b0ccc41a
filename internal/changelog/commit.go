package changelog

import (
	"strings"

	"github.com/agentx-labs/monolink/internal/versioning"
)

// CommitType is the conventional-commit type relevant to version estimation.
type CommitType string

const (
	TypeFix     CommitType = "fix"
	TypeFeat    CommitType = "feat"
	TypePerf    CommitType = "perf"
	TypeRelease CommitType = "release"
	TypeOther   CommitType = "other"
)

// ParseType maps a raw commit type to a CommitType. Unknown types are TypeOther.
func ParseType(raw string) CommitType {
	switch t := CommitType(strings.ToLower(strings.TrimSpace(raw))); t {
	case TypeFix, TypeFeat, TypePerf, TypeRelease:
		return t
	default:
		return TypeOther
	}
}

// Commit is a classified history entry. An empty Scope means the commit has none.
type Commit struct {
	Type           CommitType
	Scope          string
	BreakingChange bool

	Hash    string
	Subject string
}

// Classify returns the increment a commit contributes to the project it
// targets and whether the commit closes that project's release window.
// A release commit resets only when its scope names the target project; it
// never contributes an increment itself.
func Classify(c Commit, project string) (inc versioning.Increment, reset bool) {
	switch c.Type {
	case TypeFix, TypePerf:
		inc = versioning.Patch
	case TypeFeat:
		inc = versioning.Minor
	}
	if c.BreakingChange {
		inc = versioning.Major
	}
	if c.Type == TypeRelease && c.Scope == project {
		reset = true
	}
	return inc, reset
}
