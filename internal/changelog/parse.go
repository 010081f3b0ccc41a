package changelog

import (
	"regexp"
	"strings"

	"github.com/leodido/go-conventionalcommits"
	"github.com/leodido/go-conventionalcommits/parser"
)

// headerPattern matches "type(scope)!: description" for headers the grammar
// machine rejects, such as scopes containing npm package separators.
var headerPattern = regexp.MustCompile(`^([A-Za-z]+)(?:\(([^()]*)\))?(!)?: \S`)

// Parser turns raw commit messages into Commit records. It is not safe for
// concurrent use.
type Parser struct {
	machine conventionalcommits.Machine
}

// NewParser returns a Parser that accepts any commit type, so that release
// commits and project-specific types parse alongside the conventional ones.
func NewParser() *Parser {
	return &Parser{
		machine: parser.NewMachine(
			parser.WithTypes(conventionalcommits.TypesFreeForm),
			parser.WithBestEffort(),
		),
	}
}

// Parse classifies one commit message. Messages that are not conventional
// commits yield TypeOther with no scope.
func (p *Parser) Parse(hash, message string) Commit {
	message = strings.TrimSpace(message)
	c := Commit{
		Type:    TypeOther,
		Hash:    hash,
		Subject: firstLine(message),
	}

	res, err := p.machine.Parse([]byte(message))
	cc, ok := res.(*conventionalcommits.ConventionalCommit)
	if err != nil || !ok || cc == nil || cc.Type == "" {
		return parseHeader(c, message)
	}

	c.Type = ParseType(cc.Type)
	if cc.Scope != nil {
		c.Scope = strings.TrimSpace(*cc.Scope)
	}
	c.BreakingChange = cc.Exclamation || breakingFooterKey(cc.Footers) || hasBreakingFooter(message)
	return c
}

func parseHeader(c Commit, message string) Commit {
	m := headerPattern.FindStringSubmatch(c.Subject)
	if m == nil {
		return c
	}
	c.Type = ParseType(m[1])
	c.Scope = strings.TrimSpace(m[2])
	c.BreakingChange = m[3] == "!" || hasBreakingFooter(message)
	return c
}

func breakingFooterKey(footers map[string][]string) bool {
	for key := range footers {
		switch strings.ToLower(key) {
		case "breaking change", "breaking-change":
			return true
		}
	}
	return false
}

func hasBreakingFooter(message string) bool {
	for _, line := range strings.Split(message, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "BREAKING CHANGE:") || strings.HasPrefix(line, "BREAKING-CHANGE:") {
			return true
		}
	}
	return false
}

func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return strings.TrimSpace(message[:i])
	}
	return message
}
