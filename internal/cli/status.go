package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/agentx-labs/monolink/internal/changelog"
	"github.com/agentx-labs/monolink/internal/versioning"
	"github.com/agentx-labs/monolink/internal/workspace"
	"github.com/spf13/cobra"
)

var (
	statusFrom    string
	statusCommits bool
	statusJSON    bool
)

var statusCmd = &cobra.Command{
	Use:   "status [project...]",
	Short: "Show pending version changes",
	Long: `Show the version increment each project's unreleased commits imply and the
version it would be released as. Projects without pending changes are omitted.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusFrom, "from", "", "Only read commits after this revision")
	statusCmd.Flags().BoolVar(&statusCommits, "commits", false, "List the commits behind each increment")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(statusCmd)
}

// statusEntry is one project's pending release for display.
type statusEntry struct {
	Project   string   `json:"project"`
	Current   string   `json:"current"`
	Increment string   `json:"increment"`
	Next      string   `json:"next"`
	Commits   []string `json:"commits,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	r, err := loadRepo()
	if err != nil {
		return err
	}

	commits, err := changelog.LoadHistory(cmd.Context(), r.Root, statusFrom)
	if err != nil {
		return fmt.Errorf("reading commit history: %w", err)
	}

	status := changelog.GenerateStatus(r.Projects, commits, r.Settings.Mono)
	entries := statusEntries(workspace.Select(r.Projects, args), status)

	if statusJSON {
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No pending changes.")
		return nil
	}
	printStatus(cmd.OutOrStdout(), entries, statusCommits)
	return nil
}

// statusEntries lists the pending releases of projects in project order.
// A version that cannot be bumped is shown without a next version.
func statusEntries(projects []workspace.Project, status map[string]*changelog.ProjectStatus) []statusEntry {
	entries := []statusEntry{}
	for _, p := range projects {
		s, ok := status[p.Name]
		if !ok {
			continue
		}

		entry := statusEntry{
			Project:   p.Name,
			Current:   p.Version(),
			Increment: s.Increment.String(),
		}
		if next, err := versioning.Bump(p.Version(), s.Increment); err == nil {
			entry.Next = next
		}
		for _, c := range s.Commits {
			entry.Commits = append(entry.Commits, commitLine(c))
		}
		entries = append(entries, entry)
	}
	return entries
}

func commitLine(c changelog.Commit) string {
	hash := c.Hash
	if len(hash) > 7 {
		hash = hash[:7]
	}
	if hash == "" {
		return c.Subject
	}
	return hash + " " + c.Subject
}

func printStatus(out io.Writer, entries []statusEntry, withCommits bool) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PROJECT\tCURRENT\tINCREMENT\tNEXT")
	for _, e := range entries {
		next := e.Next
		if next == "" {
			next = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Project, e.Current, e.Increment, next)
	}
	w.Flush()

	if !withCommits {
		return
	}
	for _, e := range entries {
		fmt.Fprintf(out, "\n%s:\n", e.Project)
		for _, c := range e.Commits {
			fmt.Fprintf(out, "  - %s\n", c)
		}
	}
}
