package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/agentx-labs/monolink/internal/workspace"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the projects in the repository",
	Long: `List every project selected by the package globs together with the sibling
projects it depends on.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents a project for display.
type listEntry struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Path    string   `json:"path"`
	Local   []string `json:"local,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	r, err := loadRepo()
	if err != nil {
		return err
	}

	entries := listEntries(r.Root, r.Projects)

	if listJSON {
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tPATH\tLOCAL DEPENDENCIES")
	for _, e := range entries {
		local := strings.Join(e.Local, ", ")
		if local == "" {
			local = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.Version, e.Path, local)
	}
	return w.Flush()
}

// listEntries describes each project with its path relative to root and the
// sibling projects it declares as dependencies.
func listEntries(root string, projects []workspace.Project) []listEntry {
	entries := []listEntry{}
	for _, p := range projects {
		rel, err := filepath.Rel(root, p.Path)
		if err != nil {
			rel = p.Path
		}

		entry := listEntry{Name: p.Name, Version: p.Version(), Path: filepath.ToSlash(rel)}
		if p.Manifest != nil {
			for _, dep := range p.Manifest.DependencyNames() {
				if _, ok := workspace.Find(projects, dep); ok {
					entry.Local = append(entry.Local, dep)
				}
			}
		}
		entries = append(entries, entry)
	}
	return entries
}
