package cli

import (
	"context"

	"github.com/agentx-labs/monolink/internal/bootstrap"
	"github.com/agentx-labs/monolink/internal/changelog"
	"github.com/agentx-labs/monolink/internal/cleanup"
	"github.com/spf13/cobra"
)

var (
	bootstrapLinkAll    bool
	bootstrapConcurrent int
	bootstrapVerbose    bool
	bootstrapFrom       string
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap [project...]",
	Short: "Install dependencies and link local packages",
	Long: `Install the registry dependencies of every selected project, then link local
packages into their dependency directories.

In monorepo mode a package is linked when its next version, estimated from the
conventional commits since its last release, is no longer accepted by the range
a dependent declares. With --link-all every local package is linked.

Manifests are rewritten for the duration of each install and always restored,
including on interrupt.`,
	RunE: runBootstrap,
}

func init() {
	bootstrapCmd.Flags().BoolVar(&bootstrapLinkAll, "link-all", false, "Link every local package regardless of versions")
	bootstrapCmd.Flags().IntVarP(&bootstrapConcurrent, "concurrent", "c", 0, "Maximum concurrent tasks (default from settings)")
	bootstrapCmd.Flags().BoolVarP(&bootstrapVerbose, "verbose", "v", false, "Stream package manager output")
	bootstrapCmd.Flags().StringVar(&bootstrapFrom, "from", "", "Only read commits after this revision")
	rootCmd.AddCommand(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	r, err := loadRepo()
	if err != nil {
		return err
	}

	ctx, stop := cleanup.NotifyContext(cmd.Context(), cleanup.Default)
	defer stop()

	o := &bootstrap.Orchestrator{
		Projects: r.Projects,
		History:  historySource(r.Root, bootstrapFrom),
		PackageManager: &bootstrap.ExecPackageManager{
			Binary: r.Settings.NpmBinary,
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		},
		Registry: cleanup.Default,
		Out:      cmd.OutOrStdout(),
		Err:      cmd.ErrOrStderr(),
	}

	return o.Run(ctx, bootstrap.Options{
		Names:         args,
		LinkAll:       bootstrapLinkAll,
		Monorepo:      r.Settings.Mono,
		Concurrent:    concurrency(bootstrapConcurrent, r.Settings.Concurrent),
		Verbose:       bootstrapVerbose,
		DependencyDir: r.Settings.DependencyDir,
	})
}

// historySource reads the commits of the repository containing root.
func historySource(root, from string) bootstrap.HistorySource {
	return func(ctx context.Context) ([]changelog.Commit, error) {
		return changelog.LoadHistory(ctx, root, from)
	}
}

// concurrency returns the flag value when set, otherwise the configured one.
func concurrency(flag, configured int) int {
	if flag > 0 {
		return flag
	}
	if configured > 0 {
		return configured
	}
	return 1
}
