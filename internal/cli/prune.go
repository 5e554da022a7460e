package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/tm/internal/app"
	"github.com/runoshun/tm/internal/usecase"
)

// newPruneCommand creates the prune command.
func newPruneCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune <main_repo_path>",
		Short: "Clean up metadata of worktrees whose directories were deleted",
		Long: `Remove the git metadata left behind by worktree directories that no
longer exist. Locked worktrees and worktrees that still exist are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.PruneWorktreesUseCase().Execute(cmd.Context(), usecase.PruneWorktreesInput{
				MainRepoPath: args[0],
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Pruned) == 0 {
				_, _ = fmt.Fprintln(w, "Nothing to prune.")
				return nil
			}
			for _, name := range out.Pruned {
				_, _ = fmt.Fprintf(w, "Pruned worktree: %s\n", name)
			}
			return nil
		},
	}

	return cmd
}
