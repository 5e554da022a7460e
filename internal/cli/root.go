// Package cli provides the command-line interface for tm.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/tm/internal/app"
)

// Command group IDs.
const (
	groupTask     = "task"
	groupWorktree = "worktree"
)

// ContainerFactory builds the container once global flags are parsed.
type ContainerFactory func(opts app.Options) (*app.Container, error)

// NewRootCommand creates the root command for tm.
// The container is built by newContainer before any subcommand runs and
// shared with every subcommand.
func NewRootCommand(newContainer ContainerFactory, version string) *cobra.Command {
	var opts app.Options
	c := &app.Container{}

	root := &cobra.Command{
		Use:   "tm",
		Short: "Task Manager - Git worktree-based task management",
		Long: `tm manages tasks associated with git worktrees.

Each task gets its own branch and worktree next to the main checkout:

  ~/projects/myapp/main                      main checkout
  ~/projects/myapp/feature/JIRA-1-auth_system  worktree for task feature/JIRA-1-auth-system

Use 'tm switch' with cd for shell integration:
  cd "$(tm switch myapp feature/JIRA-1-auth-system)"`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.LogOutput = cmd.ErrOrStderr()
			built, err := newContainer(opts)
			if err != nil {
				return fmt.Errorf("initialize: %w", err)
			}
			*c = *built

			for _, w := range c.Config.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "Config file (default ~/.config/tm/config.toml)")
	root.PersistentFlags().StringVar(&opts.TasksFile, "tasks-file", "", "Task store file (default ~/.config/tm/tasks.toml)")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")

	root.AddGroup(
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupWorktree, Title: "Worktree Maintenance:"},
	)

	addCmd := newAddCommand(c)
	addCmd.GroupID = groupTask

	listCmd := newListCommand(c)
	listCmd.GroupID = groupTask

	removeCmd := newRemoveCommand(c)
	removeCmd.GroupID = groupTask

	switchCmd := newSwitchCommand(c)
	switchCmd.GroupID = groupTask

	showCmd := newShowCommand(c)
	showCmd.GroupID = groupTask

	pruneCmd := newPruneCommand(c)
	pruneCmd.GroupID = groupWorktree

	root.AddCommand(
		addCmd,
		listCmd,
		removeCmd,
		switchCmd,
		showCmd,
		pruneCmd,
	)

	return root
}
