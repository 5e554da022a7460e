package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/tm/internal/app"
	"github.com/runoshun/tm/internal/domain"
	"github.com/runoshun/tm/internal/usecase"
)

// newAddCommand creates the add command.
func newAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Level       string
		ID          string
		Name        string
		Description string
		RemoteURL   string
		APIURL      string
		BaseBranch  string
	}

	cmd := &cobra.Command{
		Use:   "add <project> <main_repo_path>",
		Short: "Add a new task with its own branch and worktree",
		Long: `Create a branch and worktree for a new task and record it.

The worktree is created next to the main checkout:
  <parent of main_repo_path>/<level>/<id>-<name in snake_case>

The branch and task title are:
  <level>/<id>-<name in kebab-case>

Levels: feature, fix, chore, docs, refactor, test, perf, style, ci

Examples:
  # Create feature/JIRA-123-auth-system at ~/projects/myapp/feature/JIRA-123-auth_system
  tm add myapp ~/projects/myapp/main -l feature -i JIRA-123 -n "auth system"

  # Start from a branch other than HEAD
  tm add myapp ~/projects/myapp/main -l fix -i 42 -n "login bug" -b develop`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := domain.ParseLevel(opts.Level)
			if err != nil {
				return err
			}

			base := opts.BaseBranch
			if !cmd.Flags().Changed("base") {
				base = c.Config.BaseBranch
			}

			out, err := c.AddTaskUseCase().Execute(cmd.Context(), usecase.AddTaskInput{
				Project:      args[0],
				MainRepoPath: args[1],
				Level:        level,
				ID:           opts.ID,
				Name:         opts.Name,
				Description:  opts.Description,
				RemoteURL:    opts.RemoteURL,
				APIURL:       opts.APIURL,
				BaseBranch:   base,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Created worktree at: %s\n", out.WorktreePath)
			_, _ = fmt.Fprintf(w, "Branch: %s\n", out.Branch)
			_, _ = fmt.Fprintf(w, "Added task '%s' to project '%s'\n", out.Title, args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Level, "level", "l", "", "Task level (feature, fix, chore, docs, refactor, test, perf, style, ci)")
	cmd.Flags().StringVarP(&opts.ID, "id", "i", "", "Task ID/reference (e.g., JIRA-123)")
	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "Task name")
	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Task description")
	cmd.Flags().StringVar(&opts.RemoteURL, "remote-url", "", "Remote URL (stored only)")
	cmd.Flags().StringVar(&opts.APIURL, "api-url", "", "API URL (stored only)")
	cmd.Flags().StringVarP(&opts.BaseBranch, "base", "b", "", "Branch to start from (default: HEAD of the main checkout)")
	_ = cmd.MarkFlagRequired("level")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Project string
		Format  string
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `Display tasks grouped by project.

Formats:
  table   columns PROJECT, TITLE, REFERENCE, WORKTREE PATH (default)
  simple  one <project>/<title> per line
  json    array of task objects
  yaml    list of task objects

The default format can be set with [list] format in config.toml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := opts.Format
			if !cmd.Flags().Changed("format") {
				format = c.Config.List.Format
			}
			if err := validateFormat(format, listFormats); err != nil {
				return err
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{
				Project: opts.Project,
			})
			if err != nil {
				return err
			}

			if len(out.Tasks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
				return nil
			}
			return printTasks(cmd.OutOrStdout(), out.Tasks, format)
		},
	}

	cmd.Flags().StringVarP(&opts.Project, "project", "p", "", "Filter by project name")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", domain.FormatTable, "Output format (table, simple, json, yaml)")

	return cmd
}

// newRemoveCommand creates the remove command.
func newRemoveCommand(c *app.Container) *cobra.Command {
	var opts struct {
		RemoveWorktree bool
		Force          bool
	}

	cmd := &cobra.Command{
		Use:     "remove <project> <title>",
		Aliases: []string{"rm"},
		Short:   "Remove a task",
		Long: `Remove a task from the task list.

With --remove-worktree the task's worktree directory is deleted as well.
A worktree with uncommitted changes is refused unless --force is given;
in that case the task is kept. The branch is never deleted.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.RemoveTaskUseCase().Execute(cmd.Context(), usecase.RemoveTaskInput{
				Project:        args[0],
				Title:          args[1],
				RemoveWorktree: opts.RemoveWorktree,
				Force:          opts.Force,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.WorktreeRemoved {
				_, _ = fmt.Fprintf(w, "Removed worktree at: %s\n", out.Task.WorktreePath)
			}
			if out.WorktreeMissing {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: worktree at %s no longer exists\n", out.Task.WorktreePath)
			}
			_, _ = fmt.Fprintf(w, "Removed task '%s' from project '%s'\n", args[1], args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.RemoveWorktree, "remove-worktree", "w", false, "Also remove the git worktree")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Remove the worktree even if it has uncommitted changes (requires -w)")

	return cmd
}

// newSwitchCommand creates the switch command.
func newSwitchCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "switch [<project> <title>]",
		Short: "Print a task's worktree path (for cd)",
		Long: `Print the worktree path of a task, and nothing else, for shell integration:

  cd "$(tm switch myapp feature/JIRA-1-auth-system)"

Without arguments an interactive picker is shown on stderr.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("accepts 0 or 2 arg(s), received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var project, title string
			if len(args) == 2 {
				project, title = args[0], args[1]
			} else {
				list, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{})
				if err != nil {
					return err
				}
				if len(list.Tasks) == 0 {
					return errors.New("no tasks found; add one with 'tm add'")
				}
				picked, err := pickTaskFunc(list.Tasks, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				project, title = picked.Project, picked.Task.Title
			}

			out, err := c.SwitchTaskUseCase().Execute(cmd.Context(), usecase.SwitchTaskInput{
				Project: project,
				Title:   title,
			})
			if err != nil {
				return err
			}

			// Output only the path for shell integration
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.WorktreePath)
			return nil
		},
	}

	return cmd
}

// newShowCommand creates the show command.
func newShowCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Format string
	}

	cmd := &cobra.Command{
		Use:   "show <project> <title>",
		Short: "Show a task and the state of its worktree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.Format, []string{domain.FormatTable, domain.FormatJSON, domain.FormatYAML}); err != nil {
				return err
			}

			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{
				Project: args[0],
				Title:   args[1],
			})
			if err != nil {
				return err
			}

			return printTaskDetail(cmd.OutOrStdout(), out.Project, out.Task, out.Worktree, opts.Format)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", domain.FormatTable, "Output format (table, json, yaml)")

	return cmd
}
