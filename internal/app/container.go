// Package app provides the dependency injection container for the application.
package app

import (
	"io"
	"log/slog"
	"os"

	"github.com/runoshun/tm/internal/domain"
	"github.com/runoshun/tm/internal/infra/config"
	"github.com/runoshun/tm/internal/infra/logging"
	"github.com/runoshun/tm/internal/infra/taskstore"
	"github.com/runoshun/tm/internal/infra/worktree"
	"github.com/runoshun/tm/internal/usecase"
)

// Options are the command-line overrides applied on top of the config file.
type Options struct {
	LogOutput  io.Writer // Destination of log records (default os.Stderr)
	ConfigFile string    // Config file path (empty = ~/.config/tm/config.toml)
	TasksFile  string    // Task store path (empty = from config)
	Verbose    bool      // Force debug logging
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks     domain.TaskRepository
	Worktrees domain.WorktreeManager

	// Pointer fields
	Logger *slog.Logger
	Config *domain.Config
}

// New creates a new Container from the config file and overrides.
func New(opts Options) (*Container, error) {
	cfg, err := config.NewLoader(opts.ConfigFile).Load()
	if err != nil {
		return nil, err
	}
	if opts.TasksFile != "" {
		cfg.TasksFile = config.ExpandHome(opts.TasksFile)
	}
	if opts.Verbose {
		cfg.Log.Level = "debug"
	}

	logOut := opts.LogOutput
	if logOut == nil {
		logOut = os.Stderr
	}
	logger := logging.New(logOut, cfg.Log.Level)

	return &Container{
		Tasks:     taskstore.NewStore(cfg.TasksFile, cfg.LockTimeout, logger),
		Worktrees: worktree.NewClient(logger),
		Logger:    logger,
		Config:    cfg,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg *domain.Config, tasks domain.TaskRepository, worktrees domain.WorktreeManager, logger *slog.Logger) *Container {
	if cfg == nil {
		cfg = domain.NewDefaultConfig("")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Container{
		Tasks:     tasks,
		Worktrees: worktrees,
		Logger:    logger,
		Config:    cfg,
	}
}

// UseCase factory methods

// AddTaskUseCase returns a new AddTask use case.
func (c *Container) AddTaskUseCase() *usecase.AddTask {
	return usecase.NewAddTask(c.Tasks, c.Worktrees, c.Logger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks)
}

// RemoveTaskUseCase returns a new RemoveTask use case.
func (c *Container) RemoveTaskUseCase() *usecase.RemoveTask {
	return usecase.NewRemoveTask(c.Tasks, c.Worktrees, c.Logger)
}

// SwitchTaskUseCase returns a new SwitchTask use case.
func (c *Container) SwitchTaskUseCase() *usecase.SwitchTask {
	return usecase.NewSwitchTask(c.Tasks, c.Worktrees)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Tasks, c.Worktrees, c.Logger)
}

// PruneWorktreesUseCase returns a new PruneWorktrees use case.
func (c *Container) PruneWorktreesUseCase() *usecase.PruneWorktrees {
	return usecase.NewPruneWorktrees(c.Worktrees)
}
