package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/runoshun/tm/internal/domain"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	Project string
	Title   string
}

// ShowTaskOutput contains the task and the live state of its worktree.
type ShowTaskOutput struct {
	Task     *domain.Task
	Worktree *domain.WorktreeInfo // nil when the worktree path no longer exists
	Project  string
}

// ShowTask is the use case for displaying a task.
type ShowTask struct {
	tasks     domain.TaskRepository
	worktrees domain.WorktreeManager
	logger    *slog.Logger
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(tasks domain.TaskRepository, worktrees domain.WorktreeManager, logger *slog.Logger) *ShowTask {
	return &ShowTask{
		tasks:     tasks,
		worktrees: worktrees,
		logger:    logger,
	}
}

// Execute returns the task with its worktree info.
func (uc *ShowTask) Execute(_ context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := uc.tasks.Get(in.Project, in.Title)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	out := &ShowTaskOutput{Task: task, Project: in.Project}

	if _, err := os.Stat(task.WorktreePath); errors.Is(err, os.ErrNotExist) {
		if uc.logger != nil {
			uc.logger.Warn("worktree path does not exist", "path", task.WorktreePath)
		}
		return out, nil
	}

	info, err := uc.worktrees.Info(task.WorktreePath)
	if err != nil {
		return nil, fmt.Errorf("inspect worktree: %w", err)
	}
	out.Worktree = info

	return out, nil
}
