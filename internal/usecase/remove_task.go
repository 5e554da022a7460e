package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/runoshun/tm/internal/domain"
)

// RemoveTaskInput contains the parameters for removing a task.
type RemoveTaskInput struct {
	Project        string
	Title          string
	RemoveWorktree bool // Also delete the task's worktree
	Force          bool // Delete the worktree even if it has uncommitted changes
}

// RemoveTaskOutput contains the result of removing a task.
type RemoveTaskOutput struct {
	Task            *domain.Task
	WorktreeRemoved bool
	WorktreeMissing bool // Worktree removal was requested but the path was already gone
}

// RemoveTask is the use case for removing a task and optionally its worktree.
type RemoveTask struct {
	tasks     domain.TaskRepository
	worktrees domain.WorktreeManager
	logger    *slog.Logger
}

// NewRemoveTask creates a new RemoveTask use case.
func NewRemoveTask(tasks domain.TaskRepository, worktrees domain.WorktreeManager, logger *slog.Logger) *RemoveTask {
	return &RemoveTask{
		tasks:     tasks,
		worktrees: worktrees,
		logger:    logger,
	}
}

// Execute removes the task. When RemoveWorktree is set the worktree goes first,
// so a refused removal leaves the task recorded.
func (uc *RemoveTask) Execute(_ context.Context, in RemoveTaskInput) (*RemoveTaskOutput, error) {
	if in.Force && !in.RemoveWorktree {
		return nil, &domain.InputError{Field: "force", Reason: "--force requires --remove-worktree"}
	}

	task, err := uc.tasks.Get(in.Project, in.Title)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	out := &RemoveTaskOutput{}
	if in.RemoveWorktree {
		if _, statErr := os.Stat(task.WorktreePath); errors.Is(statErr, os.ErrNotExist) {
			out.WorktreeMissing = true
			if uc.logger != nil {
				uc.logger.Warn("worktree already gone, removing task only", "path", task.WorktreePath)
			}
		} else {
			if err := uc.worktrees.Remove(task.WorktreePath, in.Force); err != nil {
				return nil, err
			}
			out.WorktreeRemoved = true
		}
	}

	removed, err := uc.tasks.Remove(in.Project, in.Title)
	if err != nil {
		return nil, fmt.Errorf("remove task: %w", err)
	}
	out.Task = removed

	return out, nil
}
