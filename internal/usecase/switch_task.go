package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/tm/internal/domain"
)

// SwitchTaskInput contains the parameters for switching to a task.
type SwitchTaskInput struct {
	Project string
	Title   string
}

// SwitchTaskOutput contains the worktree to switch to.
type SwitchTaskOutput struct {
	WorktreePath string
}

// SwitchTask is the use case for resolving a task's worktree for shell integration.
type SwitchTask struct {
	tasks     domain.TaskRepository
	worktrees domain.WorktreeManager
}

// NewSwitchTask creates a new SwitchTask use case.
func NewSwitchTask(tasks domain.TaskRepository, worktrees domain.WorktreeManager) *SwitchTask {
	return &SwitchTask{
		tasks:     tasks,
		worktrees: worktrees,
	}
}

// Execute returns the task's worktree path after checking it is still a worktree.
func (uc *SwitchTask) Execute(_ context.Context, in SwitchTaskInput) (*SwitchTaskOutput, error) {
	task, err := uc.tasks.Get(in.Project, in.Title)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	if err := uc.worktrees.Validate(task.WorktreePath); err != nil {
		return nil, err
	}

	return &SwitchTaskOutput{WorktreePath: task.WorktreePath}, nil
}
