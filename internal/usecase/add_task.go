// Package usecase contains application use cases.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/runoshun/tm/internal/domain"
)

// AddTaskInput contains the parameters for adding a task.
type AddTaskInput struct {
	Project      string       // Project the task belongs to (required)
	MainRepoPath string       // Main checkout, e.g. ~/projects/myapp/main (required)
	Level        domain.Level // Task level (required)
	ID           string       // Task reference, e.g. JIRA-123 (required)
	Name         string       // Human-readable name (required)
	Description  string       // Optional
	RemoteURL    string       // Optional, stored only
	APIURL       string       // Optional, stored only
	BaseBranch   string       // Branch to start from (empty = HEAD of the main checkout)
}

// AddTaskOutput contains the result of adding a task.
type AddTaskOutput struct {
	Title        string
	WorktreePath string
	Branch       string
}

// AddTask is the use case for creating a worktree and recording a task for it.
type AddTask struct {
	tasks     domain.TaskRepository
	worktrees domain.WorktreeManager
	logger    *slog.Logger
}

// NewAddTask creates a new AddTask use case.
func NewAddTask(tasks domain.TaskRepository, worktrees domain.WorktreeManager, logger *slog.Logger) *AddTask {
	return &AddTask{
		tasks:     tasks,
		worktrees: worktrees,
		logger:    logger,
	}
}

// Execute creates the branch and worktree, then stores the task.
// Nothing is created when the task title is already taken.
func (uc *AddTask) Execute(_ context.Context, in AddTaskInput) (*AddTaskOutput, error) {
	if err := validateAddInput(in); err != nil {
		return nil, err
	}

	mainRepoPath, err := filepath.Abs(in.MainRepoPath)
	if err != nil {
		return nil, domain.NewPathError(domain.ErrInvalidMainRepoPath, in.MainRepoPath, err.Error())
	}
	if err := uc.worktrees.Validate(mainRepoPath); err != nil {
		return nil, err
	}

	level := string(in.Level)
	worktreePath, err := domain.ComputeWorktreePath(mainRepoPath, level, in.ID, in.Name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(worktreePath); err == nil {
		return nil, domain.NewPathError(domain.ErrWorktreeAlreadyExists, worktreePath, "")
	}

	title := domain.TaskTitle(level, in.ID, in.Name)
	if _, err := uc.tasks.Get(in.Project, title); err == nil {
		return nil, &domain.TaskError{Kind: domain.ErrDuplicateTask, Project: in.Project, Title: title}
	} else if !errors.Is(err, domain.ErrTaskNotFound) {
		return nil, fmt.Errorf("get task: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(worktreePath), 0o755); err != nil {
		return nil, fmt.Errorf("create worktree parent directory: %w", err)
	}

	branch := domain.BranchName(level, in.ID, in.Name)
	if err := uc.worktrees.Create(mainRepoPath, worktreePath, branch, in.BaseBranch); err != nil {
		return nil, err
	}

	task := domain.NewTask(title, worktreePath, domain.TaskOptions{
		Description: in.Description,
		Reference:   in.ID,
		RemoteURL:   in.RemoteURL,
		APIURL:      in.APIURL,
	})
	if err := uc.tasks.Add(in.Project, task); err != nil {
		if uc.logger != nil {
			uc.logger.Warn("worktree and branch created but task was not saved",
				"path", worktreePath, "branch", branch, "error", err)
		}
		return nil, fmt.Errorf("add task: %w", err)
	}

	return &AddTaskOutput{
		Title:        title,
		WorktreePath: worktreePath,
		Branch:       branch,
	}, nil
}

func validateAddInput(in AddTaskInput) error {
	if strings.TrimSpace(in.Project) == "" {
		return &domain.InputError{Field: "project", Reason: "Project cannot be empty"}
	}
	if domain.ToSnakeCase(in.Name) == "" {
		return &domain.InputError{Field: "name", Reason: "Name must contain alphanumeric characters"}
	}
	if strings.TrimSpace(in.ID) == "" {
		return &domain.InputError{Field: "id", Reason: "ID cannot be empty"}
	}
	if strings.ContainsFunc(in.ID, unicode.IsSpace) {
		return &domain.InputError{Field: "id", Reason: "ID cannot contain whitespace"}
	}
	if strings.ContainsAny(in.ID, `/\`) || in.ID == "." || in.ID == ".." {
		return &domain.InputError{Field: "id", Reason: "ID cannot contain path separators"}
	}
	if _, err := domain.ParseLevel(string(in.Level)); err != nil {
		return err
	}
	return nil
}
