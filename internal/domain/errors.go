package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrPathNotFound           = errors.New("worktree path does not exist")
	ErrInvalidWorktree        = errors.New("path is not a valid git worktree")
	ErrGitRepoNotFound        = errors.New("git repository not found")
	ErrInvalidMainRepoPath    = errors.New("invalid main repository path")
	ErrWorktreeAlreadyExists  = errors.New("worktree already exists")
	ErrWorktreeCreationFailed = errors.New("failed to create worktree")
	ErrWorktreeHasChanges     = errors.New("worktree has uncommitted changes")
	ErrWorktreeRemovalFailed  = errors.New("failed to remove worktree")
	ErrDuplicateTask          = errors.New("task already exists")
	ErrProjectNotFound        = errors.New("project not found")
	ErrTaskNotFound           = errors.New("task not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrStoreLocked            = errors.New("task store is locked by another process")
)

// PathError reports a worktree or repository failure at a path.
// Kind is one of the path-related sentinel errors above.
type PathError struct {
	Kind   error
	Path   string
	Reason string // underlying cause, empty when Kind says it all
}

// NewPathError creates a PathError. reason may be empty.
func NewPathError(kind error, path, reason string) *PathError {
	return &PathError{Kind: kind, Path: path, Reason: reason}
}

func (e *PathError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrWorktreeCreationFailed):
		return fmt.Sprintf("failed to create worktree at %s: %s", e.Path, e.Reason)
	case errors.Is(e.Kind, ErrWorktreeRemovalFailed):
		return fmt.Sprintf("failed to remove worktree at %s: %s", e.Path, e.Reason)
	case errors.Is(e.Kind, ErrWorktreeHasChanges):
		return fmt.Sprintf("worktree has uncommitted changes at %s. Use --force to remove anyway.", e.Path)
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Path)
}

func (e *PathError) Unwrap() error {
	return e.Kind
}

// TaskError reports a task store failure for a project/title pair.
type TaskError struct {
	Kind    error
	Project string
	Title   string // empty for project-level errors
}

func (e *TaskError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrDuplicateTask):
		return fmt.Sprintf("task '%s' already exists in project '%s'", e.Title, e.Project)
	case errors.Is(e.Kind, ErrProjectNotFound):
		return fmt.Sprintf("project '%s' not found", e.Project)
	case errors.Is(e.Kind, ErrTaskNotFound):
		return fmt.Sprintf("task '%s' not found in project '%s'", e.Title, e.Project)
	}
	return fmt.Sprintf("%s: %s/%s", e.Kind, e.Project, e.Title)
}

func (e *TaskError) Unwrap() error {
	return e.Kind
}

// InputError reports an invalid user-supplied value.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input for %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// UserMessage renders err for display to a person.
// Errors without a friendlier rendering fall back to err.Error().
func UserMessage(err error) string {
	var pe *PathError
	if errors.As(err, &pe) {
		switch {
		case errors.Is(pe.Kind, ErrWorktreeHasChanges):
			return fmt.Sprintf("The worktree at '%s' has uncommitted changes.\n"+
				"Either commit or stash your changes, or use --force to remove anyway.", pe.Path)
		case errors.Is(pe.Kind, ErrInvalidMainRepoPath):
			return fmt.Sprintf("The main repository path '%s' is invalid.\n"+
				"Please provide a path to your main branch directory (e.g., ~/projects/myapp/main).", pe.Path)
		case errors.Is(pe.Kind, ErrWorktreeAlreadyExists):
			return fmt.Sprintf("A worktree already exists at '%s'.\n"+
				"Please remove it first or use a different name/id.", pe.Path)
		}
		return pe.Error()
	}

	var te *TaskError
	if errors.As(err, &te) {
		switch {
		case errors.Is(te.Kind, ErrDuplicateTask):
			return fmt.Sprintf("A task named '%s' already exists in project '%s'. Please use a different title.",
				te.Title, te.Project)
		case errors.Is(te.Kind, ErrTaskNotFound):
			return fmt.Sprintf("Could not find task '%s' in project '%s'. Use 'tm list' to see available tasks.",
				te.Title, te.Project)
		}
		return te.Error()
	}

	var ie *InputError
	if errors.As(err, &ie) {
		return fmt.Sprintf("Invalid %s: %s", ie.Field, ie.Reason)
	}

	return err.Error()
}
