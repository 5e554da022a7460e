package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathError_IsKind(t *testing.T) {
	err := fmt.Errorf("remove worktree: %w", NewPathError(ErrWorktreeHasChanges, "/wt", ""))

	assert.ErrorIs(t, err, ErrWorktreeHasChanges)
	assert.NotErrorIs(t, err, ErrWorktreeRemovalFailed)

	var pe *PathError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "/wt", pe.Path)
}

func TestPathError_Messages(t *testing.T) {
	tests := []struct {
		err  *PathError
		want string
	}{
		{
			NewPathError(ErrWorktreeCreationFailed, "/wt", "branch exists"),
			"failed to create worktree at /wt: branch exists",
		},
		{
			NewPathError(ErrWorktreeRemovalFailed, "/wt", "permission denied"),
			"failed to remove worktree at /wt: permission denied",
		},
		{
			NewPathError(ErrPathNotFound, "/missing", ""),
			"worktree path does not exist: /missing",
		},
		{
			NewPathError(ErrGitRepoNotFound, "/repo", "not a repo"),
			"git repository not found: /repo: not a repo",
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestTaskError(t *testing.T) {
	err := &TaskError{Kind: ErrDuplicateTask, Project: "app", Title: "feature/1-x"}

	assert.ErrorIs(t, err, ErrDuplicateTask)
	assert.Equal(t, "task 'feature/1-x' already exists in project 'app'", err.Error())

	notFound := &TaskError{Kind: ErrProjectNotFound, Project: "app"}
	assert.Equal(t, "project 'app' not found", notFound.Error())
}

func TestInputError(t *testing.T) {
	err := &InputError{Field: "id", Reason: "ID cannot be empty"}

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "Invalid id: ID cannot be empty", UserMessage(err))
}

func TestUserMessage(t *testing.T) {
	changes := fmt.Errorf("wrap: %w", NewPathError(ErrWorktreeHasChanges, "/wt", ""))
	assert.Contains(t, UserMessage(changes), "use --force to remove anyway")
	assert.Contains(t, UserMessage(changes), "/wt")

	notFound := &TaskError{Kind: ErrTaskNotFound, Project: "app", Title: "t"}
	assert.Contains(t, UserMessage(notFound), "Use 'tm list'")

	mainPath := NewPathError(ErrInvalidMainRepoPath, "/x", "")
	assert.Contains(t, UserMessage(mainPath), "~/projects/myapp/main")

	plain := errors.New("boom")
	assert.Equal(t, "boom", UserMessage(plain))
}
