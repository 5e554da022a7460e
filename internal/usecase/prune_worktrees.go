package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/runoshun/tm/internal/domain"
)

// PruneWorktreesInput contains the parameters for pruning worktree metadata.
type PruneWorktreesInput struct {
	MainRepoPath string
}

// PruneWorktreesOutput contains the names of the pruned worktree entries.
type PruneWorktreesOutput struct {
	Pruned []string
}

// PruneWorktrees is the use case for cleaning up metadata of deleted worktrees.
type PruneWorktrees struct {
	worktrees domain.WorktreeManager
}

// NewPruneWorktrees creates a new PruneWorktrees use case.
func NewPruneWorktrees(worktrees domain.WorktreeManager) *PruneWorktrees {
	return &PruneWorktrees{worktrees: worktrees}
}

// Execute prunes stale worktree entries of the repository at MainRepoPath.
func (uc *PruneWorktrees) Execute(_ context.Context, in PruneWorktreesInput) (*PruneWorktreesOutput, error) {
	mainRepoPath, err := filepath.Abs(in.MainRepoPath)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	if err := uc.worktrees.Validate(mainRepoPath); err != nil {
		return nil, err
	}

	pruned, err := uc.worktrees.Prune(mainRepoPath)
	if err != nil {
		return nil, fmt.Errorf("prune worktrees: %w", err)
	}

	return &PruneWorktreesOutput{Pruned: pruned}, nil
}
