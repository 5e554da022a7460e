// Package worktree provides git worktree operations.
//
// Repository inspection and branch creation go through go-git. Linked worktree
// checkout is delegated to the git CLI because go-git cannot add worktrees.
package worktree

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/runoshun/tm/internal/domain"
)

// Client manages git worktrees.
// It holds no repository handles between calls.
type Client struct {
	logger *slog.Logger
}

// NewClient creates a new worktree client.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{logger: logger}
}

// Ensure Client implements domain.WorktreeManager interface.
var _ domain.WorktreeManager = (*Client)(nil)

// Validate checks that path exists and opens as a git repository.
func (c *Client) Validate(path string) error {
	if _, err := os.Stat(path); err != nil {
		reason := ""
		if !errors.Is(err, os.ErrNotExist) {
			reason = err.Error()
		}
		return domain.NewPathError(domain.ErrPathNotFound, path, reason)
	}

	repo, err := openRepository(path)
	if err != nil {
		return domain.NewPathError(domain.ErrInvalidWorktree, path, err.Error())
	}
	closeRepository(repo)

	return nil
}

// Create creates branch from baseBranch (HEAD when empty) and checks it out
// as a linked worktree at worktreePath. The worktree is registered under the
// final component of worktreePath.
func (c *Client) Create(mainRepoPath, worktreePath, branch, baseBranch string) error {
	path, err := filepath.Abs(worktreePath)
	if err != nil {
		return domain.NewPathError(domain.ErrWorktreeCreationFailed, worktreePath, err.Error())
	}

	repo, err := openRepository(mainRepoPath)
	if err != nil {
		return domain.NewPathError(domain.ErrGitRepoNotFound, mainRepoPath, err.Error())
	}
	defer closeRepository(repo)

	base, err := resolveBase(repo, baseBranch)
	if err != nil {
		return domain.NewPathError(domain.ErrWorktreeCreationFailed, path, err.Error())
	}

	name, ok := domain.WorktreeName(path)
	if !ok {
		return domain.NewPathError(domain.ErrWorktreeCreationFailed, path, "path has no name component")
	}

	if _, err := runGit(mainRepoPath, "check-ref-format", "--branch", branch); err != nil {
		return domain.NewPathError(domain.ErrWorktreeCreationFailed, path,
			fmt.Sprintf("invalid branch name '%s'", branch))
	}

	if err := createBranch(repo, branch, base); err != nil {
		return domain.NewPathError(domain.ErrWorktreeCreationFailed, path,
			fmt.Sprintf("failed to create branch: %v", err))
	}
	c.logger.Debug("created branch", "branch", branch, "commit", base.Hash.String())

	args := []string{"worktree", "add", path, branch}
	if _, err := runGit(mainRepoPath, args...); err != nil {
		if !strings.Contains(err.Error(), "already registered") {
			return domain.NewPathError(domain.ErrWorktreeCreationFailed, path, err.Error())
		}
		// Registered but directory missing: prune stale entries and retry
		if _, pruneErr := c.Prune(mainRepoPath); pruneErr != nil {
			return domain.NewPathError(domain.ErrWorktreeCreationFailed, path, pruneErr.Error())
		}
		if _, err := runGit(mainRepoPath, args...); err != nil {
			return domain.NewPathError(domain.ErrWorktreeCreationFailed, path, err.Error())
		}
	}
	c.logger.Debug("created worktree", "name", name, "path", path)

	return nil
}

// HasUncommittedChanges reports whether the working tree at path has staged,
// unstaged, or untracked changes. Files ignored by .gitignore, info/exclude or
// core.excludesFile do not count.
func (c *Client) HasUncommittedChanges(path string) (bool, error) {
	repo, err := openRepository(path)
	if err != nil {
		return false, err
	}
	closeRepository(repo)

	// go-git's status does not read info/exclude or core.excludesFile
	out, err := gitStdout(path, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("check uncommitted changes: %w", err)
	}

	return strings.TrimSpace(out) != "", nil
}

// Remove deletes the worktree directory at path and prunes the stale metadata
// left behind in the main repository.
//
// The order is fixed: the dirty check runs before anything is touched, the
// repository handle is released before the directory is deleted, and pruning
// only happens once the directory is gone.
func (c *Client) Remove(path string, force bool) error {
	// A symlink would otherwise be removed in place of the worktree it points to
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return domain.NewPathError(domain.ErrWorktreeRemovalFailed, path, err.Error())
	}

	if !force {
		dirty, err := c.HasUncommittedChanges(target)
		if err != nil {
			return err
		}
		if dirty {
			return domain.NewPathError(domain.ErrWorktreeHasChanges, path, "")
		}
	}

	mainRepoPath, err := mainRepoOf(target)
	if err != nil {
		return domain.NewPathError(domain.ErrWorktreeRemovalFailed, path, err.Error())
	}

	if err := os.RemoveAll(target); err != nil {
		return domain.NewPathError(domain.ErrWorktreeRemovalFailed, path,
			fmt.Sprintf("failed to remove directory: %v", err))
	}
	if target != path {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			c.logger.Debug("failed to remove worktree link", "path", path, "error", err)
		}
	}
	c.logger.Debug("removed worktree directory", "path", target)

	if _, err := c.Prune(mainRepoPath); err != nil {
		return domain.NewPathError(domain.ErrWorktreeRemovalFailed, path,
			fmt.Sprintf("failed to prune worktree metadata: %v", err))
	}

	return nil
}

// Info returns the branch and dirty state of the worktree at path.
func (c *Client) Info(path string) (*domain.WorktreeInfo, error) {
	repo, err := openRepository(path)
	if err != nil {
		return nil, err
	}
	branch, err := currentBranch(repo)
	closeRepository(repo)
	if err != nil {
		return nil, err
	}

	dirty, err := c.HasUncommittedChanges(path)
	if err != nil {
		return nil, err
	}

	return &domain.WorktreeInfo{
		Branch:                branch,
		Path:                  path,
		HasUncommittedChanges: dirty,
	}, nil
}

// mainRepoOf returns the main checkout a linked worktree belongs to.
// The repository handle used to verify path is closed before returning.
func mainRepoOf(path string) (string, error) {
	repo, err := openRepository(path)
	if err != nil {
		return "", err
	}
	closeRepository(repo)

	adminDir, err := readGitDirFile(path)
	if err != nil {
		return "", err
	}

	// <main>/.git/worktrees/<name>
	if filepath.Base(filepath.Dir(adminDir)) != worktreesDir {
		return "", fmt.Errorf("not a linked worktree: unexpected git dir %s", adminDir)
	}
	return filepath.Dir(filepath.Dir(filepath.Dir(adminDir))), nil
}

// resolveBase returns the commit a new branch starts from.
func resolveBase(repo *git.Repository, baseBranch string) (*object.Commit, error) {
	var ref *plumbing.Reference
	var err error
	if baseBranch != "" {
		ref, err = repo.Reference(plumbing.NewBranchReferenceName(baseBranch), true)
		if err != nil {
			return nil, fmt.Errorf("base branch '%s' not found: %w", baseBranch, err)
		}
	} else {
		ref, err = repo.Head()
		if err != nil {
			return nil, fmt.Errorf("resolve HEAD: %w", err)
		}
	}

	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("resolve commit for %s: %w", ref.Name(), err)
	}
	return commit, nil
}

// createBranch creates refs/heads/<branch> at commit. It never moves an existing branch.
func createBranch(repo *git.Repository, branch string, commit *object.Commit) error {
	name := plumbing.NewBranchReferenceName(branch)
	_, err := repo.Reference(name, false)
	if err == nil {
		return fmt.Errorf("a branch named '%s' already exists", branch)
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return err
	}
	return repo.Storer.SetReference(plumbing.NewHashReference(name, commit.Hash))
}

// currentBranch returns the short branch name HEAD points to.
// Returns nil for a detached or unborn HEAD.
func currentBranch(repo *git.Repository) (*string, error) {
	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !head.Name().IsBranch() {
		return nil, nil
	}
	short := head.Name().Short()
	return &short, nil
}
