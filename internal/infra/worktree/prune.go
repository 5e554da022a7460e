package worktree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/runoshun/tm/internal/domain"
)

// Prune removes the admin entries under <common git dir>/worktrees whose
// working directories no longer exist. Locked entries are kept.
// Failures on individual entries are logged and skipped.
func (c *Client) Prune(mainRepoPath string) ([]string, error) {
	repo, err := openRepository(mainRepoPath)
	if err != nil {
		return nil, domain.NewPathError(domain.ErrGitRepoNotFound, mainRepoPath, err.Error())
	}
	closeRepository(repo)

	commonDir, err := commonGitDir(mainRepoPath)
	if err != nil {
		return nil, fmt.Errorf("locate git dir: %w", err)
	}
	fs := osfs.New(commonDir)

	entries, err := fs.ReadDir(worktreesDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list worktrees: %w", err)
	}

	var pruned []string
	for _, entry := range entries {
		name := entry.Name()
		admin := fs.Join(worktreesDir, name)

		reason, stale := staleReason(fs, commonDir, admin)
		if !stale {
			continue
		}
		if err := util.RemoveAll(fs, admin); err != nil {
			c.logger.Debug("prune worktree failed", "name", name, "error", err)
			continue
		}
		c.logger.Debug("pruned worktree", "name", name, "reason", reason)
		pruned = append(pruned, name)
	}

	if remaining, err := fs.ReadDir(worktreesDir); err == nil && len(remaining) == 0 {
		_ = fs.Remove(worktreesDir)
	}

	return pruned, nil
}

// staleReason reports whether the admin entry at admin (relative to fs) is
// prunable and why.
func staleReason(fs billy.Filesystem, commonDir, admin string) (string, bool) {
	info, err := fs.Stat(admin)
	if err != nil {
		return "", false
	}
	if !info.IsDir() {
		return "not a directory", true
	}
	if _, err := fs.Stat(fs.Join(admin, "locked")); err == nil {
		return "", false
	}

	data, err := util.ReadFile(fs, fs.Join(admin, "gitdir"))
	if err != nil {
		return "gitdir file does not exist", true
	}
	target := strings.TrimSpace(string(data))
	if target == "" {
		return "invalid gitdir file", true
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(commonDir, admin, target)
	}
	if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
		return "gitdir file points to non-existent location", true
	}

	return "", false
}
