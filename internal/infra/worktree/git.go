package worktree

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// gitDirPrefix starts the .git file of a linked worktree.
const gitDirPrefix = "gitdir:"

// worktreesDir is the directory under the common git dir holding worktree admin entries.
const worktreesDir = "worktrees"

// openRepository opens path as a repository without searching parent directories.
// Linked worktrees are resolved through their commondir file.
func openRepository(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          false,
		EnableDotGitCommonDir: true,
	})
}

// closeRepository releases file handles held by the repository storage.
func closeRepository(repo *git.Repository) {
	if c, ok := repo.Storer.(io.Closer); ok {
		_ = c.Close()
	}
}

// runGit executes a git command in dir and returns its combined output.
func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// gitStdout executes a git command in dir and returns its standard output only.
func gitStdout(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(out), nil
}

// readGitDirFile returns the admin directory a linked worktree's .git file points to.
// Returns an error if path/.git is not a gitdir pointer file.
func readGitDirFile(path string) (string, error) {
	dotGit := filepath.Join(path, git.GitDirName)
	info, err := os.Lstat(dotGit)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", errors.New("not a linked worktree: .git is a directory")
	}

	data, err := os.ReadFile(dotGit)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(data))
	if !strings.HasPrefix(line, gitDirPrefix) {
		return "", fmt.Errorf("malformed %s file", dotGit)
	}

	dir := strings.TrimSpace(strings.TrimPrefix(line, gitDirPrefix))
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(path, dir)
	}
	return filepath.Clean(dir), nil
}

// commonGitDir returns the git directory shared by a repository and its worktrees.
func commonGitDir(repoPath string) (string, error) {
	dotGit := filepath.Join(repoPath, git.GitDirName)
	info, err := os.Stat(dotGit)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// bare repository
			return filepath.Clean(repoPath), nil
		}
		return "", err
	}
	if info.IsDir() {
		return dotGit, nil
	}

	adminDir, err := readGitDirFile(repoPath)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(adminDir, "commondir"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return adminDir, nil
		}
		return "", err
	}
	common := strings.TrimSpace(string(data))
	if !filepath.IsAbs(common) {
		common = filepath.Join(adminDir, common)
	}
	return filepath.Clean(common), nil
}
