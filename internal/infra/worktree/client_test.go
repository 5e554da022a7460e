package worktree

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/tm/internal/domain"
)

// setupTestRepo creates <tmp>/main with one commit on branch main.
// Returns the main checkout and the directory containing it.
func setupTestRepo(t *testing.T) (mainRepo, root string) {
	t.Helper()

	root = t.TempDir()
	mainRepo = filepath.Join(root, "main")
	require.NoError(t, os.MkdirAll(mainRepo, 0755))

	gitCmd(t, mainRepo, "init")
	gitCmd(t, mainRepo, "symbolic-ref", "HEAD", "refs/heads/main")
	gitCmd(t, mainRepo, "config", "user.email", "test@example.com")
	gitCmd(t, mainRepo, "config", "user.name", "Test User")
	gitCmd(t, mainRepo, "config", "commit.gpgsign", "false")

	require.NoError(t, os.WriteFile(filepath.Join(mainRepo, "README.md"), []byte("# Test"), 0644))
	gitCmd(t, mainRepo, "add", ".")
	gitCmd(t, mainRepo, "commit", "-m", "Initial commit")

	return mainRepo, root
}

// gitCmd runs a git command in dir and returns its trimmed output.
func gitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return strings.TrimSpace(string(out))
}

// addWorktree creates a worktree for branch at <root>/<level>/<dir>.
func addWorktree(t *testing.T, c *Client, mainRepo, root, level, dir, branch string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, level), 0755))
	path := filepath.Join(root, level, dir)
	require.NoError(t, c.Create(mainRepo, path, branch, ""))
	return path
}

func TestClient_Validate(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)

	assert.NoError(t, c.Validate(mainRepo))

	err := c.Validate(filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, domain.ErrPathNotFound)

	plain := filepath.Join(root, "plain")
	require.NoError(t, os.MkdirAll(plain, 0755))
	err = c.Validate(plain)
	assert.ErrorIs(t, err, domain.ErrInvalidWorktree)
}

func TestClient_Validate_LinkedWorktree(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)

	path := addWorktree(t, c, mainRepo, root, "feature", "1-x", "feature/1-x")

	assert.NoError(t, c.Validate(path))
}

func TestClient_Create_FromHead(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)

	path := addWorktree(t, c, mainRepo, root, "feature", "JIRA-1-auth_system", "feature/JIRA-1-auth-system")

	// Checked out with the repository contents
	_, err := os.Stat(filepath.Join(path, "README.md"))
	require.NoError(t, err)

	// Branch starts at HEAD of main
	assert.Equal(t, gitCmd(t, mainRepo, "rev-parse", "HEAD"), gitCmd(t, mainRepo, "rev-parse", "feature/JIRA-1-auth-system"))
	assert.Equal(t, "feature/JIRA-1-auth-system", gitCmd(t, path, "rev-parse", "--abbrev-ref", "HEAD"))

	// Registered under the final path component
	_, err = os.Stat(filepath.Join(mainRepo, ".git", "worktrees", "JIRA-1-auth_system"))
	assert.NoError(t, err)
}

func TestClient_Create_FromBaseBranch(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)

	gitCmd(t, mainRepo, "branch", "develop")
	require.NoError(t, os.WriteFile(filepath.Join(mainRepo, "new.txt"), []byte("new"), 0644))
	gitCmd(t, mainRepo, "add", ".")
	gitCmd(t, mainRepo, "commit", "-m", "Second commit")

	require.NoError(t, os.MkdirAll(filepath.Join(root, "fix"), 0755))
	path := filepath.Join(root, "fix", "2-bug")
	require.NoError(t, c.Create(mainRepo, path, "fix/2-bug", "develop"))

	develop := gitCmd(t, mainRepo, "rev-parse", "develop")
	assert.Equal(t, develop, gitCmd(t, mainRepo, "rev-parse", "fix/2-bug"))
	assert.NotEqual(t, gitCmd(t, mainRepo, "rev-parse", "HEAD"), develop)

	_, err := os.Stat(filepath.Join(path, "new.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestClient_Create_MissingBaseBranch(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)

	err := c.Create(mainRepo, filepath.Join(root, "1-x"), "feature/1-x", "nope")

	assert.ErrorIs(t, err, domain.ErrWorktreeCreationFailed)
	_, statErr := os.Stat(filepath.Join(root, "1-x"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestClient_Create_ExistingBranch(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)

	first := addWorktree(t, c, mainRepo, root, "feature", "1-x", "feature/1-x")

	err := c.Create(mainRepo, filepath.Join(root, "feature", "1-x-again"), "feature/1-x", "")

	require.ErrorIs(t, err, domain.ErrWorktreeCreationFailed)
	assert.Contains(t, err.Error(), "already exists")

	// The first worktree is untouched
	assert.NoError(t, c.Validate(first))
	_, statErr := os.Stat(filepath.Join(root, "feature", "1-x-again"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestClient_Create_NotARepository(t *testing.T) {
	root := t.TempDir()
	c := NewClient(nil)

	err := c.Create(root, filepath.Join(root, "wt"), "feature/1-x", "")

	assert.ErrorIs(t, err, domain.ErrGitRepoNotFound)
}

func TestClient_Create_NoNameComponent(t *testing.T) {
	mainRepo, _ := setupTestRepo(t)
	c := NewClient(nil)

	err := c.Create(mainRepo, string(filepath.Separator), "feature/1-x", "")

	assert.ErrorIs(t, err, domain.ErrWorktreeCreationFailed)
}

func TestClient_Create_InvalidBranchName(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)

	err := c.Create(mainRepo, filepath.Join(root, "bad"), "feature/bad..name", "")

	assert.ErrorIs(t, err, domain.ErrWorktreeCreationFailed)
}

func TestClient_HasUncommittedChanges(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)
	path := addWorktree(t, c, mainRepo, root, "feature", "1-x", "feature/1-x")

	dirty, err := c.HasUncommittedChanges(path)
	require.NoError(t, err)
	assert.False(t, dirty)

	// Untracked
	require.NoError(t, os.WriteFile(filepath.Join(path, "untracked.txt"), []byte("x"), 0644))
	dirty, err = c.HasUncommittedChanges(path)
	require.NoError(t, err)
	assert.True(t, dirty)

	// Staged
	gitCmd(t, path, "add", "untracked.txt")
	dirty, err = c.HasUncommittedChanges(path)
	require.NoError(t, err)
	assert.True(t, dirty)

	// Committed then modified
	gitCmd(t, path, "commit", "-m", "add file")
	dirty, err = c.HasUncommittedChanges(path)
	require.NoError(t, err)
	assert.False(t, dirty)

	require.NoError(t, os.WriteFile(filepath.Join(path, "README.md"), []byte("# Changed"), 0644))
	dirty, err = c.HasUncommittedChanges(path)
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestClient_HasUncommittedChanges_IgnoredFiles(t *testing.T) {
	mainRepo, _ := setupTestRepo(t)
	c := NewClient(nil)

	require.NoError(t, os.WriteFile(filepath.Join(mainRepo, ".gitignore"), []byte("*.log\n"), 0644))
	gitCmd(t, mainRepo, "add", ".gitignore")
	gitCmd(t, mainRepo, "commit", "-m", "ignore logs")
	require.NoError(t, os.WriteFile(filepath.Join(mainRepo, "debug.log"), []byte("x"), 0644))

	dirty, err := c.HasUncommittedChanges(mainRepo)
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestClient_HasUncommittedChanges_InfoExclude(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)
	path := addWorktree(t, c, mainRepo, root, "feature", "1-x", "feature/1-x")

	// info/exclude lives in the common git dir and applies to every worktree
	excludeFile := filepath.Join(mainRepo, ".git", "info", "exclude")
	require.NoError(t, os.MkdirAll(filepath.Dir(excludeFile), 0755))
	require.NoError(t, os.WriteFile(excludeFile, []byte("scratch.log\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(path, "scratch.log"), []byte("x"), 0644))
	require.Empty(t, gitCmd(t, path, "status", "--porcelain"))

	dirty, err := c.HasUncommittedChanges(path)
	require.NoError(t, err)
	assert.False(t, dirty)

	require.NoError(t, c.Remove(path, false))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestClient_HasUncommittedChanges_CoreExcludesFile(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)
	path := addWorktree(t, c, mainRepo, root, "feature", "1-x", "feature/1-x")

	excludes := filepath.Join(root, "global-ignore")
	require.NoError(t, os.WriteFile(excludes, []byte(".DS_Store\n"), 0644))
	gitCmd(t, mainRepo, "config", "core.excludesFile", excludes)
	require.NoError(t, os.WriteFile(filepath.Join(path, ".DS_Store"), []byte("x"), 0644))
	require.Empty(t, gitCmd(t, path, "status", "--porcelain"))

	dirty, err := c.HasUncommittedChanges(path)
	require.NoError(t, err)
	assert.False(t, dirty)

	// A file not covered by the excludes still counts
	require.NoError(t, os.WriteFile(filepath.Join(path, "notes.txt"), []byte("x"), 0644))
	dirty, err = c.HasUncommittedChanges(path)
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestClient_HasUncommittedChanges_NotARepository(t *testing.T) {
	c := NewClient(nil)

	_, err := c.HasUncommittedChanges(t.TempDir())

	assert.Error(t, err)
}

func TestClient_Remove_Clean(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)
	path := addWorktree(t, c, mainRepo, root, "feature", "1-x", "feature/1-x")

	require.NoError(t, c.Remove(path, false))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(mainRepo, ".git", "worktrees", "1-x"))
	assert.True(t, os.IsNotExist(err))
	assert.NotContains(t, gitCmd(t, mainRepo, "worktree", "list", "--porcelain"), path)

	// The branch survives removal
	assert.NotEmpty(t, gitCmd(t, mainRepo, "rev-parse", "--verify", "feature/1-x"))
}

func TestClient_Remove_DirtyWithoutForce(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)
	path := addWorktree(t, c, mainRepo, root, "feature", "1-x", "feature/1-x")
	require.NoError(t, os.WriteFile(filepath.Join(path, "wip.txt"), []byte("wip"), 0644))

	err := c.Remove(path, false)

	require.ErrorIs(t, err, domain.ErrWorktreeHasChanges)
	assert.Contains(t, err.Error(), path)

	// Nothing was touched
	_, statErr := os.Stat(filepath.Join(path, "wip.txt"))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(mainRepo, ".git", "worktrees", "1-x"))
	assert.NoError(t, statErr)
	assert.NoError(t, c.Validate(path))
}

func TestClient_Remove_DirtyWithForce(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)
	path := addWorktree(t, c, mainRepo, root, "feature", "1-x", "feature/1-x")
	require.NoError(t, os.WriteFile(filepath.Join(path, "wip.txt"), []byte("wip"), 0644))

	require.NoError(t, c.Remove(path, true))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(mainRepo, ".git", "worktrees", "1-x"))
	assert.True(t, os.IsNotExist(err))
}

func TestClient_Remove_KeepsOtherWorktrees(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)
	first := addWorktree(t, c, mainRepo, root, "feature", "1-x", "feature/1-x")
	second := addWorktree(t, c, mainRepo, root, "fix", "2-y", "fix/2-y")

	require.NoError(t, c.Remove(first, false))

	assert.NoError(t, c.Validate(second))
	_, err := os.Stat(filepath.Join(mainRepo, ".git", "worktrees", "2-y"))
	assert.NoError(t, err)
	assert.Contains(t, gitCmd(t, mainRepo, "worktree", "list", "--porcelain"), second)
}

func TestClient_Remove_RefusesMainCheckout(t *testing.T) {
	mainRepo, _ := setupTestRepo(t)
	c := NewClient(nil)

	err := c.Remove(mainRepo, true)

	require.ErrorIs(t, err, domain.ErrWorktreeRemovalFailed)
	_, statErr := os.Stat(filepath.Join(mainRepo, "README.md"))
	assert.NoError(t, statErr)
}

func TestClient_Remove_ThroughSymlink(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)
	path := addWorktree(t, c, mainRepo, root, "feature", "1-x", "feature/1-x")
	link := filepath.Join(root, "current")
	require.NoError(t, os.Symlink(path, link))

	require.NoError(t, c.Remove(link, false))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Lstat(link)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(mainRepo, ".git", "worktrees", "1-x"))
	assert.True(t, os.IsNotExist(err))
	assert.NotContains(t, gitCmd(t, mainRepo, "worktree", "list", "--porcelain"), "1-x")
}

func TestClient_Remove_DirtyThroughSymlink(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)
	path := addWorktree(t, c, mainRepo, root, "feature", "1-x", "feature/1-x")
	require.NoError(t, os.WriteFile(filepath.Join(path, "wip.txt"), []byte("wip"), 0644))
	link := filepath.Join(root, "current")
	require.NoError(t, os.Symlink(path, link))

	err := c.Remove(link, false)

	require.ErrorIs(t, err, domain.ErrWorktreeHasChanges)
	_, statErr := os.Stat(filepath.Join(path, "wip.txt"))
	assert.NoError(t, statErr)
	_, statErr = os.Lstat(link)
	assert.NoError(t, statErr)
}

func TestClient_Remove_MissingPath(t *testing.T) {
	c := NewClient(nil)

	err := c.Remove(filepath.Join(t.TempDir(), "gone"), true)

	assert.ErrorIs(t, err, domain.ErrWorktreeRemovalFailed)
}

func TestClient_Remove_NotARepository(t *testing.T) {
	dir := t.TempDir()
	c := NewClient(nil)

	err := c.Remove(dir, true)

	require.ErrorIs(t, err, domain.ErrWorktreeRemovalFailed)
	_, statErr := os.Stat(dir)
	assert.NoError(t, statErr)
}

func TestClient_Info(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)
	path := addWorktree(t, c, mainRepo, root, "feature", "1-x", "feature/1-x")

	info, err := c.Info(path)
	require.NoError(t, err)
	require.NotNil(t, info.Branch)
	assert.Equal(t, "feature/1-x", *info.Branch)
	assert.Equal(t, path, info.Path)
	assert.False(t, info.HasUncommittedChanges)

	require.NoError(t, os.WriteFile(filepath.Join(path, "wip.txt"), []byte("wip"), 0644))
	info, err = c.Info(path)
	require.NoError(t, err)
	assert.True(t, info.HasUncommittedChanges)
}

func TestClient_Info_DetachedHead(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)
	path := addWorktree(t, c, mainRepo, root, "feature", "1-x", "feature/1-x")
	gitCmd(t, path, "checkout", "--detach")

	info, err := c.Info(path)

	require.NoError(t, err)
	assert.Nil(t, info.Branch)
}

func TestClient_Info_NotARepository(t *testing.T) {
	c := NewClient(nil)

	_, err := c.Info(t.TempDir())

	assert.Error(t, err)
}

func TestClient_Prune(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)
	stale := addWorktree(t, c, mainRepo, root, "feature", "1-x", "feature/1-x")
	live := addWorktree(t, c, mainRepo, root, "fix", "2-y", "fix/2-y")
	require.NoError(t, os.RemoveAll(stale))

	pruned, err := c.Prune(mainRepo)

	require.NoError(t, err)
	assert.Equal(t, []string{"1-x"}, pruned)
	_, statErr := os.Stat(filepath.Join(mainRepo, ".git", "worktrees", "1-x"))
	assert.True(t, os.IsNotExist(statErr))
	assert.NoError(t, c.Validate(live))

	// Idempotent
	pruned, err = c.Prune(mainRepo)
	require.NoError(t, err)
	assert.Empty(t, pruned)
}

func TestClient_Prune_SkipsLocked(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)
	path := addWorktree(t, c, mainRepo, root, "feature", "1-x", "feature/1-x")
	gitCmd(t, mainRepo, "worktree", "lock", path)
	require.NoError(t, os.RemoveAll(path))

	pruned, err := c.Prune(mainRepo)

	require.NoError(t, err)
	assert.Empty(t, pruned)
	_, statErr := os.Stat(filepath.Join(mainRepo, ".git", "worktrees", "1-x"))
	assert.NoError(t, statErr)
}

func TestClient_Prune_NoWorktrees(t *testing.T) {
	mainRepo, _ := setupTestRepo(t)
	c := NewClient(nil)

	pruned, err := c.Prune(mainRepo)

	require.NoError(t, err)
	assert.Empty(t, pruned)
}

func TestClient_Prune_RemovesEmptyWorktreesDir(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)
	path := addWorktree(t, c, mainRepo, root, "feature", "1-x", "feature/1-x")
	require.NoError(t, os.RemoveAll(path))

	_, err := c.Prune(mainRepo)

	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(mainRepo, ".git", "worktrees"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestClient_Prune_NotARepository(t *testing.T) {
	c := NewClient(nil)

	_, err := c.Prune(t.TempDir())

	assert.ErrorIs(t, err, domain.ErrGitRepoNotFound)
}

func TestClient_Create_AfterStaleRegistration(t *testing.T) {
	mainRepo, root := setupTestRepo(t)
	c := NewClient(nil)
	path := addWorktree(t, c, mainRepo, root, "feature", "1-x", "feature/1-x")
	require.NoError(t, os.RemoveAll(path))

	// Same directory, new branch: the stale entry must not block creation
	require.NoError(t, c.Create(mainRepo, path, "feature/1-x-retry", ""))

	assert.NoError(t, c.Validate(path))
}
