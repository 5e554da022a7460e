package domain

// TaskRepository manages task persistence.
type TaskRepository interface {
	// Get retrieves a task. Returns a TaskError wrapping ErrTaskNotFound if absent.
	Get(project, title string) (*Task, error)

	// List returns tasks ordered by project, optionally limited to one project.
	// An empty project returns all tasks.
	List(project string) ([]ProjectTask, error)

	// Add stores a new task. Returns ErrDuplicateTask if the title is taken.
	Add(project string, task *Task) error

	// Remove deletes a task and returns it.
	Remove(project, title string) (*Task, error)
}

// WorktreeManager manages git worktrees.
// Each call opens the repositories it needs and releases them before returning.
type WorktreeManager interface {
	// Validate checks that path exists and opens as a git repository or worktree.
	Validate(path string) error

	// Create creates branch from baseBranch (HEAD if empty) and checks it out at worktreePath.
	Create(mainRepoPath, worktreePath, branch, baseBranch string) error

	// HasUncommittedChanges reports whether the working tree at path is dirty.
	HasUncommittedChanges(path string) (bool, error)

	// Remove deletes the worktree at path and prunes stale worktree metadata.
	// Without force, a dirty worktree is left untouched.
	Remove(path string, force bool) error

	// Info inspects the worktree at path.
	Info(path string) (*WorktreeInfo, error)

	// Prune removes metadata of worktrees whose directories are gone.
	// Returns the names of the pruned entries.
	Prune(mainRepoPath string) ([]string, error)
}

// WorktreeInfo is a snapshot of a worktree's state. It is never persisted.
type WorktreeInfo struct {
	Branch                *string `json:"branch" yaml:"branch"` // nil when HEAD is detached or unborn
	Path                  string  `json:"path" yaml:"path"`
	HasUncommittedChanges bool    `json:"has_uncommitted_changes" yaml:"has_uncommitted_changes"`
}
