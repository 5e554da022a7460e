// Package domain contains core business entities and interfaces.
package domain

// Task represents a unit of work tied to a git worktree.
// Title is unique within a project.
type Task struct {
	Title        string `toml:"title" json:"title" yaml:"title"`
	Description  string `toml:"description,omitempty" json:"description,omitempty" yaml:"description,omitempty"`
	WorktreePath string `toml:"worktree_path" json:"worktree_path" yaml:"worktree_path"`
	Reference    string `toml:"reference,omitempty" json:"reference,omitempty" yaml:"reference,omitempty"` // e.g. JIRA-123
	RemoteURL    string `toml:"remote_url,omitempty" json:"remote_url,omitempty" yaml:"remote_url,omitempty"`
	APIURL       string `toml:"api_url,omitempty" json:"api_url,omitempty" yaml:"api_url,omitempty"`
}

// TaskOptions holds the optional fields of a task.
// RemoteURL and APIURL are stored but not used by any command yet.
type TaskOptions struct {
	Description string
	Reference   string
	RemoteURL   string
	APIURL      string
}

// NewTask creates a task with the required fields and any options set.
func NewTask(title, worktreePath string, opts TaskOptions) *Task {
	return &Task{
		Title:        title,
		WorktreePath: worktreePath,
		Description:  opts.Description,
		Reference:    opts.Reference,
		RemoteURL:    opts.RemoteURL,
		APIURL:       opts.APIURL,
	}
}

// ProjectTask pairs a task with the project it belongs to.
type ProjectTask struct {
	Task    *Task
	Project string
}
