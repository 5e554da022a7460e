// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"slices"
	"sort"

	"github.com/runoshun/tm/internal/domain"
)

// MockTaskRepository is a test double for domain.TaskRepository.
// Tasks are kept per project in insertion order.
type MockTaskRepository struct {
	Projects  map[string][]*domain.Task
	GetErr    error
	ListErr   error
	AddErr    error
	RemoveErr error
}

// NewMockTaskRepository creates a new MockTaskRepository with initialized maps.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		Projects: make(map[string][]*domain.Task),
	}
}

// Get retrieves a task by project and title.
func (m *MockTaskRepository) Get(project, title string) (*domain.Task, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, t := range m.Projects[project] {
		if t.Title == title {
			return t, nil
		}
	}
	return nil, &domain.TaskError{Kind: domain.ErrTaskNotFound, Project: project, Title: title}
}

// List returns tasks sorted by project.
func (m *MockTaskRepository) List(project string) ([]domain.ProjectTask, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	names := make([]string, 0, len(m.Projects))
	for name := range m.Projects {
		if project == "" || name == project {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var tasks []domain.ProjectTask
	for _, name := range names {
		for _, t := range m.Projects[name] {
			tasks = append(tasks, domain.ProjectTask{Project: name, Task: t})
		}
	}
	return tasks, nil
}

// Add stores a task.
func (m *MockTaskRepository) Add(project string, task *domain.Task) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	for _, t := range m.Projects[project] {
		if t.Title == task.Title {
			return &domain.TaskError{Kind: domain.ErrDuplicateTask, Project: project, Title: task.Title}
		}
	}
	m.Projects[project] = append(m.Projects[project], task)
	return nil
}

// Remove deletes a task.
func (m *MockTaskRepository) Remove(project, title string) (*domain.Task, error) {
	if m.RemoveErr != nil {
		return nil, m.RemoveErr
	}
	tasks, ok := m.Projects[project]
	if !ok {
		return nil, &domain.TaskError{Kind: domain.ErrProjectNotFound, Project: project}
	}
	i := slices.IndexFunc(tasks, func(t *domain.Task) bool { return t.Title == title })
	if i < 0 {
		return nil, &domain.TaskError{Kind: domain.ErrTaskNotFound, Project: project, Title: title}
	}
	task := tasks[i]
	tasks = slices.Delete(tasks, i, i+1)
	if len(tasks) == 0 {
		delete(m.Projects, project)
	} else {
		m.Projects[project] = tasks
	}
	return task, nil
}

// MockWorktreeManager is a test double for domain.WorktreeManager.
// Calls records the operations invoked, in order.
type MockWorktreeManager struct {
	Dirty         map[string]bool
	Infos         map[string]*domain.WorktreeInfo
	ValidateErr   error
	CreateErr     error
	HasChangesErr error
	RemoveErr     error
	InfoErr       error
	PruneErr      error
	Pruned        []string
	Calls         []string

	// Captured arguments
	CreatedMain   string
	CreatedPath   string
	CreatedBranch string
	CreatedBase   string
	RemovedPath   string
	RemovedForce  bool
}

// NewMockWorktreeManager creates a new MockWorktreeManager with initialized maps.
func NewMockWorktreeManager() *MockWorktreeManager {
	return &MockWorktreeManager{
		Dirty: make(map[string]bool),
		Infos: make(map[string]*domain.WorktreeInfo),
	}
}

// Validate returns ValidateErr.
func (m *MockWorktreeManager) Validate(path string) error {
	m.Calls = append(m.Calls, "validate:"+path)
	return m.ValidateErr
}

// Create records its arguments and returns CreateErr.
func (m *MockWorktreeManager) Create(mainRepoPath, worktreePath, branch, baseBranch string) error {
	m.Calls = append(m.Calls, "create:"+worktreePath)
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.CreatedMain = mainRepoPath
	m.CreatedPath = worktreePath
	m.CreatedBranch = branch
	m.CreatedBase = baseBranch
	return nil
}

// HasUncommittedChanges returns the configured dirty state for path.
func (m *MockWorktreeManager) HasUncommittedChanges(path string) (bool, error) {
	if m.HasChangesErr != nil {
		return false, m.HasChangesErr
	}
	return m.Dirty[path], nil
}

// Remove fails with ErrWorktreeHasChanges for dirty paths unless force is set.
func (m *MockWorktreeManager) Remove(path string, force bool) error {
	m.Calls = append(m.Calls, "remove:"+path)
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	if !force && m.Dirty[path] {
		return domain.NewPathError(domain.ErrWorktreeHasChanges, path, "")
	}
	m.RemovedPath = path
	m.RemovedForce = force
	return nil
}

// Info returns the configured info for path.
func (m *MockWorktreeManager) Info(path string) (*domain.WorktreeInfo, error) {
	if m.InfoErr != nil {
		return nil, m.InfoErr
	}
	if info, ok := m.Infos[path]; ok {
		return info, nil
	}
	return &domain.WorktreeInfo{Path: path, HasUncommittedChanges: m.Dirty[path]}, nil
}

// Prune returns Pruned.
func (m *MockWorktreeManager) Prune(mainRepoPath string) ([]string, error) {
	m.Calls = append(m.Calls, "prune:"+mainRepoPath)
	if m.PruneErr != nil {
		return nil, m.PruneErr
	}
	return m.Pruned, nil
}
