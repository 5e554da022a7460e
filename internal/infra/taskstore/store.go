// Package taskstore provides TOML-backed task persistence.
package taskstore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/tm/internal/domain"
)

// Ensure Store implements domain.TaskRepository.
var _ domain.TaskRepository = (*Store)(nil)

// tasksFile is the on-disk layout: one array of tables per project.
//
//	[[projects.myapp]]
//	title = "feature/JIRA-1-auth-system"
//	worktree_path = "/home/u/projects/myapp/feature/JIRA-1-auth_system"
type tasksFile struct {
	Projects map[string][]domain.Task `toml:"projects"`
}

// Store implements TaskRepository on a single TOML file.
// Reads hold a shared lock and writes an exclusive lock on <file>.lock.
type Store struct {
	logger      *slog.Logger
	filePath    string
	lockTimeout time.Duration
}

// NewStore creates a new task store for the file at filePath.
func NewStore(filePath string, lockTimeout time.Duration, logger *slog.Logger) *Store {
	if lockTimeout <= 0 {
		lockTimeout = domain.DefaultLockTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		logger:      logger,
		filePath:    filePath,
		lockTimeout: lockTimeout,
	}
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.filePath
}

// Get retrieves a task by project and title.
func (s *Store) Get(project, title string) (*domain.Task, error) {
	var found *domain.Task
	err := s.read(func(f *tasksFile) error {
		for _, task := range f.Projects[project] {
			if task.Title == title {
				found = &task
				return nil
			}
		}
		return &domain.TaskError{Kind: domain.ErrTaskNotFound, Project: project, Title: title}
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// List returns tasks sorted by project name, in insertion order within a project.
// An empty project returns all tasks.
func (s *Store) List(project string) ([]domain.ProjectTask, error) {
	var tasks []domain.ProjectTask
	err := s.read(func(f *tasksFile) error {
		names := make([]string, 0, len(f.Projects))
		for name := range f.Projects {
			if project != "" && name != project {
				continue
			}
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			for _, task := range f.Projects[name] {
				tasks = append(tasks, domain.ProjectTask{Project: name, Task: &task})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Add stores a new task under project.
func (s *Store) Add(project string, task *domain.Task) error {
	return s.update(func(f *tasksFile) error {
		existing := f.Projects[project]
		if slices.ContainsFunc(existing, func(t domain.Task) bool { return t.Title == task.Title }) {
			return &domain.TaskError{Kind: domain.ErrDuplicateTask, Project: project, Title: task.Title}
		}
		f.Projects[project] = append(existing, *task)
		return nil
	})
}

// Remove deletes a task and returns it. A project left without tasks is dropped.
func (s *Store) Remove(project, title string) (*domain.Task, error) {
	var removed *domain.Task
	err := s.update(func(f *tasksFile) error {
		tasks, ok := f.Projects[project]
		if !ok {
			return &domain.TaskError{Kind: domain.ErrProjectNotFound, Project: project}
		}

		i := slices.IndexFunc(tasks, func(t domain.Task) bool { return t.Title == title })
		if i < 0 {
			return &domain.TaskError{Kind: domain.ErrTaskNotFound, Project: project, Title: title}
		}
		task := tasks[i]
		removed = &task

		tasks = slices.Delete(tasks, i, i+1)
		if len(tasks) == 0 {
			delete(f.Projects, project)
		} else {
			f.Projects[project] = tasks
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// read loads the file under a shared lock and passes it to fn.
func (s *Store) read(fn func(*tasksFile) error) error {
	// Nothing to lock or read before the first write creates the directory
	if _, err := os.Stat(filepath.Dir(s.filePath)); errors.Is(err, os.ErrNotExist) {
		return fn(&tasksFile{Projects: map[string][]domain.Task{}})
	}

	return withReadLock(s.filePath, s.lockTimeout, func() error {
		f, err := s.load()
		if err != nil {
			return err
		}
		return fn(f)
	})
}

// update runs a read-modify-write cycle under an exclusive lock.
// The file is only written when fn succeeds.
func (s *Store) update(fn func(*tasksFile) error) error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0700); err != nil {
		return fmt.Errorf("create task store directory: %w", err)
	}

	return withLock(s.filePath, s.lockTimeout, func() error {
		f, err := s.load()
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return err
		}
		return s.save(f)
	})
}

// load reads the task file. A missing file yields an empty store.
func (s *Store) load() (*tasksFile, error) {
	f := &tasksFile{Projects: map[string][]domain.Task{}}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, fmt.Errorf("read task store: %w", err)
	}

	if err := toml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse task store %s: %w", s.filePath, err)
	}
	if f.Projects == nil {
		f.Projects = map[string][]domain.Task{}
	}
	return f, nil
}

// save writes the task file atomically with 0600 permissions.
func (s *Store) save(f *tasksFile) error {
	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode task store: %w", err)
	}

	if err := atomicWriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("write task store: %w", err)
	}
	s.logger.Debug("saved task store", "path", s.filePath, "projects", len(f.Projects))
	return nil
}

// atomicWriteFile writes data to a temp file in the same directory and renames it over path.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
