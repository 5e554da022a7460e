package domain

import (
	"path/filepath"
	"time"
)

// File and directory names.
const (
	AppName        = "tm"
	ConfigFileName = "config.toml"
	TasksFileName  = "tasks.toml"
)

// Output formats for list and show.
const (
	FormatTable  = "table"
	FormatSimple = "simple"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
)

// Config represents the application configuration.
type Config struct {
	TasksFile   string        // Path to the task store
	BaseBranch  string        // Default base branch for new worktrees (empty = HEAD)
	Log         LogConfig     // [log] settings
	List        ListConfig    // [list] settings
	Warnings    []string      // Unknown keys found while loading
	LockTimeout time.Duration // How long to wait for the task store lock
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string // debug, info, warn, error
}

// ListConfig holds settings from the [list] section.
type ListConfig struct {
	Format string // table, simple, json, yaml
}

// DefaultLockTimeout is used when lock_timeout is not configured.
const DefaultLockTimeout = 5 * time.Second

// NewDefaultConfig returns the configuration used when no file exists.
func NewDefaultConfig(configDir string) *Config {
	return &Config{
		TasksFile:   TasksFilePath(configDir),
		Log:         LogConfig{Level: "warn"},
		List:        ListConfig{Format: FormatTable},
		LockTimeout: DefaultLockTimeout,
	}
}

// ConfigDir returns the tm directory under the user config home.
func ConfigDir(configHome string) string {
	return filepath.Join(configHome, AppName)
}

// ConfigFilePath returns the path to config.toml.
func ConfigFilePath(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

// TasksFilePath returns the default path to tasks.toml.
func TasksFilePath(configDir string) string {
	return filepath.Join(configDir, TasksFileName)
}
