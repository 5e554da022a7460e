// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/tm/internal/domain"
)

// Environment variables that override the config file.
const (
	EnvTasksFile = "TM_TASKS_FILE"
	EnvLogLevel  = "TM_LOG_LEVEL"
)

// Loader loads configuration from a TOML file.
type Loader struct {
	configDir  string // Path to the tm config directory (e.g., ~/.config/tm)
	configFile string // Explicit config file; overrides configDir/config.toml
	getenv     func(string) string
}

// NewLoader creates a new Loader for the default config directory.
// configFile may be empty to use <config dir>/config.toml.
func NewLoader(configFile string) *Loader {
	return &Loader{
		configDir:  DefaultConfigDir(),
		configFile: configFile,
		getenv:     os.Getenv,
	}
}

// NewLoaderWithDir creates a new Loader with a custom config directory and environment.
// This is useful for testing.
func NewLoaderWithDir(configDir string, getenv func(string) string) *Loader {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &Loader{
		configDir: configDir,
		getenv:    getenv,
	}
}

// DefaultConfigDir returns the default config directory.
// $XDG_CONFIG_HOME is honored, falling back to ~/.config.
func DefaultConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.ConfigDir(configHome)
}

// Path returns the config file the loader reads.
func (l *Loader) Path() string {
	if l.configFile != "" {
		return l.configFile
	}
	return domain.ConfigFilePath(l.configDir)
}

// Load returns the configuration: defaults <- file <- environment.
// A missing file yields the defaults.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig(l.configDir)

	data, err := os.ReadFile(l.Path())
	switch {
	case err == nil:
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", l.Path(), err)
		}
		if err := applyRaw(cfg, raw); err != nil {
			return nil, fmt.Errorf("config %s: %w", l.Path(), err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if v := l.getenv(EnvTasksFile); v != "" {
		cfg.TasksFile = v
	}
	if v := l.getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}

	cfg.TasksFile = ExpandHome(cfg.TasksFile)
	return cfg, nil
}

// applyRaw copies known keys from raw into cfg. Unknown keys and values of
// the wrong type are recorded as warnings and otherwise ignored.
func applyRaw(cfg *domain.Config, raw map[string]any) error {
	var warnings []string
	typeWarning := func(key, want string, value any) {
		warnings = append(warnings, fmt.Sprintf("invalid value for %s: expected %s, got %T", key, want, value))
	}
	setString := func(key string, value any, dst *string) {
		if s, ok := value.(string); ok {
			*dst = s
			return
		}
		typeWarning(key, "string", value)
	}

	for key, value := range raw {
		switch key {
		case "tasks_file":
			setString(key, value, &cfg.TasksFile)
		case "base_branch":
			setString(key, value, &cfg.BaseBranch)
		case "lock_timeout":
			s, ok := value.(string)
			if !ok {
				typeWarning(key, "duration string", value)
				continue
			}
			d, err := time.ParseDuration(s)
			if err != nil {
				return fmt.Errorf("invalid lock_timeout %q: %w", s, err)
			}
			cfg.LockTimeout = d
		case "log":
			m, ok := value.(map[string]any)
			if !ok {
				typeWarning(key, "table", value)
				continue
			}
			for k, v := range m {
				switch k {
				case "level":
					setString("log.level", v, &cfg.Log.Level)
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [log]: %s", k))
				}
			}
		case "list":
			m, ok := value.(map[string]any)
			if !ok {
				typeWarning(key, "table", value)
				continue
			}
			for k, v := range m {
				switch k {
				case "format":
					setString("list.format", v, &cfg.List.Format)
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [list]: %s", k))
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown key: %s", key))
		}
	}

	// Map iteration order is random
	sort.Strings(warnings)
	cfg.Warnings = warnings
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
