package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Level classifies a task. It is the first segment of branch names and worktree paths.
type Level string

// Task levels.
const (
	LevelFeature  Level = "feature"
	LevelFix      Level = "fix"
	LevelChore    Level = "chore"
	LevelDocs     Level = "docs"
	LevelRefactor Level = "refactor"
	LevelTest     Level = "test"
	LevelPerf     Level = "perf"
	LevelStyle    Level = "style"
	LevelCI       Level = "ci"
)

// Levels lists all valid levels in display order.
var Levels = []Level{
	LevelFeature, LevelFix, LevelChore, LevelDocs, LevelRefactor,
	LevelTest, LevelPerf, LevelStyle, LevelCI,
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if strings.EqualFold(s, string(l)) {
			return l, nil
		}
	}
	names := make([]string, len(Levels))
	for i, l := range Levels {
		names[i] = string(l)
	}
	return "", &InputError{
		Field:  "level",
		Reason: fmt.Sprintf("%q is not one of %s", s, strings.Join(names, ", ")),
	}
}

// ToSnakeCase converts s to snake_case.
// Words are split on non-alphanumeric runes and on case transitions.
func ToSnakeCase(s string) string {
	return strings.Join(splitWords(s), "_")
}

// ToKebabCase converts s to kebab-case.
func ToKebabCase(s string) string {
	return strings.Join(splitWords(s), "-")
}

// splitWords breaks s into lowercase words.
// "HTTPServer" and "httpServer" both yield [http server].
func splitWords(s string) []string {
	runes := []rune(s)
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = nil
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			switch {
			case unicode.IsLower(prev) || unicode.IsDigit(prev):
				flush()
			case unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				// end of an acronym: "HTTPServer" splits before "S"
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()

	return words
}

// BranchName returns the branch name for a task.
// Format: <level>/<id>-<kebab-case name>. Only name is re-cased.
func BranchName(level, id, name string) string {
	return fmt.Sprintf("%s/%s-%s", level, id, ToKebabCase(name))
}

// TaskTitle returns the title a task is stored under. It matches the branch name.
func TaskTitle(level, id, name string) string {
	return BranchName(level, id, name)
}

// ComputeWorktreePath returns the worktree directory for a task.
// Worktrees are siblings of the main checkout:
//
//	<parent of mainRepoPath>/<level>/<id>-<snake_case name>
func ComputeWorktreePath(mainRepoPath, level, id, name string) (string, error) {
	clean := filepath.Clean(mainRepoPath)
	repoRoot := filepath.Dir(clean)
	if repoRoot == clean {
		return "", NewPathError(ErrInvalidMainRepoPath, mainRepoPath, "path has no parent directory")
	}

	info, err := os.Stat(repoRoot)
	if err != nil || !info.IsDir() {
		return "", NewPathError(ErrInvalidMainRepoPath, mainRepoPath, "parent directory does not exist")
	}

	return filepath.Join(repoRoot, level, fmt.Sprintf("%s-%s", id, ToSnakeCase(name))), nil
}

// WorktreeName returns the name git tracks a worktree under: the final path component.
// Returns false when the path has no usable final component (e.g. "/").
func WorktreeName(worktreePath string) (string, bool) {
	base := filepath.Base(filepath.Clean(worktreePath))
	if base == "" || base == "." || base == ".." || strings.ContainsRune(base, filepath.Separator) {
		return "", false
	}
	return base, true
}
