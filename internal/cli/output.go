package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/tm/internal/domain"
)

var listFormats = []string{domain.FormatTable, domain.FormatSimple, domain.FormatJSON, domain.FormatYAML}

func validateFormat(format string, allowed []string) error {
	if !slices.Contains(allowed, format) {
		return &domain.InputError{
			Field:  "format",
			Reason: fmt.Sprintf("%q is not one of %v", format, allowed),
		}
	}
	return nil
}

// taskRecord is the machine-readable form of a task.
// Optional fields are always present so scripts see a stable shape.
type taskRecord struct {
	Description  *string `json:"description" yaml:"description"`
	Reference    *string `json:"reference" yaml:"reference"`
	RemoteURL    *string `json:"remote_url" yaml:"remote_url"`
	APIURL       *string `json:"api_url" yaml:"api_url"`
	Project      string  `json:"project" yaml:"project"`
	Title        string  `json:"title" yaml:"title"`
	WorktreePath string  `json:"worktree_path" yaml:"worktree_path"`
}

func newTaskRecord(project string, task *domain.Task) taskRecord {
	return taskRecord{
		Project:      project,
		Title:        task.Title,
		WorktreePath: task.WorktreePath,
		Description:  optional(task.Description),
		Reference:    optional(task.Reference),
		RemoteURL:    optional(task.RemoteURL),
		APIURL:       optional(task.APIURL),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// printTasks writes tasks in the given format.
func printTasks(w io.Writer, tasks []domain.ProjectTask, format string) error {
	switch format {
	case domain.FormatSimple:
		for _, pt := range tasks {
			_, _ = fmt.Fprintf(w, "%s/%s\n", pt.Project, pt.Task.Title)
		}
		return nil
	case domain.FormatJSON:
		return writeJSON(w, taskRecords(tasks))
	case domain.FormatYAML:
		return writeYAML(w, taskRecords(tasks))
	default:
		printTaskTable(w, tasks)
		return nil
	}
}

func taskRecords(tasks []domain.ProjectTask) []taskRecord {
	records := make([]taskRecord, 0, len(tasks))
	for _, pt := range tasks {
		records = append(records, newTaskRecord(pt.Project, pt.Task))
	}
	return records
}

func printTaskTable(w io.Writer, tasks []domain.ProjectTask) {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("238"))).
		Headers("PROJECT", "TITLE", "REFERENCE", "WORKTREE PATH").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, pt := range tasks {
		ref := pt.Task.Reference
		if ref == "" {
			ref = "-"
		}
		t = t.Row(pt.Project, pt.Task.Title, ref, pt.Task.WorktreePath)
	}

	_, _ = fmt.Fprintln(w, t.String())
}

// taskDetail is the machine-readable form of `tm show`.
type taskDetail struct {
	Worktree *domain.WorktreeInfo `json:"worktree" yaml:"worktree"`
	taskRecord `yaml:",inline"`
}

// printTaskDetail writes a single task with its worktree state.
func printTaskDetail(w io.Writer, project string, task *domain.Task, info *domain.WorktreeInfo, format string) error {
	switch format {
	case domain.FormatJSON:
		return writeJSON(w, taskDetail{taskRecord: newTaskRecord(project, task), Worktree: info})
	case domain.FormatYAML:
		return writeYAML(w, taskDetail{taskRecord: newTaskRecord(project, task), Worktree: info})
	}

	labelStyle := lipgloss.NewStyle().Bold(true)
	line := func(label, value string) {
		if value == "" {
			value = "-"
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-14s", label+":")), value)
	}

	line("Project", project)
	line("Title", task.Title)
	line("Reference", task.Reference)
	line("Description", task.Description)
	line("Worktree", task.WorktreePath)
	if task.RemoteURL != "" {
		line("Remote URL", task.RemoteURL)
	}
	if task.APIURL != "" {
		line("API URL", task.APIURL)
	}

	if info == nil {
		line("Status", "worktree missing")
		return nil
	}
	branch := "(detached)"
	if info.Branch != nil {
		branch = *info.Branch
	}
	line("Branch", branch)
	status := "clean"
	if info.HasUncommittedChanges {
		status = "uncommitted changes"
	}
	line("Status", status)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
