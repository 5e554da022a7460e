// Package tui provides the interactive task picker.
package tui

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/tm/internal/domain"
)

// ErrCancelled is returned when the picker is closed without a selection.
var ErrCancelled = errors.New("no task selected")

// taskItem adapts a ProjectTask to list.Item.
type taskItem struct {
	pt domain.ProjectTask
}

func (t taskItem) Title() string {
	return t.pt.Project + "/" + t.pt.Task.Title
}

func (t taskItem) Description() string {
	return t.pt.Task.WorktreePath
}

func (t taskItem) FilterValue() string {
	return t.Title()
}

// Picker is the bubbletea model for choosing a task.
type Picker struct {
	selected *domain.ProjectTask
	keys     KeyMap
	list     list.Model
}

// NewPicker creates a picker over tasks.
func NewPicker(tasks []domain.ProjectTask) *Picker {
	items := make([]list.Item, len(tasks))
	for i, pt := range tasks {
		items[i] = taskItem{pt: pt}
	}

	styles := DefaultStyles()
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = styles.SelectedTitle
	delegate.Styles.SelectedDesc = styles.SelectedDesc

	taskList := list.New(items, delegate, 0, 0)
	taskList.Title = "Switch to task"
	taskList.Styles.Title = styles.Title
	taskList.SetFilteringEnabled(true)
	taskList.DisableQuitKeybindings()

	return &Picker{
		keys: DefaultKeyMap(),
		list: taskList,
	}
}

// Selected returns the chosen task, or nil if none was chosen.
func (p *Picker) Selected() *domain.ProjectTask {
	return p.selected
}

// Init implements tea.Model.
func (p *Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.list.SetSize(msg.Width, msg.Height)
		return p, nil

	case tea.KeyMsg:
		if key.Matches(msg, p.keys.ForceQuit) {
			return p, tea.Quit
		}

		// While typing a filter, keys belong to the filter input
		if p.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, p.keys.Select):
			if item, ok := p.list.SelectedItem().(taskItem); ok {
				pt := item.pt
				p.selected = &pt
				return p, tea.Quit
			}
			return p, nil
		case key.Matches(msg, p.keys.Escape):
			if p.list.FilterState() == list.FilterApplied {
				break
			}
			return p, tea.Quit
		case key.Matches(msg, p.keys.Quit):
			return p, tea.Quit
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

// View implements tea.Model.
func (p *Picker) View() string {
	return p.list.View()
}

// RunPicker shows the picker on out and returns the chosen task.
// Returns ErrCancelled if the user quits without choosing.
func RunPicker(tasks []domain.ProjectTask, out io.Writer) (*domain.ProjectTask, error) {
	prog := tea.NewProgram(NewPicker(tasks), tea.WithOutput(out), tea.WithAltScreen())

	final, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("run picker: %w", err)
	}

	picker, ok := final.(*Picker)
	if !ok || picker.Selected() == nil {
		return nil, ErrCancelled
	}
	return picker.Selected(), nil
}
