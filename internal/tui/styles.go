package tui

import "github.com/charmbracelet/lipgloss"

// Colors defines the color palette for the picker.
var Colors = struct {
	Primary       lipgloss.Color
	TitleSelected lipgloss.Color
	DescSelected  lipgloss.Color
}{
	Primary:       lipgloss.Color("#6C5CE7"), // Purple
	TitleSelected: lipgloss.Color("#FFEAA7"), // Yellow (selected)
	DescSelected:  lipgloss.Color("#B2BEC3"), // Light gray
}

// Styles holds the lipgloss styles used by the picker.
type Styles struct {
	Title         lipgloss.Style
	SelectedTitle lipgloss.Style
	SelectedDesc  lipgloss.Style
}

// DefaultStyles returns the default picker styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(Colors.Primary).
			Padding(0, 1),
		SelectedTitle: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(Colors.Primary).
			Foreground(Colors.TitleSelected).
			Padding(0, 0, 0, 1),
		SelectedDesc: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(Colors.Primary).
			Foreground(Colors.DescSelected).
			Padding(0, 0, 0, 1),
	}
}
