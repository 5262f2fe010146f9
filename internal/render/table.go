package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/issue-tracker/internal/model"
	"github.com/nhle/issue-tracker/internal/theme"
)

// Fixed user-facing texts shared by every renderer.
const (
	Title        = "Issue Tracker"
	LoadingText  = "Loading issues..."
	NoIssuesText = "No issues found. Please create some using the backend API."
)

// Column indexes used for per-cell styling.
const (
	colStatus   = 2
	colPriority = 3
)

// Table renders issues as a bordered text table under the title. With no
// issues the title is followed by NoIssuesText instead of a table.
func Table(issues []model.Issue, f Formatter) string {
	if len(issues) == 0 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			theme.TitleStyle.Render(Title),
			NoIssuesText,
		)
	}

	rows := Rows(issues, f)
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		Headers(Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(rows) {
				return cellStyle
			}
			switch col {
			case colStatus:
				return theme.StatusStyle(rows[row][col]).Padding(0, 1)
			case colPriority:
				return theme.PriorityStyle(rows[row][col]).Padding(0, 1)
			}
			return cellStyle
		})

	return lipgloss.JoinVertical(
		lipgloss.Left,
		theme.TitleStyle.Render(Title),
		t.String(),
	)
}
