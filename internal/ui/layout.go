package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/issue-tracker/internal/theme"
)

// Layout holds the terminal dimensions and the fixed bar heights.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with one-line header and status bars.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the rows left between the two bars, never negative.
func (l Layout) ContentHeight() int {
	return max(l.Height-l.HeaderHeight-l.StatusBarHeight, 0)
}

// RenderHeader renders the title on the left and the fetch state on the
// right, filling the gap with the header background.
func (l Layout) RenderHeader(title string, state string) string {
	left := theme.HeaderStyle.Render(title)
	right := theme.HeaderStyle.Render(state)
	return l.spread(theme.HeaderStyle, left, right)
}

// RenderStatusBar renders the key hints across the full width.
func (l Layout) RenderStatusBar(hints string) string {
	return l.spread(theme.StatusBarStyle, theme.StatusBarStyle.Render(hints), "")
}

// spread joins left and right with a filler of the bar's background so
// the bar spans the whole width.
func (l Layout) spread(bar lipgloss.Style, left, right string) string {
	gap := max(l.Width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(bar.GetBackground()).
		Render("")
	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}

// RenderWithFrame stacks header, content and status bar. The content is
// placed in a box of ContentHeight rows so the status bar stays on the
// last line whatever the view's height.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	if h := l.ContentHeight(); h > 0 && lipgloss.Height(content) < h {
		content = lipgloss.PlaceVertical(h, lipgloss.Top, content)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}
