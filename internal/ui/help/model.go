package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/issue-tracker/internal/keys"
	"github.com/nhle/issue-tracker/internal/theme"
)

// narrowWidth is the width under which only the short help is shown.
const narrowWidth = 50

// reloadNote tells the user there is no in-app refresh.
const reloadNote = "Issues are fetched once at startup. Restart to reload."

// Model is the keyboard help overlay shown over the issue list.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(k *keys.KeyMap, width, height int) Model {
	m := Model{keys: k, help: help.New()}
	m.SetSize(width, height)
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the root model opens and closes the overlay.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the bindings grouped in columns, or a single line on
// narrow terminals.
func (m Model) View() string {
	title := theme.TitleStyle.Render("Keyboard Shortcuts")

	m.help.ShowAll = m.width >= narrowWidth
	bindings := m.help.View(m.keys)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		bindings,
		"",
		theme.MessageStyle.Render(reloadNote),
	)

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = max(width-8, 0)
}
