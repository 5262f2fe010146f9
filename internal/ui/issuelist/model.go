package issuelist

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/issue-tracker/internal/keys"
	"github.com/nhle/issue-tracker/internal/model"
	"github.com/nhle/issue-tracker/internal/render"
	"github.com/nhle/issue-tracker/internal/source"
	"github.com/nhle/issue-tracker/internal/theme"
)

// State is the lifecycle state of the view. Loaded and Failed are terminal.
type State int

const (
	StateLoading State = iota
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IssuesLoadedMsg is sent when the fetch succeeded.
type IssuesLoadedMsg struct {
	Issues []model.Issue
}

// IssuesFailedMsg is sent when the fetch failed for any reason.
type IssuesFailedMsg struct {
	Err error
}

// Column widths. UpdatedAt is sized from the formatter and never
// truncated; Assignee and then Title give up space on narrow terminals.
const (
	widthID          = 11
	widthStatus      = 11
	widthPriority    = 8
	widthAssignee    = 14
	minAssigneeWidth = 3
	minTitleWidth    = 5

	// cellPadding is the horizontal padding each column adds.
	cellPadding = 2

	// titleHeight is the title line plus its margin.
	titleHeight = 2
)

// Model is the issue list view. It performs exactly one fetch, bound to
// the context it was created with.
type Model struct {
	ctx       context.Context
	fetcher   source.Fetcher
	keys      *keys.KeyMap
	formatter render.Formatter
	state     State
	issues    []model.Issue
	err       error
	table     table.Model
	updatedW  int
	titled    bool
	width     int
	height    int
}

// New creates a new issue list view in the Loading state.
func New(
	ctx context.Context,
	f source.Fetcher,
	formatter render.Formatter,
	k *keys.KeyMap,
	width, height int,
) Model {
	t := table.New(
		table.WithFocused(true),
		table.WithKeyMap(tableKeyMap(k)),
	)

	styles := table.DefaultStyles()
	styles.Header = theme.TableHeaderStyle
	styles.Cell = theme.TableCellStyle
	styles.Selected = theme.TableSelectedStyle
	t.SetStyles(styles)

	m := Model{
		ctx:       ctx,
		fetcher:   f,
		keys:      k,
		formatter: formatter,
		state:     StateLoading,
		table:     t,
		updatedW:  formatter.MaxWidth(),
		titled:    true,
	}
	m.SetSize(width, height)
	return m
}

// tableKeyMap maps the application bindings onto the table's navigation.
func tableKeyMap(k *keys.KeyMap) table.KeyMap {
	return table.KeyMap{
		LineUp:       k.Up,
		LineDown:     k.Down,
		PageUp:       k.PageUp,
		PageDown:     k.PageDown,
		HalfPageUp:   key.NewBinding(key.WithKeys("u", "ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("d", "ctrl+d")),
		GotoTop:      k.Top,
		GotoBottom:   k.Bottom,
	}
}

// columnsFor lays out the six columns for the given total width.
func columnsFor(width, updatedWidth int) []table.Column {
	fixed := widthID + widthStatus + widthPriority + updatedWidth
	flex := width - fixed - cellPadding*len(render.Columns)

	assignee := min(widthAssignee, max(flex-minTitleWidth, minAssigneeWidth))
	title := max(flex-assignee, minTitleWidth)

	widths := []int{widthID, title, widthStatus, widthPriority, assignee, updatedWidth}
	cols := make([]table.Column, len(render.Columns))
	for i, name := range render.Columns {
		cols[i] = table.Column{Title: name, Width: widths[i]}
	}
	return cols
}

// widestUpdated returns the width of the longest UpdatedAt cell.
func widestUpdated(rows [][]string, floor int) int {
	w := floor
	for _, r := range rows {
		w = max(w, lipgloss.Width(r[len(r)-1]))
	}
	return w
}

// Init returns the single fetch command.
func (m Model) Init() tea.Cmd {
	return m.fetch()
}

// fetch returns a command that reads the issue collection once.
func (m Model) fetch() tea.Cmd {
	ctx := m.ctx
	f := m.fetcher
	return func() tea.Msg {
		issues, err := f.FetchIssues(ctx)
		if err != nil {
			return IssuesFailedMsg{Err: err}
		}
		return IssuesLoadedMsg{Issues: issues}
	}
}

// Update handles messages for the issue list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case IssuesLoadedMsg:
		if m.state != StateLoading {
			return m, nil
		}
		m.state = StateLoaded
		m.issues = msg.Issues
		rows := render.Rows(m.issues, m.formatter)
		m.updatedW = widestUpdated(rows, m.formatter.MaxWidth())
		m.table.SetColumns(columnsFor(m.width, m.updatedW))
		m.table.SetRows(toTableRows(rows))
		m.table.GotoTop()
		return m, nil

	case IssuesFailedMsg:
		if m.state != StateLoading {
			return m, nil
		}
		m.state = StateFailed
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		if m.state != StateLoaded || len(m.issues) == 0 {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func toTableRows(rows [][]string) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row(r)
	}
	return out
}

// View renders the view for its current state.
func (m Model) View() string {
	switch m.state {
	case StateLoading:
		return render.LoadingText

	case StateFailed:
		style := theme.ErrorStyle
		if m.width > 0 {
			style = style.Width(m.width)
		}
		return style.Render(source.FailureMessage)
	}

	body := m.table.View()
	if len(m.issues) == 0 {
		body = theme.MessageStyle.Render(render.NoIssuesText)
	}
	if !m.titled {
		return body
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		theme.TitleStyle.Render(render.Title),
		body,
	)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetColumns(columnsFor(width, m.updatedW))
	m.table.SetHeight(max(height-m.chromeHeight(), 1))
}

// SetTitled controls whether the view renders its own title line. It is
// turned off when an outer frame already shows the title.
func (m *Model) SetTitled(titled bool) {
	m.titled = titled
	m.SetSize(m.width, m.height)
}

func (m Model) chromeHeight() int {
	if m.titled {
		return titleHeight
	}
	return 0
}

// State returns the current lifecycle state.
func (m Model) State() State {
	return m.state
}

// Issues returns the loaded snapshot, nil until the fetch succeeds.
func (m Model) Issues() []model.Issue {
	return m.issues
}

// Err returns the fetch error once the view has failed.
func (m Model) Err() error {
	return m.err
}

// Cursor returns the index of the highlighted row.
func (m Model) Cursor() int {
	return m.table.Cursor()
}
