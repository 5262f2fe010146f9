package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/issue-tracker/internal/keys"
	"github.com/nhle/issue-tracker/internal/render"
	"github.com/nhle/issue-tracker/internal/source"
	"github.com/nhle/issue-tracker/internal/ui"
	helpview "github.com/nhle/issue-tracker/internal/ui/help"
	"github.com/nhle/issue-tracker/internal/ui/issuelist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewHelp
)

// Options carries the optional collaborators of the root model.
type Options struct {
	// Formatter renders the UpdatedAt column. Zero value means local time
	// with the default layout.
	Formatter render.Formatter

	// Logger receives fetch outcomes. Nil discards.
	Logger *slog.Logger

	// Endpoint is only used for log fields.
	Endpoint string
}

// Model is the root Bubble Tea model. It owns the lifetime context of the
// fetch and routes between the issue list and the help overlay.
type Model struct {
	ctx          context.Context
	cancel       context.CancelFunc
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	issueList    issuelist.Model
	helpView     helpview.Model
	logger       *slog.Logger
	endpoint     string
	ready        bool
}

// New creates the root model. The fetch is bound to a child of ctx that
// is cancelled when the user quits or Close is called.
func New(ctx context.Context, f source.Fetcher, opts Options) Model {
	ctx, cancel := context.WithCancel(ctx)
	k := keys.DefaultKeyMap()

	formatter := render.NewFormatter(opts.Formatter.Location, opts.Formatter.Layout)

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return Model{
		ctx:         ctx,
		cancel:      cancel,
		currentView: ViewList,
		keys:        k,
		issueList:   issuelist.New(ctx, f, formatter, k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		logger:      logger,
		endpoint:    opts.Endpoint,
	}
}

// Init starts the single fetch.
func (m Model) Init() tea.Cmd {
	m.logger.Debug("view mounted, fetching issues", "endpoint", m.endpoint)
	return m.issueList.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.issueList.SetTitled(false)
		m.issueList.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		return m, nil

	case issuelist.IssuesLoadedMsg:
		m.logger.Info("issue list loaded", "endpoint", m.endpoint, "count", len(msg.Issues))
		var cmd tea.Cmd
		m.issueList, cmd = m.issueList.Update(msg)
		return m, cmd

	case issuelist.IssuesFailedMsg:
		m.logger.Warn("issue list failed", "endpoint", m.endpoint, "error", msg.Err)
		var cmd tea.Cmd
		m.issueList, cmd = m.issueList.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+c":
			return m.quit()

		case key.Matches(msg, m.keys.Quit):
			if m.currentView == ViewList {
				return m.quit()
			}

		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case key.Matches(msg, m.keys.Back):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
		}
	}

	return m.updateActiveView(msg)
}

// quit cancels any in-flight fetch and stops the program.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

// Close releases the fetch context. Safe to call more than once.
func (m Model) Close() {
	m.cancel()
}

// Context returns the lifetime context of the fetch.
func (m Model) Context() context.Context {
	return m.ctx
}

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState {
	return m.currentView
}

// IssueList returns the issue list view.
func (m Model) IssueList() issuelist.Model {
	return m.issueList
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.issueList, cmd = m.issueList.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return m.issueList.View()
	}

	header := m.layout.RenderHeader(render.Title, m.stateLabel())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHelp:
		return m.helpView.View()
	default:
		return m.issueList.View()
	}
}

// stateLabel returns a short string describing the fetch outcome.
func (m Model) stateLabel() string {
	switch m.issueList.State() {
	case issuelist.StateLoading:
		return "loading"
	case issuelist.StateFailed:
		return "unreachable"
	default:
		n := len(m.issueList.Issues())
		if n == 1 {
			return "1 issue"
		}
		return fmt.Sprintf("%d issues", n)
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.currentView == ViewHelp {
		return "? close help | esc back"
	}
	if m.issueList.State() == issuelist.StateLoaded && len(m.issueList.Issues()) > 0 {
		return "q quit | ? help | j/k scroll | g/G top/bottom"
	}
	return "q quit | ? help"
}
