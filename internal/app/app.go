package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inbox/internal/keys"
	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/state"
	"github.com/nhle/inbox/internal/store"
	appsync "github.com/nhle/inbox/internal/sync"
	"github.com/nhle/inbox/internal/theme"
	"github.com/nhle/inbox/internal/ui"
	activityview "github.com/nhle/inbox/internal/ui/activity"
	"github.com/nhle/inbox/internal/ui/command"
	"github.com/nhle/inbox/internal/ui/compose"
	"github.com/nhle/inbox/internal/ui/detail"
	helpview "github.com/nhle/inbox/internal/ui/help"
	"github.com/nhle/inbox/internal/ui/labelprompt"
	"github.com/nhle/inbox/internal/ui/messagelist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewHelp
	ViewCommand
	ViewCompose
	ViewLabel
	ViewActivity
)

// ActivityLog is the read side of the action log.
type ActivityLog interface {
	GetActivities(ctx context.Context, filter store.ActivityFilter) ([]model.Activity, error)
	GetUnseenFailures(ctx context.Context) ([]model.Activity, error)
	MarkActivitiesSeen(ctx context.Context) error
}

// Deps are the collaborators of the root model.
type Deps struct {
	State    *state.Store
	Activity ActivityLog
	Poller   *appsync.Poller
	Logger   *slog.Logger

	// Now stamps exports. Defaults to time.Now.
	Now func() time.Time
}

// activityLimit bounds the entries shown in the activity view.
const activityLimit = 200

// Model is the root Bubble Tea model that manages view routing,
// layout, and dispatching actions to the state store.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	state    *state.Store
	activity ActivityLog
	poller   *appsync.Poller
	logger   *slog.Logger
	now      func() time.Time

	messageList  messagelist.Model
	detail       detail.Model
	helpView     helpview.Model
	commandView  command.Model
	composeView  compose.Model
	labelPrompt  labelprompt.Model
	activityView activityview.Model
	spinner      spinner.Model

	ready            bool
	pending          int
	failureCount     int
	errText          string
	flash            string
	authErrorMessage string
}

// New creates the root application model.
func New(deps Deps) Model {
	k := keys.DefaultKeyMap()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	return Model{
		currentView:  ViewList,
		keys:         k,
		state:        deps.State,
		activity:     deps.Activity,
		poller:       deps.Poller,
		logger:       logger,
		now:          now,
		messageList:  messagelist.New(k, 80, 22),
		detail:       detail.New(k, 80, 22),
		helpView:     helpview.New(k, 80, 22),
		commandView:  command.New(80, 22),
		composeView:  compose.New(80, 22),
		labelPrompt:  labelprompt.New(80),
		activityView: activityview.New(k, 80, 22),
		spinner:      sp,
		pending:      1,
	}
}

// Init restores the cached mailbox and starts the initial load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.restoreMailbox(),
		m.loadMailbox(),
		m.fetchFailureCount(),
		m.spinner.Tick,
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.messageList.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		m.composeView.SetSize(contentWidth, contentHeight)
		m.labelPrompt.SetSize(contentWidth)
		m.activityView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case spinner.TickMsg:
		if m.pending == 0 && !m.syncing() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case mailboxRestoredMsg:
		return m, m.syncList()

	case mailboxLoadedMsg:
		m.pending--
		if msg.err != nil {
			m.setError("load", msg.err)
		}
		return m, tea.Batch(m.syncList(), m.startPoller())

	case appsync.RefreshResultMsg:
		switch {
		case msg.AuthError != nil:
			m.authErrorMessage = msg.AuthError.Message
		case msg.Error != nil:
			m.setError("refresh", msg.Error)
		default:
			m.authErrorMessage = ""
		}
		return m, tea.Batch(
			m.syncList(),
			m.poller.WaitForNextResult(),
			m.fetchFailureCount(),
		)

	case actionDoneMsg:
		m.pending--
		if msg.err != nil {
			m.setError(msg.label, msg.err)
		} else {
			m.errText = ""
			m.flash = msg.flash
		}
		return m, tea.Batch(m.syncList(), m.fetchFailureCount())

	case sentMsg:
		m.pending--
		if msg.err != nil {
			m.setError("send", msg.err)
			return m, m.composeView.Resume(describe(msg.err))
		}
		m.errText = ""
		m.flash = "sent: " + msg.message.Subject
		m.currentView = ViewList
		return m, tea.Batch(m.syncList(), m.fetchFailureCount())

	case exportDoneMsg:
		m.pending--
		if msg.err != nil {
			m.setError("export", msg.err)
			return m, nil
		}
		m.flash = fmt.Sprintf("exported %d messages to %s", msg.count, msg.path)
		return m, nil

	case failureCountMsg:
		m.failureCount = msg.count
		return m, nil

	case activitiesLoadedMsg:
		if msg.err != nil {
			m.setError("activity", msg.err)
			return m, nil
		}
		m.activityView.SetActivities(msg.entries)
		m.failureCount = 0
		return m, nil

	case messagelist.OpenMessageMsg:
		message, ok := m.state.Message(msg.MessageID)
		if !ok {
			return m, nil
		}
		m.detail.SetMessage(message)
		m.previousView = m.currentView
		m.currentView = ViewDetail
		return m, nil

	case detail.BackMsg:
		m.detail.Clear()
		m.currentView = ViewList
		return m, nil

	case detail.ActionMsg:
		if msg.Action == detail.ActionStar {
			return m, m.toggleStar(msg.MessageID)
		}
		return m, nil

	case compose.DraftSubmittedMsg:
		return m, m.send(msg.Draft)

	case compose.CancelMsg:
		m.state.SetComposing(false)
		m.currentView = ViewList
		return m, nil

	case labelprompt.SubmittedMsg:
		m.currentView = ViewList
		if msg.Remove {
			return m, m.removeLabel(msg.Label)
		}
		return m, m.addLabel(msg.Label)

	case labelprompt.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case activityview.BackMsg:
		m.currentView = ViewList
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(command.Command(msg))

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.messageList, cmd = m.messageList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewCompose:
		m.composeView, cmd = m.composeView.Update(msg)
	case ViewLabel:
		m.labelPrompt, cmd = m.labelPrompt.Update(msg)
	case ViewActivity:
		m.activityView, cmd = m.activityView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Inbox", m.headerSegments()...)
	content := m.renderContent()

	var statusBar string
	switch {
	case m.authErrorMessage != "":
		statusBar = m.layout.RenderErrorBar(m.authErrorMessage)
	case m.errText != "":
		statusBar = m.layout.RenderErrorBar(m.errText)
	default:
		statusBar = m.layout.RenderStatusBar(m.keyHints())
	}

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.messageList.View()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewCompose:
		return m.composeView.View()
	case ViewLabel:
		return m.messageList.View() + "\n" + m.labelPrompt.View()
	case ViewActivity:
		return m.activityView.View()
	default:
		return ""
	}
}

// headerSegments lists the right-hand header entries.
func (m Model) headerSegments() []string {
	snap := m.state.Snapshot()

	segments := []string{fmt.Sprintf("%d unread", state.UnreadCount(snap.Messages))}
	if n := len(state.SelectedIDs(snap.Messages)); n > 0 {
		segments = append(segments, fmt.Sprintf("%d selected", n))
	}
	if m.failureCount > 0 {
		segments = append(segments, theme.ErrorStyle.Render(fmt.Sprintf("⚠ %d failed", m.failureCount)))
	}
	segments = append(segments, m.syncStatus())
	return segments
}

// syncStatus returns a short string describing the refresh state.
func (m Model) syncStatus() string {
	if m.pending > 0 || m.syncing() {
		return m.spinner.View() + " syncing"
	}
	if m.poller == nil {
		return ""
	}
	st := m.poller.Status()
	if st.State == appsync.SyncIdle && !st.LastSync.IsZero() {
		return "synced " + st.LastSync.Format("15:04")
	}
	return st.State.String()
}

func (m Model) syncing() bool {
	return m.poller != nil && m.poller.Status().State == appsync.SyncRunning
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close command | tab complete | enter execute"
	case ViewDetail:
		return "esc back | s star | j/k scroll"
	case ViewCompose:
		return "enter next/send | esc discard"
	case ViewLabel:
		return "tab complete | enter apply | esc cancel"
	case ViewActivity:
		return "esc back | j/k scroll"
	default:
		if m.flash != "" {
			return m.flash
		}
		return "space select | s star | R/U read | d delete | l label | c compose | : command | ? help"
	}
}

// setError shows a failed action in the status bar.
func (m *Model) setError(label string, err error) {
	m.flash = ""
	m.errText = fmt.Sprintf("%s failed: %s", label, describe(err))
	m.logger.Warn("action failed", "action", label, "err", err)
}

// syncList pushes the store's messages into the list and the open
// message view.
func (m *Model) syncList() tea.Cmd {
	snap := m.state.Snapshot()
	cmd := m.messageList.SetMessages(snap.Messages)

	if id, ok := m.detail.MessageID(); ok {
		if message, found := m.state.Message(id); found {
			m.detail.Refresh(message)
		} else if m.currentView == ViewDetail {
			m.detail.Clear()
			m.currentView = ViewList
		}
	}
	return cmd
}

func (m *Model) startPoller() tea.Cmd {
	if m.poller == nil {
		return nil
	}
	return m.poller.Start()
}
