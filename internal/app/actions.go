package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inbox/internal/export"
	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/source"
	"github.com/nhle/inbox/internal/state"
	"github.com/nhle/inbox/internal/store"
	"github.com/nhle/inbox/internal/ui/command"
)

// actionDoneMsg is sent when a state store operation finishes.
type actionDoneMsg struct {
	label string
	flash string
	err   error
}

// sentMsg is sent when a compose request finishes.
type sentMsg struct {
	message model.Message
	err     error
}

// exportDoneMsg is sent when an mbox export finishes.
type exportDoneMsg struct {
	path  string
	count int
	err   error
}

// failureCountMsg carries the number of unacknowledged failed actions.
type failureCountMsg struct {
	count int
}

// activitiesLoadedMsg carries the activity log for the activity view.
type activitiesLoadedMsg struct {
	entries []model.Activity
	err     error
}

// describe turns an action error into status bar text.
func describe(err error) string {
	switch {
	case errors.Is(err, state.ErrNoSelection):
		return "no messages selected"
	case errors.Is(err, state.ErrEmptyLabel):
		return "label must not be empty"
	case errors.Is(err, state.ErrMessageNotFound):
		return "message no longer exists"
	}
	return source.Describe(err)
}

// begin counts a request in flight and wraps cmd so the spinner starts
// with the first one.
func (m *Model) begin(cmd tea.Cmd) tea.Cmd {
	m.pending++
	if m.pending == 1 {
		return tea.Batch(cmd, m.spinner.Tick)
	}
	return cmd
}

// run executes fn off the UI goroutine and reports with actionDoneMsg.
func (m *Model) run(label, flash string, fn func(ctx context.Context) error) tea.Cmd {
	return m.begin(func() tea.Msg {
		return actionDoneMsg{label: label, flash: flash, err: fn(context.Background())}
	})
}

func (m *Model) toggleStar(id int) tea.Cmd {
	s := m.state
	return m.run("star", "", func(ctx context.Context) error {
		return s.ToggleStar(ctx, id)
	})
}

func (m *Model) markRead(read bool) tea.Cmd {
	label, flash := "mark read", "marked read"
	if !read {
		label, flash = "mark unread", "marked unread"
	}
	s := m.state
	return m.run(label, flash, func(ctx context.Context) error {
		return s.MarkRead(ctx, read)
	})
}

func (m *Model) deleteSelected() tea.Cmd {
	s := m.state
	return m.run("delete", "deleted", func(ctx context.Context) error {
		return s.DeleteSelected(ctx)
	})
}

func (m *Model) addLabel(label string) tea.Cmd {
	s := m.state
	return m.run("add label", "labelled "+label, func(ctx context.Context) error {
		return s.AddLabel(ctx, label)
	})
}

func (m *Model) removeLabel(label string) tea.Cmd {
	s := m.state
	return m.run("remove label", "removed label "+label, func(ctx context.Context) error {
		return s.RemoveLabel(ctx, label)
	})
}

func (m *Model) send(draft model.Draft) tea.Cmd {
	s := m.state
	m.flash = "sending..."
	return m.begin(func() tea.Msg {
		created, err := s.Send(context.Background(), draft)
		return sentMsg{message: created, err: err}
	})
}

// openLabelPrompt shows the label prompt, or an error when nothing is
// selected.
func (m *Model) openLabelPrompt(remove bool) tea.Cmd {
	snap := m.state.Snapshot()
	count := len(state.SelectedIDs(snap.Messages))
	if count == 0 {
		label := "add label"
		if remove {
			label = "remove label"
		}
		m.setError(label, state.ErrNoSelection)
		return nil
	}
	m.previousView = m.currentView
	m.currentView = ViewLabel
	return m.labelPrompt.Open(remove, count, snap.Messages)
}

func (m *Model) openCompose() tea.Cmd {
	m.state.SetComposing(true)
	m.previousView = ViewList
	m.currentView = ViewCompose
	return m.composeView.Start()
}

func (m *Model) triggerRefresh() {
	if m.poller == nil {
		return
	}
	m.flash = "refreshing..."
	m.poller.Trigger()
}

func (m *Model) stopPoller() {
	if m.poller != nil {
		m.poller.Stop()
	}
}

func (m *Model) exportMailbox(path string) tea.Cmd {
	path = model.ExpandHome(path)
	messages := exportSet(m.state.Snapshot().Messages)
	date := m.now()
	return m.begin(func() tea.Msg {
		err := export.WriteFile(path, messages, date)
		return exportDoneMsg{path: path, count: len(messages), err: err}
	})
}

// exportSet returns the selected messages, or all of them when nothing
// is selected.
func exportSet(messages []model.Message) []model.Message {
	var selected []model.Message
	for _, msg := range messages {
		if msg.Selected {
			selected = append(selected, msg)
		}
	}
	if len(selected) == 0 {
		return messages
	}
	return selected
}

func (m *Model) openActivity() tea.Cmd {
	m.previousView = ViewList
	m.currentView = ViewActivity
	log := m.activity
	if log == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		entries, err := log.GetActivities(ctx, store.ActivityFilter{Limit: activityLimit})
		if err != nil {
			return activitiesLoadedMsg{err: err}
		}
		if err := log.MarkActivitiesSeen(ctx); err != nil {
			return activitiesLoadedMsg{err: fmt.Errorf("acknowledging activity: %w", err)}
		}
		return activitiesLoadedMsg{entries: entries}
	}
}

// fetchFailureCount returns a tea.Cmd that counts unacknowledged failures.
func (m Model) fetchFailureCount() tea.Cmd {
	log := m.activity
	if log == nil {
		return nil
	}
	return func() tea.Msg {
		failures, err := log.GetUnseenFailures(context.Background())
		if err != nil {
			return failureCountMsg{count: 0}
		}
		return failureCountMsg{count: len(failures)}
	}
}

// executeCommand handles a parsed command from the palette.
func (m *Model) executeCommand(cmd command.Command) tea.Cmd {
	switch cmd.Name {
	case command.Refresh:
		m.triggerRefresh()
		return nil
	case command.SelectAll:
		m.state.ToggleSelectAll()
		return m.syncList()
	case command.Read:
		return m.markRead(true)
	case command.Unread:
		return m.markRead(false)
	case command.Delete:
		return m.deleteSelected()
	case command.Label:
		return m.addLabel(cmd.Arg)
	case command.Unlabel:
		return m.removeLabel(cmd.Arg)
	case command.Compose:
		return m.openCompose()
	case command.Export:
		return m.exportMailbox(cmd.Arg)
	case command.Activity:
		return m.openActivity()
	case command.Quit:
		m.stopPoller()
		return tea.Quit
	default:
		return nil
	}
}
