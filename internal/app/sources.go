package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// mailboxRestoredMsg is sent once the cached snapshot has been applied.
type mailboxRestoredMsg struct{}

// mailboxLoadedMsg is sent when the initial fetch finishes.
type mailboxLoadedMsg struct {
	err error
}

// restoreMailbox seeds the list from the local cache so something is on
// screen before the server answers. It never overrides a finished load.
func (m Model) restoreMailbox() tea.Cmd {
	s := m.state
	logger := m.logger
	return func() tea.Msg {
		if err := s.Restore(context.Background()); err != nil {
			logger.Warn("restoring cached messages", "err", err)
		}
		return mailboxRestoredMsg{}
	}
}

// loadMailbox fetches the full message list from the server.
func (m Model) loadMailbox() tea.Cmd {
	s := m.state
	return func() tea.Msg {
		return mailboxLoadedMsg{err: s.Load(context.Background())}
	}
}
