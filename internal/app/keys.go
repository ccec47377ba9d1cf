package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// textEntry reports whether the active view consumes typed characters.
func (m Model) textEntry() bool {
	switch m.currentView {
	case ViewCommand, ViewCompose, ViewLabel:
		return true
	case ViewList:
		return m.messageList.Filtering()
	}
	return false
}

// handleGlobalKey processes keys that are not owned by the active view.
// The bool result reports whether the key was consumed.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		m.stopPoller()
		return m, tea.Quit, true
	}
	if m.textEntry() {
		if msg.String() == "esc" {
			switch m.currentView {
			case ViewCommand:
				m.currentView = m.previousView
				return m, nil, true
			case ViewCompose:
				m.state.SetComposing(false)
				m.currentView = ViewList
				return m, nil, true
			}
		}
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus(), true

	case key.Matches(msg, m.keys.Back) && m.currentView == ViewHelp:
		m.currentView = m.previousView
		return m, nil, true
	}

	if m.currentView != ViewList {
		return m, nil, false
	}
	return m.handleListKey(msg)
}

// handleListKey runs message actions from the list view.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopPoller()
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Back):
		m.errText = ""
		m.flash = ""
		return m, nil, true

	case key.Matches(msg, m.keys.Toggle):
		focused, ok := m.messageList.Focused()
		if !ok {
			return m, nil, true
		}
		if err := m.state.ToggleSelect(focused.ID); err != nil {
			m.setError("select", err)
		}
		return m, m.syncList(), true

	case key.Matches(msg, m.keys.SelectAll):
		m.state.ToggleSelectAll()
		return m, m.syncList(), true

	case key.Matches(msg, m.keys.Star):
		focused, ok := m.messageList.Focused()
		if !ok {
			return m, nil, true
		}
		return m, m.toggleStar(focused.ID), true

	case key.Matches(msg, m.keys.MarkRead):
		return m, m.markRead(true), true

	case key.Matches(msg, m.keys.MarkUnread):
		return m, m.markRead(false), true

	case key.Matches(msg, m.keys.Delete):
		return m, m.deleteSelected(), true

	case key.Matches(msg, m.keys.AddLabel):
		return m, m.openLabelPrompt(false), true

	case key.Matches(msg, m.keys.RemoveLabel):
		return m, m.openLabelPrompt(true), true

	case key.Matches(msg, m.keys.Compose):
		return m, m.openCompose(), true

	case key.Matches(msg, m.keys.Refresh):
		m.triggerRefresh()
		return m, nil, true
	}

	return m, nil, false
}
