package messagelist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inbox/internal/keys"
	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/theme"
)

// OpenMessageMsg is sent when the user opens the focused message.
type OpenMessageMsg struct {
	MessageID int
}

// Model is the mailbox list view.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	loaded bool
	width  int
	height int
}

// New creates a new message list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height)
	l.Title = "Inbox"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("message", "messages")
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetMessages replaces the rows, keeping the cursor on the same message
// when it still exists.
func (m *Model) SetMessages(messages []model.Message) tea.Cmd {
	focused, hadFocus := m.Focused()

	items := make([]list.Item, len(messages))
	cursor := -1
	for i, msg := range messages {
		items[i] = MessageItem{Message: msg}
		if hadFocus && msg.ID == focused.ID {
			cursor = i
		}
	}
	cmd := m.list.SetItems(items)
	m.loaded = true

	switch {
	case cursor >= 0:
		m.list.Select(cursor)
	case m.list.Index() >= len(items) && len(items) > 0:
		m.list.Select(len(items) - 1)
	}
	return cmd
}

// Focused returns the message under the cursor.
func (m Model) Focused() (model.Message, bool) {
	item, ok := m.list.SelectedItem().(MessageItem)
	if !ok {
		return model.Message{}, false
	}
	return item.Message, true
}

// Filtering reports whether the list is capturing keys for its filter.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Update handles navigation, filtering and opening a message. Action
// keys are handled by the caller.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && !m.Filtering() && key.Matches(km, m.keys.Open) {
		focused, ok := m.Focused()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return OpenMessageMsg{MessageID: focused.ID}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list or an empty-state hint.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if !m.loaded {
		return style.Render("Loading messages...")
	}
	return style.Render("No messages.\n\nPress c to compose or r to refresh.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
