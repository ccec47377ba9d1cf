package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inbox/internal/keys"
	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// ActionStar is the only action available on an open message.
const ActionStar = "star"

// ActionMsg asks the parent to run an action on the open message.
type ActionMsg struct {
	Action    string
	MessageID int
}

// Model is the message view.
type Model struct {
	message  *model.Message
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Star):
			return m, m.action(ActionStar)
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) action(name string) tea.Cmd {
	if m.message == nil {
		return nil
	}
	id := m.message.ID
	return func() tea.Msg {
		return ActionMsg{Action: name, MessageID: id}
	}
}

// View renders the detail view.
func (m Model) View() string {
	if m.message == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No message selected")
	}

	return m.viewport.View()
}

// renderContent builds the message text for the viewport.
func (m Model) renderContent() string {
	if m.message == nil {
		return ""
	}

	msg := m.message
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(msg.Subject))

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	state := "unread"
	if msg.Read {
		state = "read"
	}
	if msg.Starred {
		state += " · " + theme.StarStyle.Render("★ starred")
	}
	sections = append(sections, metaStyle.Render(fmt.Sprintf("#%d · ", msg.ID))+state)

	if len(msg.Labels) > 0 {
		var badges []string
		for _, l := range msg.Labels {
			badges = append(badges, theme.LabelBadgeStyle.Render(l))
		}
		sections = append(sections, strings.Join(badges, ""))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 0)))
	sections = append(sections, "", separator, "")

	body := msg.Body
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No body")
	}
	sections = append(sections, body)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetMessage shows msg from the top.
func (m *Model) SetMessage(msg model.Message) {
	m.message = &msg
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Refresh re-renders msg in place, keeping the scroll position.
func (m *Model) Refresh(msg model.Message) {
	m.message = &msg
	m.viewport.SetContent(m.renderContent())
}

// Clear drops the open message.
func (m *Model) Clear() {
	m.message = nil
	m.viewport.SetContent("")
}

// MessageID returns the id of the open message.
func (m Model) MessageID() (int, bool) {
	if m.message == nil {
		return 0, false
	}
	return m.message.ID, true
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.message != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
