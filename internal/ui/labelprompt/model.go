package labelprompt

import (
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/theme"
)

// SubmittedMsg carries the label typed by the user.
type SubmittedMsg struct {
	Label  string
	Remove bool
}

// CancelMsg is sent when the prompt is dismissed.
type CancelMsg struct{}

// Model is a one-line label prompt.
type Model struct {
	input  textinput.Model
	remove bool
	count  int
	width  int
}

// New creates a new label prompt.
func New(width int) Model {
	ti := textinput.New()
	ti.Prompt = "label: "
	ti.Placeholder = "name"
	ti.ShowSuggestions = true
	ti.Width = width - 6

	return Model{input: ti, width: width}
}

// Open focuses the prompt for count selected messages. Labels already
// used in messages are offered as completions.
func (m *Model) Open(remove bool, count int, messages []model.Message) tea.Cmd {
	m.remove = remove
	m.count = count
	m.input.Reset()
	m.input.SetSuggestions(KnownLabels(messages))
	return m.input.Focus()
}

// KnownLabels returns the distinct labels across messages, sorted.
func KnownLabels(messages []model.Message) []string {
	seen := make(map[string]bool)
	var out []string
	for _, msg := range messages {
		for _, l := range msg.Labels {
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Update handles messages for the prompt.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			m.input.Blur()
			return m, func() tea.Msg { return CancelMsg{} }
		case "enter":
			label := strings.TrimSpace(m.input.Value())
			if label == "" {
				return m, nil
			}
			remove := m.remove
			m.input.Blur()
			return m, func() tea.Msg { return SubmittedMsg{Label: label, Remove: remove} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the prompt panel.
func (m Model) View() string {
	verb := "Add label to"
	if m.remove {
		verb = "Remove label from"
	}
	noun := "messages"
	if m.count == 1 {
		noun = "message"
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render(verb + " " + strconv.Itoa(m.count) + " " + noun)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			m.input.View(),
			theme.HelpStyle.Render("tab complete · enter apply · esc cancel"),
		))
}

// SetSize updates the prompt width.
func (m *Model) SetSize(width int) {
	m.width = width
	m.input.Width = width - 6
}
