package activity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inbox/internal/keys"
	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/theme"
)

// BackMsg signals the parent to close the activity log.
type BackMsg struct{}

// Model lists recent actions and their outcome.
type Model struct {
	entries  []model.Activity
	viewport viewport.Model
	keys     *keys.KeyMap
	now      func() time.Time
	width    int
	height   int
}

// New creates the activity view.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		viewport: viewport.New(width, height-2),
		keys:     k,
		now:      time.Now,
		width:    width,
		height:   height,
	}
}

// SetActivities replaces the entries, newest first.
func (m *Model) SetActivities(entries []model.Activity) {
	m.entries = entries
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Update handles scrolling and closing.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, m.keys.Back) {
		return m, func() tea.Msg { return BackMsg{} }
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the log.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render("Activity")
	if len(m.entries) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, theme.HelpStyle.Render("Nothing yet."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View())
}

func (m Model) renderContent() string {
	lines := make([]string, 0, len(m.entries))
	for _, a := range m.entries {
		lines = append(lines, FormatEntry(a, m.now()))
	}
	return strings.Join(lines, "\n")
}

// FormatEntry renders one log line.
func FormatEntry(a model.Activity, now time.Time) string {
	mark := lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("✓")
	if a.Failed() {
		mark = theme.ErrorStyle.Render("✗")
	}

	parts := []string{
		theme.DimmedStyle.Render(fmt.Sprintf("%-8s", relativeTime(a.CreatedAt, now))),
		mark,
		string(a.Command),
	}
	if ids := formatIDs(a.MessageIDs); ids != "" {
		parts = append(parts, ids)
	}
	if a.Detail != "" {
		parts = append(parts, theme.DimmedStyle.Render(a.Detail))
	}
	if a.Failed() && a.Error != "" {
		parts = append(parts, theme.ErrorStyle.Render(a.Error))
	}
	return strings.Join(parts, " ")
}

func formatIDs(ids []int) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = "#" + strconv.Itoa(id)
	}
	return strings.Join(out, ",")
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%dw ago", int(d.Hours()/24/7))
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}
