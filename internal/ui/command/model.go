package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inbox/internal/theme"
)

// Palette command names.
const (
	Refresh   = "refresh"
	SelectAll = "select all"
	Read      = "read"
	Unread    = "unread"
	Delete    = "delete"
	Label     = "label"
	Unlabel   = "unlabel"
	Compose   = "compose"
	Export    = "export"
	Activity  = "activity"
	Quit      = "quit"
)

// paletteEntry describes one palette command.
type paletteEntry struct {
	name   string
	argUse string
}

var commands = []paletteEntry{
	{name: Refresh},
	{name: SelectAll},
	{name: Read},
	{name: Unread},
	{name: Delete},
	{name: Label, argUse: "<name>"},
	{name: Unlabel, argUse: "<name>"},
	{name: Compose},
	{name: Export, argUse: "<path>"},
	{name: Activity},
	{name: Quit},
}

// Command is a parsed palette entry.
type Command struct {
	Name string
	Arg  string
}

// CommandMsg is emitted when the user executes a command.
type CommandMsg Command

// Parse resolves input to a known command. Commands taking an argument
// require one; others reject trailing text.
func Parse(input string) (Command, error) {
	input = strings.Join(strings.Fields(input), " ")
	if input == "" {
		return Command{}, fmt.Errorf("empty command")
	}

	for _, c := range commands {
		if c.argUse == "" {
			if input == c.name {
				return Command{Name: c.name}, nil
			}
			continue
		}
		if input == c.name {
			return Command{}, fmt.Errorf("usage: %s %s", c.name, c.argUse)
		}
		if arg, ok := strings.CutPrefix(input, c.name+" "); ok {
			return Command{Name: c.name, Arg: arg}, nil
		}
	}
	return Command{}, fmt.Errorf("unknown command %q", input)
}

// Usage lists every command with its argument placeholder.
func Usage() []string {
	out := make([]string, 0, len(commands))
	for _, c := range commands {
		if c.argUse != "" {
			out = append(out, c.name+" "+c.argUse)
		} else {
			out = append(out, c.name)
		}
	}
	return out
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	err    string
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	suggestions := make([]string, 0, len(commands))
	for _, c := range commands {
		suggestions = append(suggestions, c.name)
	}
	ti.SetSuggestions(suggestions)
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			raw := strings.TrimSpace(m.input.Value())
			if raw == "" {
				return m, nil
			}
			parsed, err := Parse(raw)
			if err != nil {
				m.err = err.Error()
				return m, nil
			}
			m.input.Reset()
			m.err = ""
			return m, func() tea.Msg {
				return CommandMsg(parsed)
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Command Palette")
	lines := []string{title, m.input.View()}
	if m.err != "" {
		lines = append(lines, theme.ErrorStyle.Render(m.err))
	}
	lines = append(lines, "", theme.HelpStyle.Render(strings.Join(Usage(), " · ")))

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input and clears old errors.
func (m *Model) Focus() tea.Cmd {
	m.err = ""
	m.input.Reset()
	return m.input.Focus()
}
