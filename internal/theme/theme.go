package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Names lists the themes accepted by Apply.
var Names = []string{"default", "mono"}

// HeaderStyle is used for the title bar.
var HeaderStyle lipgloss.Style

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle lipgloss.Style

// ErrorBarStyle replaces the status bar while a failed action is shown.
var ErrorBarStyle lipgloss.Style

// DetailPanelStyle wraps the message view.
var DetailPanelStyle lipgloss.Style

// ListItemStyle is the base style for rows in the message list.
var ListItemStyle lipgloss.Style

// SelectedItemStyle highlights the row under the cursor.
var SelectedItemStyle lipgloss.Style

// UnreadStyle renders subjects of unread messages.
var UnreadStyle lipgloss.Style

// DimmedStyle renders read subjects and secondary text.
var DimmedStyle lipgloss.Style

// StarStyle renders the star marker.
var StarStyle lipgloss.Style

// LabelBadgeStyle renders a single label.
var LabelBadgeStyle lipgloss.Style

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle lipgloss.Style

// BorderStyle provides a standard rounded border for panels.
var BorderStyle lipgloss.Style

// ErrorStyle renders inline validation and failure text.
var ErrorStyle lipgloss.Style

func init() {
	applyDefault()
}

// Apply switches the package styles to the named theme.
func Apply(name string) error {
	switch name {
	case "", "default":
		applyDefault()
	case "mono":
		applyMono()
	default:
		return fmt.Errorf("unknown theme %q (available: %v)", name, Names)
	}
	return nil
}

func applyDefault() {
	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorWhite).
		Background(ColorBlue).
		Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(ColorWhite).
		Background(ColorSubtle).
		Padding(0, 1)

	ErrorBarStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorWhite).
		Background(ColorRed).
		Padding(0, 1)

	DetailPanelStyle = lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	ListItemStyle = lipgloss.NewStyle().
		PaddingLeft(2)

	SelectedItemStyle = lipgloss.NewStyle().
		PaddingLeft(1).
		Bold(true).
		Foreground(ColorBlue).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(ColorBlue)

	UnreadStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite)
	DimmedStyle = lipgloss.NewStyle().Foreground(ColorGray)
	StarStyle = lipgloss.NewStyle().Foreground(ColorYellow)

	LabelBadgeStyle = lipgloss.NewStyle().
		Foreground(ColorMagenta).
		Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed)
}

// applyMono keeps layout but drops every color.
func applyMono() {
	HeaderStyle = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	StatusBarStyle = lipgloss.NewStyle().Reverse(true).Padding(0, 1)
	ErrorBarStyle = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	DetailPanelStyle = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.NormalBorder())
	ListItemStyle = lipgloss.NewStyle().PaddingLeft(2)
	SelectedItemStyle = lipgloss.NewStyle().
		PaddingLeft(1).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, false, true)
	UnreadStyle = lipgloss.NewStyle().Bold(true)
	DimmedStyle = lipgloss.NewStyle().Faint(true)
	StarStyle = lipgloss.NewStyle()
	LabelBadgeStyle = lipgloss.NewStyle().Underline(true).Padding(0, 1)
	HelpStyle = lipgloss.NewStyle().Italic(true)
	BorderStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder())
	ErrorStyle = lipgloss.NewStyle().Bold(true)
}
