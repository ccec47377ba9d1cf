package messagelist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/theme"
)

// maxBadges caps how many labels a row shows.
const maxBadges = 3

// MessageItem wraps a model.Message so it can be used in a bubbles/list.
type MessageItem struct {
	Message model.Message
}

// FilterValue matches on subject and labels.
func (i MessageItem) FilterValue() string {
	return i.Message.Subject + " " + strings.Join(i.Message.Labels, " ")
}

// Title returns the subject.
func (i MessageItem) Title() string { return i.Message.Subject }

// Description returns the labels, comma separated.
func (i MessageItem) Description() string { return strings.Join(i.Message.Labels, ", ") }

// ItemDelegate implements list.ItemDelegate for rendering message rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single row:
//
//	[x] ★ ● subject  dev personal
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	mi, ok := item.(MessageItem)
	if !ok {
		return
	}

	fmt.Fprint(w, RenderRow(mi.Message, index == m.Index()))
}

// RenderRow renders one message row.
func RenderRow(msg model.Message, focused bool) string {
	check := "[ ]"
	if msg.Selected {
		check = "[x]"
	}

	star := " "
	if msg.Starred {
		star = theme.StarStyle.Render("★")
	}

	unread := " "
	subject := msg.Subject
	if !msg.Read {
		unread = "●"
		subject = theme.UnreadStyle.Render(subject)
	} else {
		subject = theme.DimmedStyle.Render(subject)
	}

	line := fmt.Sprintf("%s %s %s %s%s", check, star, unread, subject, badges(msg.Labels))

	if focused {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

func badges(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	shown := labels
	more := ""
	if len(shown) > maxBadges {
		more = fmt.Sprintf(" +%d", len(shown)-maxBadges)
		shown = shown[:maxBadges]
	}

	var b strings.Builder
	b.WriteString(" ")
	for _, l := range shown {
		b.WriteString(theme.LabelBadgeStyle.Render(l))
	}
	b.WriteString(theme.DimmedStyle.Render(more))
	return b.String()
}
