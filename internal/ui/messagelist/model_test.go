package messagelist

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inbox/internal/keys"
	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/testutil"
)

func TestRenderRow(t *testing.T) {
	msgs := testutil.SampleMessages()
	msgs[0].Selected = true

	row := RenderRow(msgs[0], false)
	for _, want := range []string{"[x]", "★", "●", "dev", "personal"} {
		if !strings.Contains(row, want) {
			t.Errorf("row %q missing %q", row, want)
		}
	}

	row = RenderRow(msgs[2], false)
	if strings.Contains(row, "●") || strings.Contains(row, "★") || !strings.Contains(row, "[ ]") {
		t.Errorf("read, unstarred, unselected row rendered as %q", row)
	}
}

func TestBadgesOverflow(t *testing.T) {
	got := badges([]string{"a", "b", "c", "d", "e"})
	if !strings.Contains(got, "+2") {
		t.Errorf("badges = %q, want overflow marker", got)
	}
	if badges(nil) != "" {
		t.Error("no labels should render nothing")
	}
}

func TestSetMessagesKeepsCursor(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 20)
	m.SetMessages(testutil.SampleMessages())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if f, _ := m.Focused(); f.ID != 3 {
		t.Fatalf("focused = %d, want 3", f.ID)
	}

	// Message 1 disappears; the cursor follows message 3.
	m.SetMessages(testutil.SampleMessages()[1:])
	if f, _ := m.Focused(); f.ID != 3 {
		t.Errorf("focused after reload = %d, want 3", f.ID)
	}

	// Message 3 disappears; the cursor is clamped.
	m.SetMessages(testutil.SampleMessages()[:1])
	if f, ok := m.Focused(); !ok || f.ID != 1 {
		t.Errorf("focused after shrink = %+v, %v", f, ok)
	}
}

func TestEnterOpensFocusedMessage(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 20)
	m.SetMessages(testutil.SampleMessages())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(OpenMessageMsg)
	if !ok || msg.MessageID != 1 {
		t.Errorf("msg = %#v", cmd())
	}
}

func TestEmptyState(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 20)
	if !strings.Contains(m.View(), "Loading") {
		t.Errorf("view before load = %q", m.View())
	}
	m.SetMessages([]model.Message{})
	if !strings.Contains(m.View(), "No messages") {
		t.Errorf("view after empty load = %q", m.View())
	}
}
