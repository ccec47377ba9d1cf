package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Command
		wantErr bool
	}{
		{input: "refresh", want: Command{Name: Refresh}},
		{input: "  select   all ", want: Command{Name: SelectAll}},
		{input: "label work", want: Command{Name: Label, Arg: "work"}},
		{input: "unlabel  follow up", want: Command{Name: Unlabel, Arg: "follow up"}},
		{input: "export /tmp/inbox.mbox", want: Command{Name: Export, Arg: "/tmp/inbox.mbox"}},
		{input: "label", wantErr: true},
		{input: "read now", wantErr: true},
		{input: "archive", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEnterEmitsCommand(t *testing.T) {
	m := New(80, 20)
	for _, r := range "label work" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(CommandMsg)
	if !ok {
		t.Fatalf("msg = %T, want CommandMsg", cmd())
	}
	if msg.Name != Label || msg.Arg != "work" {
		t.Errorf("msg = %+v", msg)
	}
	if m.err != "" {
		t.Errorf("unexpected error %q", m.err)
	}
}

func TestEnterShowsParseError(t *testing.T) {
	m := New(80, 20)
	for _, r := range "archive" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("invalid command should not emit a message")
	}
	if m.err == "" {
		t.Error("expected an error message")
	}
}
