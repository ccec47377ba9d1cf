package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	gosync "sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/source"
	"github.com/nhle/inbox/internal/state"
	"github.com/nhle/inbox/internal/testutil"
	"github.com/nhle/inbox/internal/ui/command"
	"github.com/nhle/inbox/internal/ui/compose"
	"github.com/nhle/inbox/internal/ui/labelprompt"
)

type fakeSource struct {
	mu       gosync.Mutex
	messages []model.Message
	patches  []model.PatchRequest
	patchErr error
}

func (f *fakeSource) FetchAll(ctx context.Context) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Message, len(f.messages))
	for i, m := range f.messages {
		out[i] = m.Clone()
	}
	return out, nil
}

func (f *fakeSource) Patch(ctx context.Context, req model.PatchRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, req)
	return f.patchErr
}

func (f *fakeSource) Create(ctx context.Context, draft model.Draft) (model.Message, error) {
	return model.Message{ID: 99, Subject: draft.Subject, Body: draft.Body, Labels: []string{}}, nil
}

type harness struct {
	t     *testing.T
	m     Model
	src   *fakeSource
	store *state.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	src := &fakeSource{messages: testutil.SampleMessages()}
	log := testutil.NewTestStore(t)
	st := state.New(src, state.WithRecorder(log), state.WithLogger(logger))

	h := &harness{
		t:     t,
		src:   src,
		store: st,
		m: New(Deps{
			State:    st,
			Activity: log,
			Logger:   logger,
			Now:      func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) },
		}),
	}
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	h.send(h.m.loadMailbox()())
	return h
}

// send feeds msg to the model and returns the resulting command.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) key(s string) tea.Cmd {
	h.t.Helper()
	switch s {
	case "enter":
		return h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return h.send(tea.KeyMsg{Type: tea.KeyEsc})
	case " ":
		return h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	case "down":
		return h.send(tea.KeyMsg{Type: tea.KeyDown})
	}
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) typeText(s string) {
	h.t.Helper()
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// finish runs cmd and feeds back every result of the given types.
func (h *harness) finish(cmd tea.Cmd) {
	h.t.Helper()
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case actionDoneMsg, sentMsg, exportDoneMsg, failureCountMsg, activitiesLoadedMsg,
			labelprompt.SubmittedMsg, compose.DraftSubmittedMsg, command.CommandMsg:
			h.finish(h.send(msg))
		}
	}
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestLoadRendersMailbox(t *testing.T) {
	h := newHarness(t)

	view := h.m.View()
	for _, want := range []string{"Inbox", "2 unread", "[ ]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if h.m.pending != 0 {
		t.Errorf("pending = %d after load", h.m.pending)
	}
}

func TestStarFocusedMessage(t *testing.T) {
	h := newHarness(t)

	h.key("down")
	h.finish(h.key("s"))

	if len(h.src.patches) != 1 {
		t.Fatalf("patches = %+v", h.src.patches)
	}
	want := model.StarRequest(2, false)
	if !reflect.DeepEqual(h.src.patches[0], want) {
		t.Errorf("patch = %+v, want %+v", h.src.patches[0], want)
	}
	if msg, _ := h.store.Message(2); !msg.Starred {
		t.Error("message 2 should be starred")
	}
}

func TestSelectAndDelete(t *testing.T) {
	h := newHarness(t)

	h.key(" ")
	if ids := h.store.SelectedIDs(); !reflect.DeepEqual(ids, []int{1}) {
		t.Fatalf("selected = %v", ids)
	}
	if !strings.Contains(h.m.View(), "1 selected") {
		t.Error("header should show the selection count")
	}

	h.finish(h.key("d"))
	snap := h.store.Snapshot()
	if len(snap.Messages) != 2 || snap.Messages[0].ID != 2 {
		t.Errorf("messages after delete = %+v", snap.Messages)
	}
}

func TestDeleteWithoutSelectionShowsError(t *testing.T) {
	h := newHarness(t)

	h.finish(h.key("d"))
	if len(h.src.patches) != 0 {
		t.Errorf("no request expected, got %+v", h.src.patches)
	}
	if !strings.Contains(h.m.View(), "delete failed: no messages selected") {
		t.Errorf("status bar missing error:\n%s", h.m.View())
	}

	h.key("esc")
	if h.m.errText != "" {
		t.Error("esc should clear the error")
	}
}

func TestFailedActionIsReported(t *testing.T) {
	h := newHarness(t)
	h.src.patchErr = &source.ServerError{Method: "PATCH", Path: "/api/messages", StatusCode: 500}

	h.key("A")
	h.finish(h.key("R"))

	if !strings.Contains(h.m.View(), "mark read failed: server error 500") {
		t.Errorf("status bar missing error:\n%s", h.m.View())
	}
	if h.m.failureCount != 1 {
		t.Errorf("failureCount = %d, want 1", h.m.failureCount)
	}
	for _, msg := range h.store.Snapshot().Messages {
		if msg.ID != 3 && msg.Read {
			t.Errorf("message %d changed despite the failure", msg.ID)
		}
	}
}

func TestLabelPrompt(t *testing.T) {
	h := newHarness(t)

	h.key(" ")
	h.key("l")
	if h.m.currentView != ViewLabel {
		t.Fatalf("view = %v, want label prompt", h.m.currentView)
	}
	h.typeText("work")
	h.finish(h.key("enter"))

	if h.m.currentView != ViewList {
		t.Errorf("view = %v, want list", h.m.currentView)
	}
	msg, _ := h.store.Message(1)
	if want := []string{"dev", "personal", "work"}; !reflect.DeepEqual(msg.Labels, want) {
		t.Errorf("labels = %v, want %v", msg.Labels, want)
	}
}

func TestComposeAndSend(t *testing.T) {
	h := newHarness(t)

	h.key("c")
	if h.m.currentView != ViewCompose || !h.store.Snapshot().Composing {
		t.Fatalf("compose not opened: view=%v", h.m.currentView)
	}

	h.finish(h.send(compose.DraftSubmittedMsg{Draft: model.Draft{Subject: "hi", Body: "there"}}))

	snap := h.store.Snapshot()
	if snap.Composing {
		t.Error("compose flag should be cleared after send")
	}
	if last := snap.Messages[len(snap.Messages)-1]; last.ID != 99 || last.Subject != "hi" {
		t.Errorf("last message = %+v", last)
	}
	if h.m.currentView != ViewList {
		t.Errorf("view = %v, want list", h.m.currentView)
	}
}

func TestComposeEscDiscards(t *testing.T) {
	h := newHarness(t)

	h.key("c")
	h.key("esc")
	if h.m.currentView != ViewList || h.store.Snapshot().Composing {
		t.Errorf("compose should be closed: view=%v", h.m.currentView)
	}
}

func TestPaletteExport(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "inbox.mbox")

	h.finish(h.send(command.CommandMsg{Name: command.Export, Arg: path}))

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("export file: %v", err)
	}
	if !strings.Contains(h.m.flash, "exported 3 messages") {
		t.Errorf("flash = %q", h.m.flash)
	}
}

func TestPaletteActivity(t *testing.T) {
	h := newHarness(t)
	h.key("down")
	h.finish(h.key("s"))

	h.finish(h.send(command.CommandMsg{Name: command.Activity}))
	if h.m.currentView != ViewActivity {
		t.Fatalf("view = %v, want activity", h.m.currentView)
	}
	if !strings.Contains(h.m.View(), "star") {
		t.Errorf("activity view missing entry:\n%s", h.m.View())
	}
}

func TestOpenMessage(t *testing.T) {
	h := newHarness(t)

	for _, msg := range collect(h.key("enter")) {
		h.send(msg)
	}
	if h.m.currentView != ViewDetail {
		t.Fatalf("view = %v, want detail", h.m.currentView)
	}
	if !strings.Contains(h.m.View(), "Hey, it's me.") {
		t.Errorf("detail view missing body:\n%s", h.m.View())
	}

	for _, msg := range collect(h.key("esc")) {
		h.send(msg)
	}
	if h.m.currentView != ViewList {
		t.Errorf("view = %v, want list", h.m.currentView)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{state.ErrNoSelection, "no messages selected"},
		{state.ErrEmptyLabel, "label must not be empty"},
		{state.ErrMessageNotFound, "message no longer exists"},
		{&source.NetworkError{Err: io.EOF}, "server unreachable"},
	}
	for _, tt := range tests {
		if got := describe(tt.err); got != tt.want {
			t.Errorf("describe(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestPaletteExportExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	h := newHarness(t)

	h.finish(h.send(command.CommandMsg{Name: command.Export, Arg: "~/inbox.mbox"}))

	if _, err := os.Stat(filepath.Join(home, "inbox.mbox")); err != nil {
		t.Fatalf("export file: %v", err)
	}
}

func TestPaletteExportSelected(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "picked.mbox")

	h.key(" ")
	h.finish(h.send(command.CommandMsg{Name: command.Export, Arg: path}))

	if !strings.Contains(h.m.flash, "exported 1 messages") {
		t.Errorf("flash = %q", h.m.flash)
	}
}
