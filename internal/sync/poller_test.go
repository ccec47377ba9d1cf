package sync

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	"github.com/nhle/inbox/internal/source"
)

type fakeRefresher struct {
	mu    gosync.Mutex
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeRefresher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func waitResult(t *testing.T, p *Poller) RefreshResultMsg {
	t.Helper()
	select {
	case msg := <-p.resultCh:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for refresh result")
		return RefreshResultMsg{}
	}
}

func TestPollerTrigger(t *testing.T) {
	r := &fakeRefresher{}
	p := New(r, 0, nil)
	p.Start()
	t.Cleanup(p.Stop)

	p.Trigger()
	msg := waitResult(t, p)
	if msg.Error != nil {
		t.Fatalf("unexpected error: %v", msg.Error)
	}
	if r.Calls() != 1 {
		t.Errorf("calls = %d, want 1", r.Calls())
	}
	st := p.Status()
	if st.State != SyncIdle || st.LastSync.IsZero() {
		t.Errorf("status = %+v", st)
	}
}

func TestPollerInterval(t *testing.T) {
	r := &fakeRefresher{}
	p := New(r, 10*time.Millisecond, nil)
	p.Start()
	t.Cleanup(p.Stop)

	waitResult(t, p)
	waitResult(t, p)
	if r.Calls() < 2 {
		t.Errorf("calls = %d, want at least 2", r.Calls())
	}
}

func TestPollerError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantAuth bool
	}{
		{name: "network", err: &source.NetworkError{Method: "GET", Path: "/api/messages", Err: errors.New("refused")}},
		{name: "auth", err: &source.AuthError{Message: "not authorized"}, wantAuth: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRefresher{err: tt.err}
			p := New(r, 0, nil)
			p.Start()
			t.Cleanup(p.Stop)

			p.Trigger()
			msg := waitResult(t, p)
			if !errors.Is(msg.Error, tt.err) {
				t.Fatalf("error = %v, want %v", msg.Error, tt.err)
			}
			if (msg.AuthError != nil) != tt.wantAuth {
				t.Errorf("auth error = %+v, want present=%v", msg.AuthError, tt.wantAuth)
			}
			if st := p.Status(); st.State != SyncError {
				t.Errorf("state = %v, want %v", st.State, SyncError)
			}
		})
	}
}

func TestSyncStateString(t *testing.T) {
	if SyncRunning.String() != "syncing" || SyncError.String() != "sync failed" || SyncIdle.String() != "idle" {
		t.Error("unexpected state labels")
	}
}
