package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/99designs/keyring"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inbox/internal/credential"
	"github.com/nhle/inbox/internal/model"
)

func useMemoryRing(t *testing.T) keyring.Keyring {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	prev := credential.Opener
	credential.Opener = func() (credential.Ring, error) { return ring, nil }
	t.Cleanup(func() { credential.Opener = prev })
	t.Setenv(credential.TokenEnv, "")
	return ring
}

func baseConfig(t *testing.T) (model.AppConfig, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := model.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	return *cfg, path
}

func TestCandidateAppliesForm(t *testing.T) {
	cfg, path := baseConfig(t)
	m := New(cfg, path, nil, 80, 24)
	m.fields.baseURL = " http://mail.test:9000/ "
	m.fields.timeout = "5"
	m.fields.retries = "0"
	m.fields.interval = "30"
	m.fields.theme = "mono"

	got, err := m.candidate()
	if err != nil {
		t.Fatalf("candidate: %v", err)
	}
	if got.Server.BaseURL != "http://mail.test:9000" {
		t.Errorf("base url = %q", got.Server.BaseURL)
	}
	if got.Server.TimeoutSec != 5 || got.Server.MaxRetries != 0 || got.Display.RefreshIntervalSec != 30 {
		t.Errorf("numbers not applied: %+v", got)
	}
	if got.Display.Theme != "mono" {
		t.Errorf("theme = %q", got.Display.Theme)
	}
	if got.Cache != cfg.Cache || got.Log != cfg.Log {
		t.Error("untouched sections should carry over")
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"url ok", validateURL("http://localhost:8082"), false},
		{"url empty", validateURL("  "), true},
		{"url no scheme", validateURL("localhost"), true},
		{"number ok", validateNonNegative("Timeout")("15"), false},
		{"number zero", validateNonNegative("Timeout")("0"), false},
		{"number negative", validateNonNegative("Timeout")("-1"), true},
		{"number text", validateNonNegative("Timeout")("soon"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if (tt.err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", tt.err, tt.wantErr)
			}
		})
	}
}

func TestValidateAndSaveWritesConfigAndToken(t *testing.T) {
	useMemoryRing(t)
	cfg, path := baseConfig(t)
	cfg.Server.BaseURL = "http://mail.test"

	var gotToken string
	probe := func(ctx context.Context, server model.ServerConfig, token string) (int, error) {
		gotToken = token
		return 7, nil
	}
	m := New(cfg, path, probe, 80, 24)

	msg := m.validateAndSave(cfg, "fresh-token")()
	res, ok := msg.(ValidateResultMsg)
	if !ok || res.Err != nil || res.Count != 7 {
		t.Fatalf("result = %#v", msg)
	}
	if gotToken != "fresh-token" {
		t.Errorf("probe token = %q", gotToken)
	}

	stored, err := credential.Get(credential.TokenKey)
	if err != nil || stored != "fresh-token" {
		t.Errorf("stored token = %q, %v", stored, err)
	}
	saved, err := model.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if saved.Server.BaseURL != "http://mail.test" {
		t.Errorf("saved base url = %q", saved.Server.BaseURL)
	}
}

func TestValidateAndSaveFailureKeepsFile(t *testing.T) {
	useMemoryRing(t)
	cfg, path := baseConfig(t)

	probe := func(ctx context.Context, server model.ServerConfig, token string) (int, error) {
		return 0, errors.New("connection refused")
	}
	m := New(cfg, path, probe, 80, 24)

	res := m.validateAndSave(cfg, "")().(ValidateResultMsg)
	if res.Err == nil {
		t.Fatal("expected probe error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("config should not be written on failure: %v", err)
	}
}

func TestResultScreen(t *testing.T) {
	cfg, path := baseConfig(t)
	m := New(cfg, path, nil, 80, 24)
	m.mode = ModeValidating

	m, _ = m.Update(ValidateResultMsg{Err: errors.New("server error 500")})
	if m.mode != ModeValidateResult {
		t.Fatalf("mode = %v", m.mode)
	}
	if !strings.Contains(m.View(), "Connection failed") {
		t.Errorf("view = %q", m.View())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != ModeForm {
		t.Errorf("esc after failure should return to the form, mode = %v", m.mode)
	}

	m.mode = ModeValidating
	m, _ = m.Update(ValidateResultMsg{Count: 3})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected done command")
	}
	if done, ok := cmd().(ConfigDoneMsg); !ok || !done.Saved {
		t.Errorf("msg = %#v", cmd())
	}
}
