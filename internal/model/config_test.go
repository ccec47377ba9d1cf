package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.BaseURL != DefaultBaseURL {
		t.Errorf("base_url = %q, want %q", cfg.Server.BaseURL, DefaultBaseURL)
	}
	if cfg.Server.TimeoutSec != DefaultTimeoutSec {
		t.Errorf("timeout_sec = %d", cfg.Server.TimeoutSec)
	}
	if !cfg.Cache.Enabled {
		t.Error("cache should be enabled by default")
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server:
  base_url: http://mail.example.test:9000
  max_retries: 1
display:
  refresh_interval_sec: 30
cache:
  enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.BaseURL != "http://mail.example.test:9000" {
		t.Errorf("base_url = %q", cfg.Server.BaseURL)
	}
	if cfg.Server.MaxRetries != 1 {
		t.Errorf("max_retries = %d, want 1", cfg.Server.MaxRetries)
	}
	if cfg.Server.TimeoutSec != DefaultTimeoutSec {
		t.Errorf("timeout_sec = %d, want default", cfg.Server.TimeoutSec)
	}
	if cfg.Display.RefreshIntervalSec != 30 {
		t.Errorf("refresh_interval_sec = %d, want 30", cfg.Display.RefreshIntervalSec)
	}
	if cfg.Cache.Enabled {
		t.Error("cache.enabled should be false")
	}
}

func TestLoadConfigRejectsNegativeTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  timeout_sec: -1\n"), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultAppConfig()
	cfg.Server.BaseURL = "http://127.0.0.1:8082"
	cfg.Display.RefreshIntervalSec = 60

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Server.BaseURL != cfg.Server.BaseURL {
		t.Errorf("base_url = %q, want %q", got.Server.BaseURL, cfg.Server.BaseURL)
	}
	if got.Display.RefreshIntervalSec != 60 {
		t.Errorf("refresh_interval_sec = %d, want 60", got.Display.RefreshIntervalSec)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~/mail/out.mbox", filepath.Join(home, "mail", "out.mbox")},
		{"/tmp/out.mbox", "/tmp/out.mbox"},
		{"relative.mbox", "relative.mbox"},
		{"~other/out.mbox", "~other/out.mbox"},
	}
	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
