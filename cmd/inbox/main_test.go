package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/nhle/inbox/internal/model"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "missing.yaml")

	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "")
	if err := cmd.Flags().Set("base-url", "http://example.test:9000"); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.BaseURL != "http://example.test:9000" {
		t.Errorf("base url = %q", cfg.Server.BaseURL)
	}
	if cfg.Log.Level != model.DefaultLogLevel {
		t.Errorf("log level = %q, want default", cfg.Log.Level)
	}
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "inbox.log")

	logger, cleanup, err := setupLogger(model.LogConfig{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("setupLogger: %v", err)
	}
	logger.Debug("hello")
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "msg=hello") {
		t.Errorf("log file = %q", data)
	}
}
