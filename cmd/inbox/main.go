package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/inbox/internal/app"
	"github.com/nhle/inbox/internal/credential"
	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/source/inbox"
	"github.com/nhle/inbox/internal/state"
	"github.com/nhle/inbox/internal/store"
	appsync "github.com/nhle/inbox/internal/sync"
	"github.com/nhle/inbox/internal/theme"
)

// activityRetention bounds the activity log kept between sessions.
const activityRetention = 1000

var (
	configPath string
	baseURL    string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "inbox",
		Short:        "Terminal client for the messages API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runTUI(cfg)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", model.DefaultConfigPath(), "path to the config file")
	flags.StringVar(&baseURL, "base-url", "", "messages API root URL (overrides server.base_url)")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")

	rootCmd.AddCommand(newServeCmd(), newTokenCmd(), newConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("base-url") {
		cfg.Server.BaseURL = baseURL
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func runTUI(cfg *model.AppConfig) error {
	if err := theme.Apply(cfg.Display.Theme); err != nil {
		return err
	}

	logger, cleanup, err := setupLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("setting up logger: %w", err)
	}
	defer func() {
		_ = cleanup()
	}()
	slog.SetDefault(logger)

	token, err := credential.Token()
	if err != nil {
		logger.Warn("reading api token", "err", err)
	}

	client := inbox.NewClient(
		cfg.Server.BaseURL,
		inbox.WithToken(token),
		inbox.WithTimeout(time.Duration(cfg.Server.TimeoutSec)*time.Second),
		inbox.WithMaxRetries(cfg.Server.MaxRetries),
		inbox.WithLogger(logger),
	)

	dbPath := ":memory:"
	if cfg.Cache.Enabled {
		dbPath = cfg.Cache.Path
	}
	db, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer db.Close()

	if err := db.PruneActivities(context.Background(), activityRetention); err != nil {
		logger.Warn("pruning activity log", "err", err)
	}

	opts := []state.Option{state.WithRecorder(db), state.WithLogger(logger)}
	if cfg.Cache.Enabled {
		opts = append(opts, state.WithCache(db))
	}
	stateStore := state.New(client, opts...)

	interval := time.Duration(cfg.Display.RefreshIntervalSec) * time.Second
	poller := appsync.New(stateStore, interval, logger)

	logger.Info("starting inbox", "base_url", cfg.Server.BaseURL, "cache", dbPath, "refresh", interval)

	p := tea.NewProgram(app.New(app.Deps{
		State:    stateStore,
		Activity: db,
		Poller:   poller,
		Logger:   logger,
	}), tea.WithAltScreen())

	_, err = p.Run()
	poller.Stop()
	return err
}

// setupLogger opens the log file; the terminal belongs to the UI.
func setupLogger(cfg model.LogConfig) (*slog.Logger, func() error, error) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	cleanup := func() error { return nil }

	if cfg.File == "" {
		return slog.New(slog.DiscardHandler), cleanup, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, cleanup, err
	}
	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, cleanup, err
	}
	return slog.New(slog.NewTextHandler(file, opts)), file.Close, nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
