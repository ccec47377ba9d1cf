package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/source/inbox"
	"github.com/nhle/inbox/internal/theme"
	settings "github.com/nhle/inbox/internal/ui/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := model.SaveConfig(configPath, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), configPath)
		},
	}

	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit connection settings and test them against the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := theme.Apply(cfg.Display.Theme); err != nil {
				return err
			}
			editor := settingsProgram{model: settings.New(*cfg, configPath, probeServer, 80, 24)}
			_, err = tea.NewProgram(editor, tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.AddCommand(initCmd, pathCmd, editCmd)
	return cmd
}

// probeServer fetches the mailbox once with the candidate settings.
func probeServer(ctx context.Context, server model.ServerConfig, token string) (int, error) {
	client := inbox.NewClient(
		server.BaseURL,
		inbox.WithToken(token),
		inbox.WithTimeout(time.Duration(server.TimeoutSec)*time.Second),
		inbox.WithMaxRetries(server.MaxRetries),
	)
	messages, err := client.FetchAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(messages), nil
}

// settingsProgram runs the settings editor as a standalone program.
type settingsProgram struct {
	model settings.Model
}

func (p settingsProgram) Init() tea.Cmd {
	return p.model.Init()
}

func (p settingsProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settings.ConfigDoneMsg:
		return p, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return p, tea.Quit
		}
	}
	var cmd tea.Cmd
	p.model, cmd = p.model.Update(msg)
	return p, cmd
}

func (p settingsProgram) View() string {
	return p.model.View()
}
