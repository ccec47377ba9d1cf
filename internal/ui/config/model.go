package config

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inbox/internal/credential"
	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/theme"
)

// ConfigMode represents the current state of the settings view.
type ConfigMode int

const (
	ModeForm           ConfigMode = iota // Editing connection settings
	ModeValidating                       // Testing connection
	ModeValidateResult                   // Show validation result
)

// ConfigDoneMsg signals the settings view should close.
type ConfigDoneMsg struct {
	// Saved reports whether the settings were written.
	Saved bool
}

// ValidateResultMsg carries the result of a connection attempt.
type ValidateResultMsg struct {
	Count int
	Err   error
}

// Probe fetches the mailbox with the candidate settings and returns the
// number of messages seen.
type Probe func(ctx context.Context, server model.ServerConfig, token string) (int, error)

// formBindings lives on the heap so huh keeps writing to the same
// fields after the Model value is copied.
type formBindings struct {
	baseURL  string
	token    string
	timeout  string
	retries  string
	interval string
	theme    string
}

// Model is the Bubble Tea model for the connection settings editor.
type Model struct {
	mode   ConfigMode
	cfg    model.AppConfig
	path   string
	probe  Probe
	form   *huh.Form
	fields *formBindings

	validCount int
	validError error
	spinner    spinner.Model

	width, height int
}

// New creates a settings editor for cfg, saved to path on success.
func New(cfg model.AppConfig, path string, probe Probe, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		mode:    ModeForm,
		cfg:     cfg,
		path:    path,
		probe:   probe,
		spinner: sp,
		width:   width,
		height:  height,
		fields: &formBindings{
			baseURL:  cfg.Server.BaseURL,
			timeout:  strconv.Itoa(cfg.Server.TimeoutSec),
			retries:  strconv.Itoa(cfg.Server.MaxRetries),
			interval: strconv.Itoa(cfg.Display.RefreshIntervalSec),
			theme:    cfg.Display.Theme,
		},
	}
	m.form = m.buildForm()
	return m
}

// Init focuses the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages and dispatches based on current mode.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m.updateForm(msg)

	case ValidateResultMsg:
		if m.mode != ModeValidating {
			return m, nil
		}
		m.validCount = msg.Count
		m.validError = msg.Err
		m.mode = ModeValidateResult
		return m, nil

	case spinner.TickMsg:
		if m.mode == ModeValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeValidating:
			if msg.String() == "esc" {
				m.mode = ModeForm
				m.form = m.buildForm()
				return m, m.form.Init()
			}
			return m, nil
		case ModeValidateResult:
			return m.handleValidateResultKeys(msg)
		}
	}

	return m.updateForm(msg)
}

// handleValidateResultKeys processes key events on the validation result screen.
func (m Model) handleValidateResultKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		if m.validError == nil {
			return m, func() tea.Msg { return ConfigDoneMsg{Saved: true} }
		}
		m.mode = ModeForm
		m.validError = nil
		m.form = m.buildForm()
		return m, m.form.Init()
	case "r":
		if m.validError != nil {
			return m.startValidation()
		}
	}
	return m, nil
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Base URL").
				Description("Root of the messages API; /api/messages is appended").
				Placeholder(model.DefaultBaseURL).
				Value(&m.fields.baseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("API Token").
				Description("Optional; leave empty to keep the stored token").
				EchoMode(huh.EchoModePassword).
				Value(&m.fields.token),
			huh.NewInput().
				Title("Request timeout (seconds)").
				Value(&m.fields.timeout).
				Validate(validateNonNegative("Timeout")),
			huh.NewInput().
				Title("Retries on 429").
				Value(&m.fields.retries).
				Validate(validateNonNegative("Retries")),
			huh.NewInput().
				Title("Background refresh (seconds)").
				Description("0 disables polling").
				Value(&m.fields.interval).
				Validate(validateNonNegative("Interval")),
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOptions(theme.Names...)...).
				Value(&m.fields.theme),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.mode != ModeForm || m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.startValidation()
	case huh.StateAborted:
		return m, func() tea.Msg { return ConfigDoneMsg{} }
	}
	return m, cmd
}

// startValidation applies the form to a candidate config and probes it.
func (m Model) startValidation() (Model, tea.Cmd) {
	cfg, err := m.candidate()
	if err != nil {
		m.validError = err
		m.mode = ModeValidateResult
		return m, nil
	}

	m.mode = ModeValidating
	return m, tea.Batch(m.spinner.Tick, m.validateAndSave(cfg, strings.TrimSpace(m.fields.token)))
}

// candidate returns the configuration described by the form.
func (m Model) candidate() (model.AppConfig, error) {
	cfg := m.cfg
	cfg.Server.BaseURL = strings.TrimRight(strings.TrimSpace(m.fields.baseURL), "/")
	cfg.Server.TimeoutSec, _ = strconv.Atoi(strings.TrimSpace(m.fields.timeout))
	cfg.Server.MaxRetries, _ = strconv.Atoi(strings.TrimSpace(m.fields.retries))
	cfg.Display.RefreshIntervalSec, _ = strconv.Atoi(strings.TrimSpace(m.fields.interval))
	cfg.Display.Theme = m.fields.theme
	if err := cfg.Validate(); err != nil {
		return model.AppConfig{}, err
	}
	return cfg, nil
}

func (m Model) validateAndSave(cfg model.AppConfig, token string) tea.Cmd {
	probe, path := m.probe, m.path
	return func() tea.Msg {
		ctx := context.Background()

		probeToken := token
		if probeToken == "" {
			stored, err := credential.Token()
			if err != nil {
				return ValidateResultMsg{Err: fmt.Errorf("reading stored token: %w", err)}
			}
			probeToken = stored
		}

		count, err := probe(ctx, cfg.Server, probeToken)
		if err != nil {
			return ValidateResultMsg{Err: err}
		}

		if token != "" {
			if err := credential.Set(credential.TokenKey, token); err != nil {
				return ValidateResultMsg{Count: count, Err: fmt.Errorf("connection OK but saving token failed: %w", err)}
			}
		}
		if err := model.SaveConfig(path, &cfg); err != nil {
			return ValidateResultMsg{Count: count, Err: fmt.Errorf("connection OK but save failed: %w", err)}
		}
		return ValidateResultMsg{Count: count}
	}
}

// View renders the settings editor.
func (m Model) View() string {
	switch m.mode {
	case ModeForm:
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	case ModeValidating:
		return m.viewValidating()
	case ModeValidateResult:
		return m.viewValidateResult()
	default:
		return ""
	}
}

func (m Model) viewValidating() string {
	style := lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height)

	content := fmt.Sprintf(
		"%s Testing connection...\n\nPress esc to cancel.",
		m.spinner.View(),
	)

	return style.Render(content)
}

func (m Model) viewValidateResult() string {
	style := lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height)

	var content string
	if m.validError != nil {
		errStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorRed)
		content = errStyle.Render("Connection failed") + "\n\n" +
			m.validError.Error() + "\n\n" +
			lipgloss.NewStyle().Foreground(theme.ColorGray).
				Render("r retry | enter/esc edit")
	} else {
		okStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorGreen)
		content = okStyle.Render("Connection successful") + "\n\n" +
			fmt.Sprintf("%d messages on the server. Settings saved to %s", m.validCount, m.path) + "\n\n" +
			lipgloss.NewStyle().Foreground(theme.ColorGray).
				Render("enter/esc done")
	}

	return style.Render(content)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func validateNonNegative(fieldName string) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("%s must be a whole number", fieldName)
		}
		if n < 0 {
			return fmt.Errorf("%s must not be negative", fieldName)
		}
		return nil
	}
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., http://localhost:8082)")
	}
	return nil
}
