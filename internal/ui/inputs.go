package ui

// inputs.go provides a text input model used for entering URLs.

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputConfig defines configuration for a text input.
type InputConfig struct {
	Title       string             // Main title displayed at top
	Subtitle    string             // Optional subtitle/description
	Placeholder string             // Placeholder text in input field
	HelpText    string             // Help text for footer
	Default     string             // Default value
	Validator   func(string) error // Optional validation function
}

// InputModel is a text input with two-box layout.
type InputModel struct {
	textInput textinput.Model
	config    InputConfig
	layout    Layout
	value     string
	cancelled bool
	err       error
}

// NewInputModel creates a text input with the given configuration.
func NewInputModel(cfg InputConfig) InputModel {
	if cfg.HelpText == "" {
		cfg.HelpText = "Enter: confirm | Esc: cancel"
	}
	return InputModel{
		textInput: newTextInput(cfg.Placeholder, cfg.Default, DefaultLayout()),
		config:    cfg,
		layout:    DefaultLayout(),
	}
}

func newTextInput(placeholder, value string, layout Layout) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 4096
	ti.Width = layout.InnerWidth - 4
	ti.SetValue(value)
	ti.Focus()
	return ti
}

func (m InputModel) Init() tea.Cmd {
	return tea.Batch(
		StandardInit(),
		textinput.Blink,
	)
}

func (m InputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width)
		m.textInput.Width = m.layout.InnerWidth - 4
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			value := sanitizeInput(strings.TrimSpace(m.textInput.Value()))
			if m.config.Validator != nil {
				if err := m.config.Validator(value); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.value = value
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m InputModel) View() string {
	var content strings.Builder

	if m.config.Subtitle != "" {
		content.WriteString(ViewHeaderWithSubtitle(m.config.Title, m.config.Subtitle, m.layout.InnerWidth))
	} else {
		content.WriteString(ViewHeader(m.config.Title, m.layout.InnerWidth))
	}

	content.WriteString(m.textInput.View())
	content.WriteString("\n")

	if m.err != nil {
		content.WriteString("\n")
		content.WriteString(RenderError(m.err.Error()))
		content.WriteString("\n")
	}

	return TwoBoxView(content.String(), m.config.HelpText, m.layout)
}

// Value returns the entered value after the input completes.
func (m InputModel) Value() string {
	return m.value
}

// Cancelled returns true if the user pressed Esc.
func (m InputModel) Cancelled() bool {
	return m.cancelled
}

// RunInput runs an input TUI and returns the entered value.
// Returns empty string and cancelled=true if user pressed Esc.
func RunInput(cfg InputConfig) (value string, cancelled bool, err error) {
	p := tea.NewProgram(NewInputModel(cfg), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return "", false, fmt.Errorf("input error: %w", err)
	}
	result := finalModel.(InputModel)
	return result.Value(), result.Cancelled(), nil
}

// PromptForURL asks for a page URL.
func PromptForURL(title, defaultURL string) (string, bool, error) {
	return RunInput(InputConfig{
		Title:       title,
		Subtitle:    "Paste the full dashboard URL, including query and fragment",
		Placeholder: "https://app.datadoghq.com/dashboard/...?from_ts=...&to_ts=...",
		Default:     defaultURL,
		Validator:   ValidateURL,
	})
}

// ValidateURL accepts absolute URLs only.
func ValidateURL(s string) error {
	if s == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("URL must be absolute, e.g. https://example.com/...")
	}
	return nil
}

// sanitizeInput removes null bytes and other invisible control characters from input
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 || (r < 32 && r != '\t') {
			return -1
		}
		return r
	}, s)
}
