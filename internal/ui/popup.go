package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/thesavant42/timerange-clipboard/internal/models"
	"github.com/thesavant42/timerange-clipboard/internal/navigator"
	"github.com/thesavant42/timerange-clipboard/internal/state"
	"github.com/thesavant42/timerange-clipboard/internal/timerange"
)

// pasteTimeout bounds how long paste waits for the page URL to settle.
const pasteTimeout = 5 * time.Second

// ClipStore persists clipped ranges.
type ClipStore interface {
	SaveClip(r models.TimeRange, sourceURL, site string) (models.Clip, error)
	ClearClips() (int64, error)
}

// PopupConfig wires the popup to the rest of the app.
type PopupConfig struct {
	Store   *state.Store
	Engine  *timerange.Engine
	Page    navigator.PageNavigator
	Clips   ClipStore
	Logger  *log.Logger
	Version string
}

// stateMsg carries a fresh snapshot after an action.
type stateMsg struct {
	state  state.AppState
	status string
	err    error
}

// PopupModel shows the active and clipped ranges and copies/pastes between them.
type PopupModel struct {
	cfg    PopupConfig
	state  state.AppState
	layout Layout

	editing bool
	input   textinput.Model

	status    string
	statusErr bool
	quitting  bool
}

// NewPopupModel creates the popup for the page in cfg.
func NewPopupModel(cfg PopupConfig) PopupModel {
	if cfg.Engine == nil {
		cfg.Engine = timerange.Default()
	}
	return PopupModel{
		cfg:    cfg,
		state:  cfg.Store.Dispatch(state.SetActiveURL{URL: cfg.Page.CurrentURL()}),
		layout: DefaultLayout(),
	}
}

func (m PopupModel) Init() tea.Cmd {
	return StandardInit()
}

func (m PopupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width)
		m.input.Width = m.layout.InnerWidth - 4
		return m, nil

	case stateMsg:
		m.state = msg.state
		m.status, m.statusErr = msg.status, msg.err != nil
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		if quit, cmd := HandleQuitKeys(msg.String()); quit {
			m.quitting = true
			return m, cmd
		}
		switch msg.String() {
		case "c":
			return m, m.copyCmd()
		case "p":
			return m, m.pasteCmd()
		case "x":
			return m, m.clearCmd()
		case "e":
			m.editing = true
			m.input = newTextInput("https://...", m.state.ActiveURL, m.layout)
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m PopupModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if quit, cmd := HandleQuitKeysNoEsc(msg.String()); quit {
		m.quitting = true
		return m, cmd
	}
	switch msg.String() {
	case "esc":
		m.editing = false
		return m, nil
	case "enter":
		value := sanitizeInput(strings.TrimSpace(m.input.Value()))
		if err := ValidateURL(value); err != nil {
			m.status, m.statusErr = err.Error(), true
			return m, nil
		}
		m.editing = false
		return m, m.openCmd(value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PopupModel) openCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := m.cfg.Page.SetURL(url); err != nil {
			return stateMsg{state: m.state, err: fmt.Errorf("failed to open url: %w", err)}
		}
		s := m.cfg.Store.Dispatch(state.SetActiveURL{URL: url})
		status := "No time range format matches this URL"
		if s.ActiveFormat != nil {
			status = "Opened"
		}
		return stateMsg{state: s, status: status}
	}
}

func (m PopupModel) copyCmd() tea.Cmd {
	return func() tea.Msg {
		s := m.state
		if s.ActiveRange == nil {
			return stateMsg{state: s, err: errors.New("no time range on this page")}
		}
		site, err := navigator.SiteOf(s.ActiveURL)
		if err != nil {
			site = ""
		}
		if _, err := m.cfg.Clips.SaveClip(*s.ActiveRange, s.ActiveURL, site); err != nil {
			return stateMsg{state: s, err: err}
		}
		s = m.cfg.Store.Dispatch(state.SetClipped{Range: s.ActiveRange})
		return stateMsg{state: s, status: "Copied"}
	}
}

func (m PopupModel) pasteCmd() tea.Cmd {
	return func() tea.Msg {
		s := m.state
		switch {
		case s.Clipped == nil:
			return stateMsg{state: s, err: errors.New("clipboard is empty")}
		case s.ActiveFormat == nil:
			return stateMsg{state: s, err: errors.New("no time range format matches this URL")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), pasteTimeout)
		defer cancel()

		target, strategy, err := navigator.Paste(ctx, m.cfg.Engine, m.cfg.Page, *s.Clipped, s.ActiveFormat)
		if err != nil {
			return stateMsg{state: s, err: err}
		}
		if m.cfg.Logger != nil {
			m.cfg.Logger.Debug("Pasted", "url", target, "strategy", strategy)
		}
		s = m.cfg.Store.Dispatch(state.SetActiveURL{URL: target})
		return stateMsg{state: s, status: "Pasted (" + strategy.String() + ")"}
	}
}

func (m PopupModel) clearCmd() tea.Cmd {
	return func() tea.Msg {
		if _, err := m.cfg.Clips.ClearClips(); err != nil {
			return stateMsg{state: m.state, err: err}
		}
		s := m.cfg.Store.Dispatch(state.SetClipped{})
		return stateMsg{state: s, status: "Cleared"}
	}
}

func (m PopupModel) View() string {
	if m.quitting {
		return ""
	}
	w := m.layout.InnerWidth
	s := m.state

	var content strings.Builder
	content.WriteString(ViewHeaderWithSubtitle("Timerange Clipboard", TruncateMiddle(s.ActiveURL, w), w))

	if m.editing {
		content.WriteString(m.input.View())
		content.WriteString("\n\n")
	}

	content.WriteString(RangeBox("Active", FormatRange(s.ActiveRange, s.ActiveDisplay), ColorActive, w))
	content.WriteString("\n")
	content.WriteString(RangeBox("Clipped", FormatRange(s.Clipped, s.ActiveDisplay), ColorClipped, w))
	content.WriteString("\n\n")

	content.WriteString(RenderDim("Time zone: " + timerange.DisplayTimeZone(s.ActiveDisplay)))
	content.WriteString("\n")
	content.WriteString(RenderDim("Timerange Clipboard v" + m.cfg.Version))
	if m.status != "" {
		content.WriteString("\n\n")
		if m.statusErr {
			content.WriteString(RenderError(m.status))
		} else {
			content.WriteString(SuccessStyle.Render(m.status))
		}
	}

	help := "c: copy | p: paste | x: clear | e: edit url | q: quit"
	if m.editing {
		help = "Enter: open | Esc: cancel"
	}
	return TwoBoxView(content.String(), help, m.layout)
}

// State returns the last snapshot the popup rendered.
func (m PopupModel) State() state.AppState {
	return m.state
}

// RunPopup runs the popup until the user quits and returns the final state.
func RunPopup(cfg PopupConfig) (state.AppState, error) {
	p := tea.NewProgram(NewPopupModel(cfg), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return state.AppState{}, fmt.Errorf("popup error: %w", err)
	}
	return final.(PopupModel).State(), nil
}
