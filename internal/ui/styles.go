package ui

import (
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Layout constants - single source of truth for viewport dimensions
const (
	MinViewportWidth = 60
	MaxViewportWidth = 100
	DefaultWidth     = 72 // Used when terminal size is unknown
)

// Layout holds computed dimensions for the current terminal size
type Layout struct {
	ViewportWidth int // clamped terminal width
	InnerWidth    int // ViewportWidth - border chars
}

// NewLayout creates a Layout from the terminal width, clamping to min/max
func NewLayout(terminalWidth int) Layout {
	width := clamp(terminalWidth, MinViewportWidth, MaxViewportWidth)
	return Layout{
		ViewportWidth: width,
		InnerWidth:    width - 2,
	}
}

// DefaultLayout returns a layout using the default width
func DefaultLayout() Layout {
	return NewLayout(DefaultWidth)
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Color palette - centralized color definitions
var (
	ColorBorder  = lipgloss.Color("196") // red
	ColorText    = lipgloss.Color("15")  // bright white
	ColorAccent  = lipgloss.Color("226") // bright yellow
	ColorTextDim = lipgloss.Color("241") // gray
	ColorActive  = lipgloss.Color("34")  // green
	ColorClipped = lipgloss.Color("33")  // blue
	ColorSuccess = lipgloss.Color("82")
)

// Common styles - reusable style definitions
var (
	// STYLE GUIDE: main viewport uses .Width(ViewportWidth) with no padding
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	HelpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorText)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Italic(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorBorder).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)
)

// RangeBox renders a labelled one-line box, the way the popup shows the
// Active and Clipped ranges.
func RangeBox(label, value string, color lipgloss.Color, width int) string {
	tag := lipgloss.NewStyle().
		Foreground(ColorText).
		Background(color).
		Bold(true).
		Width(9).
		Align(lipgloss.Center).
		Render(label)
	body := lipgloss.NewStyle().
		Foreground(ColorText).
		Width(width - 9 - 4).
		Align(lipgloss.Center).
		Render(value)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Render(lipgloss.JoinHorizontal(lipgloss.Center, tag, " ", body))
}

// RenderTitle renders a section title
func RenderTitle(s string) string {
	return TitleStyle.Render(s)
}

// RenderDim renders secondary text
func RenderDim(s string) string {
	return DimStyle.Render(s)
}

// RenderError renders an inline error
func RenderError(s string) string {
	return ErrorStyle.Render(s)
}

// StringWidth returns the display width of s, ignoring ANSI sequences.
func StringWidth(s string) int {
	return lipgloss.Width(s)
}

// BuildTwoBoxView renders content in the main bordered box with a one-line
// help box underneath.
func BuildTwoBoxView(content, helpText string, layout Layout) string {
	main := BorderStyle.
		Width(layout.InnerWidth).
		Render(strings.TrimRight(content, "\n"))
	help := HelpBoxStyle.
		Width(layout.InnerWidth).
		Render(CenterText(HintStyle.Render(helpText), layout.InnerWidth))
	return lipgloss.JoinVertical(lipgloss.Left, main, help)
}

// NewAppTheme creates a huh theme matching the app's style guide
// White text, red highlights/selection
func NewAppTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)
	t.Blurred.Title = t.Focused.Title

	t.Focused.Description = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Description = t.Focused.Description

	t.Focused.Base = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Base = t.Focused.Base

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(ColorBorder)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(ColorTextDim)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(ColorBorder)

	return t
}
