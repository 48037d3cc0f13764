package ui

// view_helpers.go provides common View() rendering helpers.

import (
	"strings"
)

// ViewHeader renders title + full-width divider + spacing.
// Use at the start of all View() content to ensure consistent headers.
func ViewHeader(title string, innerWidth int) string {
	var b strings.Builder
	b.WriteString(RenderTitle(title))
	b.WriteString("\n")
	b.WriteString(FullWidthDivider(innerWidth))
	b.WriteString("\n\n")
	return b.String()
}

// ViewHeaderWithSubtitle renders title + subtitle + divider + spacing.
func ViewHeaderWithSubtitle(title, subtitle string, innerWidth int) string {
	var b strings.Builder
	b.WriteString(RenderTitle(title))
	b.WriteString("\n")
	if subtitle != "" {
		b.WriteString(RenderDim(subtitle))
		b.WriteString("\n")
	}
	b.WriteString(FullWidthDivider(innerWidth))
	b.WriteString("\n\n")
	return b.String()
}

// CenterText centers text within given width.
// Uses StringWidth() for accurate ANSI-aware width calculation.
func CenterText(text string, width int) string {
	textW := StringWidth(text)
	if textW >= width {
		return text
	}
	padding := (width - textW) / 2
	return strings.Repeat(" ", padding) + text
}

// TruncateMiddle shortens s to width runes, keeping both ends.
func TruncateMiddle(s string, width int) string {
	r := []rune(s)
	if len(r) <= width || width < 5 {
		return s
	}
	keep := width - 3
	head := keep / 2
	return string(r[:head]) + "..." + string(r[len(r)-(keep-head):])
}

// TwoBoxView constructs the standard two-box layout.
//
// Layout:
//
//	┌────────────────────────┐
//	│ Main content           │  <- Red border
//	└────────────────────────┘
//	┌────────────────────────┐
//	│   Centered help text   │  <- White border, 1 row
//	└────────────────────────┘
func TwoBoxView(content, helpText string, layout Layout) string {
	return BuildTwoBoxView(content, helpText, layout)
}

// FullWidthDivider returns a horizontal divider spanning the inner width.
func FullWidthDivider(innerWidth int) string {
	return strings.Repeat("─", innerWidth)
}
