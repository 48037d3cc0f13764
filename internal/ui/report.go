package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/thesavant42/timerange-clipboard/internal/models"
	"github.com/thesavant42/timerange-clipboard/internal/timerange"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Width(10)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	borderLineStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)

	headerStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)
)

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Println(SuccessStyle.Render(message))
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Println(ErrorStyle.Render("Error: " + message))
}

// PrintField prints an aligned "label value" line
func PrintField(label, value string) {
	fmt.Println(labelStyle.Render(label) + valueStyle.Render(value))
}

// FormatRange renders a range for humans, or "-" when r is nil.
func FormatRange(r *models.TimeRange, opts models.DisplayOptions) string {
	if r == nil {
		return "-"
	}
	return timerange.DisplayRange(*r, opts)
}

// PrintRange prints a labelled range with its raw epoch values.
func PrintRange(label string, r *models.TimeRange, opts models.DisplayOptions) {
	PrintField(label, FormatRange(r, opts))
	if r != nil {
		PrintField("", RenderDim(fmt.Sprintf("%d - %d (%s)", r.Start, r.End, FormatLength(r.DurationMillis()))))
	}
}

// FormatLength renders a range length like "1h30m0s".
func FormatLength(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).String()
}

// FormatClipTable renders the clipboard history, newest first.
//
// This is a CLI report (non-interactive), so the table is built with string
// formatting and lipgloss only colors the text.
func FormatClipTable(clips []models.Clip, opts models.DisplayOptions, now time.Time) string {
	if len(clips) == 0 {
		return DimStyle.Render("Clipboard is empty")
	}

	colWidths := []int{3, 14, 47, 18} // #, Copied, Range, Site
	totalWidth := 1
	for _, w := range colWidths {
		totalWidth += w + 3
	}
	separator := strings.Repeat("─", totalWidth-2)

	var b strings.Builder
	b.WriteString(borderLineStyle.Render("┌"+separator+"┐") + "\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("│ %-*s │ %-*s │ %-*s │ %-*s │",
		colWidths[0], "#",
		colWidths[1], "Copied",
		colWidths[2], "Range",
		colWidths[3], "Site")) + "\n")
	b.WriteString(borderLineStyle.Render("├"+separator+"┤") + "\n")

	for i, c := range clips {
		site := c.Site
		if site == "" {
			site = "-"
		}
		row := fmt.Sprintf("│ %-*s │ %-*s │ %-*s │ %-*s │",
			colWidths[0], fmt.Sprintf("%d", i+1),
			colWidths[1], truncate(humanize.RelTime(c.CopiedAt, now, "ago", "from now"), colWidths[1]),
			colWidths[2], truncate(timerange.DisplayRange(c.Range, opts), colWidths[2]),
			colWidths[3], truncate(site, colWidths[3]))
		if i == 0 {
			b.WriteString(AccentStyle.Render(row) + "\n")
		} else {
			b.WriteString(NormalStyle.Render(row) + "\n")
		}
	}
	b.WriteString(borderLineStyle.Render("└" + separator + "┘"))
	return b.String()
}

// PrintClipTable prints the clipboard history
func PrintClipTable(clips []models.Clip, opts models.DisplayOptions) {
	fmt.Println(FormatClipTable(clips, opts, time.Now()))
}

// DescribeFormat summarizes where a format keeps its range, e.g.
// "from_ts / to_ts (epoch 1000/s)".
func DescribeFormat(f *models.URLFormat) string {
	if f == nil {
		return "-"
	}
	var parts []string
	for _, a := range []struct {
		name   string
		anchor *models.Anchor
	}{
		{"start", f.Start},
		{"end", f.End},
		{"duration", durationAnchor(f)},
	} {
		switch {
		case !a.anchor.Defined():
		case a.anchor.Kind == models.AnchorParam:
			parts = append(parts, a.name+"="+a.anchor.Param)
		default:
			parts = append(parts, a.name+"~/"+a.anchor.Regex+"/")
		}
	}

	var timeDesc string
	switch f.Time.Kind {
	case models.TimeEpochUnit:
		timeDesc = fmt.Sprintf("epoch %d/s", f.Time.OneSecond)
	case models.TimePattern:
		timeDesc = "pattern " + f.Time.Pattern
	}
	return strings.Join(parts, ", ") + " (" + timeDesc + ")"
}

func durationAnchor(f *models.URLFormat) *models.Anchor {
	if f.Duration == nil {
		return nil
	}
	return &f.Duration.Anchor
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
