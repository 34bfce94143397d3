package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pacerhq/pacer/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBg        = lipgloss.Color("#100F0F")
	ColorSurface   = lipgloss.Color("#1C1B1A")
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
	ColorPurple    = lipgloss.Color("#8B7EC8")
	ColorYellow    = lipgloss.Color("#D0A215")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// StatusStyle returns the color style for a goal status.
func StatusStyle(s model.GoalStatus) lipgloss.Style {
	switch s {
	case model.GoalAchieved:
		return lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	case model.GoalOnTrack:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case model.GoalAtRisk:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case model.GoalBehind:
		return lipgloss.NewStyle().Foreground(ColorRed)
	default:
		return mutedStyle
	}
}

// SeverityStyle returns the color style for an insight severity.
func SeverityStyle(s model.InsightSeverity) lipgloss.Style {
	switch s {
	case model.SeverityPositive:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case model.SeverityWarning:
		return lipgloss.NewStyle().Foreground(ColorOrange)
	case model.SeverityCritical:
		return lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(ColorBlue)
	}
}

// RenderStatusBadge renders a colored status label.
func RenderStatusBadge(s model.GoalStatus) string {
	return StatusStyle(s).Render(StatusLabel(s))
}

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows. A single-cell
// "---" row renders as a separator line.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			if len(h) > widths[i] {
				widths[i] = len(h)
			}
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols && len(cell) > widths[i] {
					widths[i] = len(cell)
				}
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	writeRule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}

	writeRule("╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			padded := fmt.Sprintf(" %-*s ", widths[i], h)
			b.WriteString(headerStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		writeRule("├", "┼", "┤")
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			writeRule("├", "┼", "┤")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			w := widths[i]
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align numeric columns (all except first)
			var padded string
			if i == 0 {
				padded = fmt.Sprintf(" %-*s ", w, cell)
			} else {
				padded = fmt.Sprintf(" %*s ", w, cell)
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	writeRule("╰", "┴", "╯")

	return b.String()
}

// RenderProgressBar renders a goal progress bar colored by status, with the
// expected pace marked.
func RenderProgressBar(progressPct, expectedPct float64, status model.GoalStatus, width int) string {
	if width <= 0 {
		return ""
	}

	clamp := func(p float64) float64 {
		if p < 0 {
			return 0
		}
		if p > 100 {
			return 100
		}
		return p
	}

	filled := int(clamp(progressPct) / 100 * float64(width))
	if filled > width {
		filled = width
	}
	marker := int(clamp(expectedPct) / 100 * float64(width))
	if marker >= width {
		marker = width - 1
	}

	var b strings.Builder
	fill := StatusStyle(status)
	for i := 0; i < width; i++ {
		switch {
		case i == marker && i >= filled:
			b.WriteString(mutedStyle.Render("┃"))
		case i < filled:
			b.WriteString(fill.Render("█"))
		default:
			b.WriteString(dimStyle.Render("░"))
		}
	}

	return fmt.Sprintf("[%s] %s", b.String(), FormatPercent(progressPct))
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		max = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / max * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(blocks[idx])
	}

	return b.String()
}

// RenderInsight renders one insight as an indented block with a severity
// glyph.
func RenderInsight(in model.Insight) string {
	glyphs := map[model.InsightSeverity]string{
		model.SeverityPositive: "✓",
		model.SeverityInfo:     "•",
		model.SeverityWarning:  "!",
		model.SeverityCritical: "✗",
	}
	glyph, ok := glyphs[in.Severity]
	if !ok {
		glyph = "•"
	}

	var b strings.Builder
	style := SeverityStyle(in.Severity)
	b.WriteString(fmt.Sprintf("  %s %s\n", style.Render(glyph), style.Render(in.Title)))
	if in.Detail != "" {
		b.WriteString(mutedStyle.Render("    " + in.Detail))
		b.WriteString("\n")
	}
	if in.Action != "" {
		b.WriteString(dimStyle.Render("    → " + in.Action))
		b.WriteString("\n")
	}
	return b.String()
}
