package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LipGloss signature purple/pink palette
var (
	HeaderColor  = lipgloss.Color("#F780FF") // Bright pink/magenta
	KeyColor     = lipgloss.Color("#BD93F9") // Purple
	NumberColor  = lipgloss.Color("#FF79C6") // Pink
	TextColor    = lipgloss.Color("#E9E9F4") // Light purple/white
	BorderColor  = lipgloss.Color("#6272A4") // Muted purple
	SummaryColor = lipgloss.Color("#8BE9FD") // Cyan accent
	SuccessColor = lipgloss.Color("#50FA7B") // Green
	WarningColor = lipgloss.Color("#FFB86C") // Orange
	DangerColor  = lipgloss.Color("#FF5555") // Red
)

// Table renders rows under a title with aligned columns. Columns whose
// values all look numeric are right aligned.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Render returns the table as a styled string ending in a newline
func (t Table) Render() string {
	columns := len(t.Headers)
	for _, row := range t.Rows {
		columns = max(columns, len(row))
	}
	if columns == 0 {
		return ""
	}

	widths := make([]int, columns)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	numeric := t.numericColumns(columns)

	titleStyle := lipgloss.NewStyle().Foreground(SummaryColor).Bold(true)
	headerStyle := lipgloss.NewStyle().Foreground(HeaderColor).Bold(true).Padding(0, 1)
	borderStyle := lipgloss.NewStyle().Foreground(BorderColor)

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(titleStyle.Render(t.Title))
		b.WriteString("\n")
	}

	separator := borderStyle.Render("│")
	if len(t.Headers) > 0 {
		cells := make([]string, columns)
		for i := range cells {
			header := ""
			if i < len(t.Headers) {
				header = strings.ToUpper(t.Headers[i])
			}
			cells[i] = headerStyle.Width(widths[i] + 2).Render(header)
		}
		b.WriteString(strings.Join(cells, separator))
		b.WriteString("\n")

		parts := make([]string, columns)
		for i := range parts {
			parts[i] = strings.Repeat("─", widths[i]+2)
		}
		b.WriteString(borderStyle.Render(strings.Join(parts, "┼")))
		b.WriteString("\n")
	}

	for _, row := range t.Rows {
		cells := make([]string, columns)
		for i := range cells {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			style := lipgloss.NewStyle().Padding(0, 1).Width(widths[i] + 2)
			switch {
			case i == 0:
				style = style.Foreground(KeyColor)
			case numeric[i]:
				style = style.Foreground(NumberColor).Align(lipgloss.Right)
			default:
				style = style.Foreground(TextColor)
			}
			cells[i] = style.Render(cell)
		}
		b.WriteString(strings.Join(cells, separator))
		b.WriteString("\n")
	}

	return b.String()
}

func (t Table) numericColumns(columns int) []bool {
	numeric := make([]bool, columns)
	for i := range numeric {
		numeric[i] = len(t.Rows) > 0
	}
	for _, row := range t.Rows {
		for i := range numeric {
			if i >= len(row) || !looksNumeric(row[i]) {
				numeric[i] = false
			}
		}
	}
	return numeric
}

// looksNumeric accepts digits with an optional sign, decimal point or
// trailing percent
func looksNumeric(s string) bool {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	s = strings.TrimLeft(s, "+-")
	if s == "" {
		return false
	}
	dot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return true
}

// Summary renders an italic footer line
func Summary(text string) string {
	return lipgloss.NewStyle().Foreground(SummaryColor).Italic(true).Render(text)
}

// Grade colors a letter grade: A/B green, C orange, D/F red
func Grade(grade string) string {
	color := DangerColor
	switch grade {
	case "A", "B":
		color = SuccessColor
	case "C":
		color = WarningColor
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(grade)
}
