package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// numberLines prefixes each line of content with a line-number gutter.
func numberLines(content string, style lipgloss.Style) string {
	lines := strings.Split(content, "\n")
	var b strings.Builder

	for i, line := range lines {
		b.WriteString(Styles.Gutter.Render(fmt.Sprintf("%4d │ ", i+1)))
		b.WriteString(style.Render(line))
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// detailLine renders an aligned "label value" row.
func detailLine(label string, value any) string {
	return fmt.Sprintf("  %-12s %v\n", label+":", value)
}
