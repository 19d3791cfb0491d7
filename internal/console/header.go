package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/castlekeep/castlectl/internal/meta"
	"github.com/castlekeep/castlectl/internal/theme"
)

// renderHeader draws the brand and the tab bar with the active tab
// highlighted, followed by a rule.
func renderHeader(titles []string, active, width int) string {
	pal := theme.Current()
	brand := pal.ForegroundStyle(theme.ColorPrimary).Bold(true).Padding(0, 1).Render(meta.CLIName)

	tab := lipgloss.NewStyle().Padding(0, 1)
	tabs := make([]string, 0, len(titles))
	for i, title := range titles {
		label := string(rune('1'+i)) + " " + title
		if i == active {
			tabs = append(tabs, tab.Bold(true).
				Foreground(pal.Adaptive(theme.ColorPrimaryText)).
				Background(pal.Adaptive(theme.ColorPrimary)).
				Render(label))
			continue
		}
		tabs = append(tabs, tab.Foreground(pal.Adaptive(theme.ColorTextSecondary)).Render(label))
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Top, append([]string{brand}, tabs...)...)
	if width > 0 {
		bar = ansi.Truncate(bar, width, "…")
	}
	ruleWidth := max(width, lipgloss.Width(bar))
	rule := pal.ForegroundStyle(theme.ColorBorder).Render(strings.Repeat("─", ruleWidth))
	return bar + "\n" + rule
}

// tabAt returns the tab under column x of the header, or -1.
func tabAt(titles []string, x int) int {
	pos := lipgloss.Width(meta.CLIName) + 2
	for i, title := range titles {
		w := lipgloss.Width(title) + 4
		if x >= pos && x < pos+w {
			return i
		}
		pos += w
	}
	return -1
}
