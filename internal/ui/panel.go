package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/crud/internal/model"
)

func panelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(current.Border).
		BorderForeground(current.BorderColor).
		Padding(0, 1)
}

// Panel draws a framed box using the current theme.
func Panel(lines []string) {
	fmt.Fprintln(Stdout, panelStyle().Render(strings.Join(lines, "\n")))
}

// ItemLines renders the list view used by `ls`: a header, then one
// "id. name" line per item in the order given.
func ItemLines(items []model.Item) []string {
	t := Current()
	lines := []string{
		fmt.Sprintf("%s   %s %d", t.Title.Render("Items"), t.Accent.Render("Total"), len(items)),
		"",
	}
	if len(items) == 0 {
		return append(lines, t.Muted.Render("no items"))
	}
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s %s", t.Muted.Render(fmt.Sprintf("%3d.", it.ID)), truncate(it.Name, 80)))
	}
	return lines
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
