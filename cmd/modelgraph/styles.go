package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorMuted  = lipgloss.Color("#6C7A89")
	colorWarn   = lipgloss.Color("#F4D03F")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	keyStyle   = lipgloss.NewStyle().Foreground(colorMuted).Width(14)
	idStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	warnStyle  = lipgloss.NewStyle().Foreground(colorWarn)
	tokenStyle = lipgloss.NewStyle().Foreground(colorAccent)
	snippetBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1)
)

// kv renders aligned key/value rows.
func kv(rows ...[2]string) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(r[0]), r[1])
	}
	return strings.Join(lines, "\n")
}

// nodeLine renders one element as "id  tag  name".
func nodeLine(id, tag, name string) string {
	if name == "" {
		name = mutedStyle.Render("(unnamed)")
	}
	return fmt.Sprintf("%s  %s  %s", idStyle.Render(id), mutedStyle.Render(tag), name)
}
