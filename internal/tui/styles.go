package tui

import "github.com/charmbracelet/lipgloss"

var (
	arcanePurple = lipgloss.Color("#8B5CF6")
	mistGray     = lipgloss.Color("#6B7280")
	glowGold     = lipgloss.Color("#F5C542")
)

type styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Orb      lipgloss.Style
	OrbLit   lipgloss.Style
	OrbHot   lipgloss.Style
	Teaser   lipgloss.Style
	Hint     lipgloss.Style
	Panel    lipgloss.Style
	Locked   lipgloss.Style
	Chip     lipgloss.Style
	Slide    lipgloss.Style
}

func defaultStyles() styles {
	orb := lipgloss.NewStyle().
		Width(orbWidth-2).
		Height(orbHeight-2).
		Align(lipgloss.Center, lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(mistGray)

	return styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(arcanePurple),
		Subtitle: lipgloss.NewStyle().Italic(true).Foreground(mistGray),
		Orb:      orb,
		OrbHot:   orb.BorderForeground(arcanePurple),
		OrbLit:   orb.BorderForeground(glowGold),
		Teaser:   lipgloss.NewStyle().Bold(true),
		Hint:     lipgloss.NewStyle().Foreground(mistGray),
		Panel:    lipgloss.NewStyle().Padding(0, 2),
		Locked:   lipgloss.NewStyle().Italic(true).Foreground(mistGray),
		Chip:     lipgloss.NewStyle().Foreground(glowGold).Padding(0, 1),
		Slide:    lipgloss.NewStyle().Foreground(mistGray).MarginTop(1),
	}
}
