package tui

import (
	"github.com/charmbracelet/lipgloss"

	"aisum/pkg/prefs"
)

// palette holds the per-theme colors.
type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	errColor  lipgloss.Color
	text      lipgloss.Color
	subtle    lipgloss.Color
}

var lightPalette = palette{
	primary:   lipgloss.Color("#3B82F6"),
	secondary: lipgloss.Color("#10B981"),
	errColor:  lipgloss.Color("#EF4444"),
	text:      lipgloss.Color("#333333"),
	subtle:    lipgloss.Color("245"),
}

var darkPalette = palette{
	primary:   lipgloss.Color("#60A5FA"),
	secondary: lipgloss.Color("#34D399"),
	errColor:  lipgloss.Color("#F87171"),
	text:      lipgloss.Color("#F9FAFB"),
	subtle:    lipgloss.Color("241"),
}

// styleSet is the rendered style collection for the active theme.
type styleSet struct {
	title       lipgloss.Style
	tabActive   lipgloss.Style
	tabInactive lipgloss.Style
	box         lipgloss.Style
	info        lipgloss.Style
	err         lipgloss.Style
	subtle      lipgloss.Style
	thought     lipgloss.Style
}

func newStyles(theme string) styleSet {
	p := lightPalette
	if theme == prefs.ThemeDark {
		p = darkPalette
	}
	return styleSet{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(p.primary).
			Padding(0, 1).
			Bold(true),
		tabActive: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			Padding(0, 2),
		tabInactive: lipgloss.NewStyle().
			Foreground(p.subtle).
			Padding(0, 2),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(0, 1),
		info:    lipgloss.NewStyle().Foreground(p.secondary),
		err:     lipgloss.NewStyle().Foreground(p.errColor),
		subtle:  lipgloss.NewStyle().Foreground(p.subtle),
		thought: lipgloss.NewStyle().Foreground(p.text).Italic(true),
	}
}
