package browse

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#B7410E", Dark: "#F5A97F"}
	muted  = lipgloss.AdaptiveColor{Light: "#6C6F85", Dark: "#8087A2"}
	good   = lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6DA95"}
	warn   = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#EED49F"}
	bad    = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#ED8796"}

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(accent)
	subtitleStyle  = lipgloss.NewStyle().Foreground(muted)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(muted)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(accent)
	headerStyle    = lipgloss.NewStyle().Bold(true)
	nameStyle      = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(muted)
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle     = lipgloss.NewStyle().Bold(true).Width(15)
	safeStyle      = lipgloss.NewStyle().Foreground(good)
	warningStyle   = lipgloss.NewStyle().Foreground(warn)
	errorStyle     = lipgloss.NewStyle().Foreground(bad)
	promptStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	statusStyle    = lipgloss.NewStyle().Foreground(muted).Italic(true)
)
