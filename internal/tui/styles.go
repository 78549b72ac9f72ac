package tui

import "github.com/charmbracelet/lipgloss"

var (
	appStyle = lipgloss.NewStyle().Foreground(colorText)

	headerAppStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Background(colorMantle)
	headerBarStyle = lipgloss.NewStyle().
			Background(colorMantle).
			Foreground(colorText)
	tabSepStyle = lipgloss.NewStyle().
			Foreground(colorBorder).
			Background(colorMantle)

	activeTabStyle = lipgloss.NewStyle().
			Background(colorSurface0).
			Foreground(colorAccent).
			Bold(true).
			Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().
				Background(colorMantle).
				Foreground(colorTabOff).
				Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Background(colorSurface0)
	statusErrBarStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Background(colorSurface0)
	footerStyle = lipgloss.NewStyle().
			Background(colorMantle)

	titleStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	busyStyle    = lipgloss.NewStyle().Foreground(colorWarning).Italic(true)
	badgeStyle   = lipgloss.NewStyle().
			Foreground(colorMantle).
			Background(colorAccent).
			Padding(0, 1)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorMantle).
			Background(colorAccent).
			Bold(true).
			Padding(0, 1)
	buttonOffStyle = lipgloss.NewStyle().
			Foreground(colorTabOff).
			Background(colorSurface0).
			Padding(0, 1)

	blockStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)
