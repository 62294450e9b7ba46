package tui

import "github.com/charmbracelet/lipgloss"

// Status light colors.
var (
	colorMounted   = lipgloss.Color("#4CAF50")
	colorBusy      = lipgloss.Color("#FFC107")
	colorUnmounted = lipgloss.Color("#F44336")

	colorWhite = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim   = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			Background(lipgloss.AdaptiveColor{Light: "252", Dark: "236"}).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	remoteStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim)
)
