package tui

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	colorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			Background(colorBlue).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Bold(true).
				Foreground(colorBlue).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(colorBlue)

	unreadMarkStyle = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	previewStyle    = lipgloss.NewStyle().Foreground(colorGray).PaddingLeft(4)
	actionStyle     = lipgloss.NewStyle().Foreground(colorGreen).PaddingLeft(4)

	toastStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorGreen).
			Padding(0, 1)

	errorToastStyle = toastStyle.Background(colorRed)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorSubtle).
			Padding(0, 1)
)
