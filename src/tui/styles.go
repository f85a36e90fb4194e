package tui

import "github.com/charmbracelet/lipgloss"

// Styles for the monitor
var (
	// Header style - bold and visually distinct
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).  // Bright blue
			Background(lipgloss.Color("236")). // Dark gray
			Padding(0, 1)

	// Watermark line style
	watermarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")). // Bright green
			Padding(0, 1)

	// Empty-store placeholder style
	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")). // Gray
			Padding(1, 1)

	// Error style for store failures
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true).
			Padding(0, 1)

	// Help text style
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")). // Dark gray
			Padding(0, 1)
)
