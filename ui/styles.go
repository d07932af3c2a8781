package ui

import "github.com/charmbracelet/lipgloss"

var (
	mintGreen = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}
	dimGray   = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ECFD65")).
			Bold(true)

	// Karaoke word states.
	pastWordStyle = lipgloss.NewStyle().
			Foreground(darkGreen)

	currentWordStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(mintGreen).
				Bold(true)

	futureWordStyle = lipgloss.NewStyle()

	contextSentenceStyle = lipgloss.NewStyle().
				Foreground(dimGray)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}).
			Background(lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"})

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	flashStyle = lipgloss.NewStyle().
			Foreground(mintGreen)
)
