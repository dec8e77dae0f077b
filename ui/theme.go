package ui

import "github.com/charmbracelet/lipgloss"

// Rosé Pine Moon palette
// https://rosepinetheme.com/palette/
var (
	// Base tones
	ColorBase    = lipgloss.Color("#232136")
	ColorSurface = lipgloss.Color("#2a273f")
	ColorOverlay = lipgloss.Color("#393552")
	ColorMuted   = lipgloss.Color("#6e6a86")
	ColorSubtle  = lipgloss.Color("#908caa")
	ColorText    = lipgloss.Color("#e0def4")

	// Semantic colors
	ColorLove = lipgloss.Color("#eb6f92") // errors
	ColorGold = lipgloss.Color("#f6c177") // new mail, tagged count
	ColorRose = lipgloss.Color("#ea9a97") // secondary accents
	ColorFoam = lipgloss.Color("#9ccfd8") // informational messages
	ColorIris = lipgloss.Color("#c4a7e7") // cursor row, highlights
)
