package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Warm palette
	sunGold     = lipgloss.Color("#F5B041")
	dawnOrange  = lipgloss.Color("#E67E22")
	leafGreen   = lipgloss.Color("#27AE60")
	skyBlue     = lipgloss.Color("#5DADE2")
	nightBg     = lipgloss.Color("#1B2631")
	panelBg     = lipgloss.Color("#212F3D")
	dimWhite    = lipgloss.Color("#B0B0B0")
	brightWhite = lipgloss.Color("#FFFFFF")
	alertRed    = lipgloss.Color("#E74C3C")

	logoStyle = lipgloss.NewStyle().
			Foreground(sunGold).
			Bold(true).
			Padding(1, 0, 0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(sunGold).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Background(sunGold).
			Foreground(nightBg).
			Bold(true).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(dimWhite).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(nightBg).
			Background(sunGold).
			Bold(true).
			Padding(0, 1)

	categoryStyle = lipgloss.NewStyle().
			Foreground(skyBlue).
			Bold(true).
			MarginTop(1)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(brightWhite)

	itemSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(sunGold).
				Bold(true)

	itemCompletedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(leafGreen)

	detailStyle = lipgloss.NewStyle().
			Foreground(dimWhite).
			PaddingLeft(4)

	statsLabelStyle = lipgloss.NewStyle().
			Foreground(skyBlue).
			Bold(true)

	statsValueStyle = lipgloss.NewStyle().
			Foreground(sunGold)

	toastStyle = lipgloss.NewStyle().
			Foreground(brightWhite).
			Background(leafGreen).
			Bold(true).
			Padding(0, 2)

	toastErrorStyle = toastStyle.
			Background(alertRed)

	confirmStyle = lipgloss.NewStyle().
			Foreground(dawnOrange).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(1, 0, 0, 2)
)
