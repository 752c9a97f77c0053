package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Design system colors, adaptive based on terminal background
var (
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorAccent    lipgloss.Color

	ColorSuccess lipgloss.Color
	ColorWarning lipgloss.Color
	ColorError   lipgloss.Color

	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color
	ColorTextDim   lipgloss.Color
	ColorBorder    lipgloss.Color
)

// initializeColors sets up adaptive colors based on terminal background
func initializeColors() {
	// Environment override
	if os.Getenv("GLAMOUR_STYLE") == "light" {
		setLightThemeColors()
		return
	}
	if os.Getenv("GLAMOUR_STYLE") == "dark" {
		setDarkThemeColors()
		return
	}

	if lipgloss.HasDarkBackground() {
		setDarkThemeColors()
	} else {
		setLightThemeColors()
	}
}

func setDarkThemeColors() {
	ColorPrimary = lipgloss.Color("205")
	ColorSecondary = lipgloss.Color("33")
	ColorAccent = lipgloss.Color("214")

	ColorSuccess = lipgloss.Color("10")
	ColorWarning = lipgloss.Color("11")
	ColorError = lipgloss.Color("9")

	ColorText = lipgloss.Color("252")
	ColorTextMuted = lipgloss.Color("244")
	ColorTextDim = lipgloss.Color("240")
	ColorBorder = lipgloss.Color("238")
}

func setLightThemeColors() {
	ColorPrimary = lipgloss.Color("125")
	ColorSecondary = lipgloss.Color("24")
	ColorAccent = lipgloss.Color("130")

	ColorSuccess = lipgloss.Color("22")
	ColorWarning = lipgloss.Color("136")
	ColorError = lipgloss.Color("160")

	ColorText = lipgloss.Color("232")
	ColorTextMuted = lipgloss.Color("240")
	ColorTextDim = lipgloss.Color("244")
	ColorBorder = lipgloss.Color("248")
}

// Shared styles, built after initializeColors runs
var (
	titleStyle    lipgloss.Style
	labelStyle    lipgloss.Style
	focusedStyle  lipgloss.Style
	blurredStyle  lipgloss.Style
	errorStyle    lipgloss.Style
	statusStyle   lipgloss.Style
	sectionStyle  lipgloss.Style
	responseStyle lipgloss.Style
	helpStyle     lipgloss.Style
	modalStyle    lipgloss.Style
)

func initializeStyles() {
	initializeColors()

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)

	labelStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted)

	focusedStyle = lipgloss.NewStyle().
		Foreground(ColorAccent)

	blurredStyle = lipgloss.NewStyle().
		Foreground(ColorTextDim)

	errorStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)

	statusStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)

	sectionStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	responseStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
		Foreground(ColorTextDim)

	modalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
}
