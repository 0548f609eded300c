package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette. ANSI 256 codes so the dashboard looks the same over SSH.
var (
	ColorText     = lipgloss.Color("255")
	ColorMuted    = lipgloss.Color("240")
	ColorTrino    = lipgloss.Color("39")
	ColorOK       = lipgloss.Color("42")
	ColorFail     = lipgloss.Color("196")
	ColorCaution  = lipgloss.Color("214")
	ColorSQLBlock = lipgloss.Color("236")
)

// Text
var (
	StyleDimmed  = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleBold    = lipgloss.NewStyle().Bold(true).Foreground(ColorText)
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(ColorTrino)
	StylePrompt  = lipgloss.NewStyle().Bold(true).Foreground(ColorTrino)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorOK)
	StyleError   = lipgloss.NewStyle().Bold(true).Foreground(ColorFail)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorCaution)

	StyleSelected    = lipgloss.NewStyle().Bold(true).Foreground(ColorTrino)
	StylePanelHeader = lipgloss.NewStyle().Bold(true).Foreground(ColorTrino)
	StyleSQL         = lipgloss.NewStyle().Foreground(ColorText).Background(ColorSQLBlock).Padding(0, 1)
)

// Chrome
var (
	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted)

	StyleTabActive   = lipgloss.NewStyle().Bold(true).Foreground(ColorTrino).Padding(0, 1)
	StyleTabInactive = lipgloss.NewStyle().Foreground(ColorMuted).Padding(0, 1)

	StyleStatusBar = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleHelpKey   = lipgloss.NewStyle().Bold(true).Foreground(ColorTrino)
	StyleHelpDesc  = lipgloss.NewStyle().Foreground(ColorMuted)
)

// Result tables
var (
	StyleTableHeader = lipgloss.NewStyle().Bold(true).Foreground(ColorTrino).Padding(0, 1)
	StyleTableCell   = lipgloss.NewStyle().Foreground(ColorText).Padding(0, 1)
)
