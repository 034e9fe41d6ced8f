package cmd

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorError   = lipgloss.Color("#EF4444")
	colorAccent  = lipgloss.Color("#10B981")
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	MutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	OkStyle    = lipgloss.NewStyle().Foreground(colorAccent)
)
