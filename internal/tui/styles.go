package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spiffcs/gameshell/internal/assets"
	"github.com/spiffcs/gameshell/internal/lifecycle"
)

var (
	// Status icons
	iconPending  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("○")
	iconComplete = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("✓")
	iconError    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Width(10)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1).
			MarginTop(1)

	phaseBadge = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true)
)

var phaseColors = map[lifecycle.Phase]lipgloss.Color{
	lifecycle.Loading:     lipgloss.Color("220"),
	lifecycle.Ready:       lipgloss.Color("46"),
	lifecycle.Terminating: lipgloss.Color("196"),
}

// PhaseBadge renders the phase name as a colored badge.
func PhaseBadge(p lifecycle.Phase) string {
	return phaseBadge.
		Foreground(lipgloss.Color("0")).
		Background(phaseColors[p]).
		Render(p.String())
}

// StatusIcon returns the appropriate icon for an asset status.
func StatusIcon(status assets.Status, spinnerFrame string) string {
	switch status {
	case assets.StatusPending:
		return spinnerStyle.Render(spinnerFrame)
	case assets.StatusLoaded:
		return iconComplete
	case assets.StatusFailed:
		return iconError
	default:
		return iconPending
	}
}
