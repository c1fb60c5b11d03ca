// Package tui provides the interactive terminal interface for escritorio.
//
// The interface is a Bubble Tea program rendering the application store's
// snapshot: a changed-files pane with per-file include state, a diff pane
// with per-line selection, and a header showing branch position. All
// colors use AdaptiveColor for light/dark terminal support.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

//nolint:gochecknoglobals // Package-level styling API
var (
	// ColorPrimary is blue, used for the active pane and the cursor row.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorAdded is green, used for added diff lines and clean state.
	ColorAdded = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorRemoved is red, used for deleted diff lines and errors.
	ColorRemoved = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorWarning is yellow, used for pending remote activity.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorMuted is gray, used for hunk headers and secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	footerStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	errorStyle = lipgloss.NewStyle().Foreground(ColorRemoved)

	pendingStyle = lipgloss.NewStyle().Foreground(ColorWarning)

	cursorRowStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	addedLineStyle = lipgloss.NewStyle().Foreground(ColorAdded)

	removedLineStyle = lipgloss.NewStyle().Foreground(ColorRemoved)

	hunkHeaderStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	focusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	blurredBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorMuted)
)

// paneStyle returns the border style for a pane given its focus state.
func paneStyle(focused bool) lipgloss.Style {
	if focused {
		return focusedBorderStyle
	}
	return blurredBorderStyle
}
