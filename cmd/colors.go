package cmd

import "github.com/fatih/color"

// Shared palette for command output. These are variables so callers can
// disable or re-enable coloring at runtime (non-TTY output, tests).
var (
	colorHeading = color.New(color.FgWhite, color.Bold)
	colorLabel   = color.New(color.FgCyan, color.Faint)
	colorVisible = color.New(color.FgGreen, color.Bold)
	colorHidden  = color.New(color.FgYellow, color.Bold)
	colorNotes   = color.New(color.FgHiBlack)
	colorWarn    = color.New(color.FgYellow)
	colorError   = color.New(color.FgRed)
)

var defaultNoColor = color.NoColor

// DisableColors turns off ANSI sequences for every palette entry.
func DisableColors() {
	color.NoColor = true
}

// EnableColors restores the terminal detection done at startup.
func EnableColors() {
	color.NoColor = defaultNoColor
}

func stateColor(visible bool) *color.Color {
	if visible {
		return colorVisible
	}
	return colorHidden
}
