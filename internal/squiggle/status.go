package squiggle

// Indicator is a status sink owned by the caller, such as a TUI header.
type Indicator interface {
	SetText(string)
	SetTooltip(string)
}

const (
	TextVisible    = "Squiggles: visible"
	TextHidden     = "Squiggles: hidden"
	TooltipVisible = "Hide squiggles"
	TooltipHidden  = "Show squiggles"

	MessageRestored = "Squiggles restored to previous visibility."
	MessageHidden   = "Selected squiggles are now transparent."
	MessageFailed   = "An error occurred while toggling squiggle settings. Check logs for details."
)

// SetStatus updates ind for the given visibility. A nil ind is ignored.
func SetStatus(ind Indicator, visible bool) {
	if ind == nil {
		return
	}
	if visible {
		ind.SetText(TextVisible)
		ind.SetTooltip(TooltipVisible)
		return
	}
	ind.SetText(TextHidden)
	ind.SetTooltip(TooltipHidden)
}

// Message returns the transient status message after a toggle.
func Message(visible bool) string {
	if visible {
		return MessageRestored
	}
	return MessageHidden
}
