package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dashboard colors. Keys accepted by SetTheme are given in brackets.
var (
	ColorText    = lipgloss.Color("#E6E6E6") // [text]
	ColorBar     = lipgloss.Color("#1F2430") // [bar]
	ColorDim     = lipgloss.Color("#7A8490") // [dim]
	ColorCursor  = lipgloss.Color("#7FB4FF") // [cursor]
	ColorVisible = lipgloss.Color("#78D38D") // [visible]
	ColorHidden  = lipgloss.Color("#FFCC66") // [hidden]
	ColorFailure = lipgloss.Color("#FF6C6B") // [failure]
	ColorFrame   = lipgloss.Color("#3A3F4B") // [frame]
)

var (
	barStyle      lipgloss.Style
	titleStyle    lipgloss.Style
	visibleStyle  lipgloss.Style
	hiddenStyle   lipgloss.Style
	frameStyle    lipgloss.Style
	labelStyle    lipgloss.Style
	dimStyle      lipgloss.Style
	rowStyle      lipgloss.Style
	cursorStyle   lipgloss.Style
	checkedStyle  lipgloss.Style
	failureStyle  lipgloss.Style
	positiveStyle lipgloss.Style
)

func init() { buildStyles() }

func buildStyles() {
	barStyle = lipgloss.NewStyle().Foreground(ColorText).Background(ColorBar).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	visibleStyle = lipgloss.NewStyle().Foreground(ColorVisible).Bold(true)
	hiddenStyle = lipgloss.NewStyle().Foreground(ColorHidden).Bold(true)
	frameStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorFrame).
		Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(ColorCursor).Bold(true)
	dimStyle = lipgloss.NewStyle().Foreground(ColorDim)
	rowStyle = lipgloss.NewStyle().Foreground(ColorText).PaddingLeft(1)
	cursorStyle = lipgloss.NewStyle().Foreground(ColorBar).Background(ColorCursor).Bold(true).PaddingLeft(1)
	checkedStyle = lipgloss.NewStyle().Foreground(ColorVisible)
	failureStyle = lipgloss.NewStyle().Foreground(ColorFailure).Bold(true)
	positiveStyle = lipgloss.NewStyle().Foreground(ColorVisible)
}

// SetTheme overrides dashboard colors from the tui.theme config map. Unknown
// keys and blank values are ignored.
func SetTheme(colors map[string]string) {
	slots := map[string]*lipgloss.Color{
		"text":    &ColorText,
		"bar":     &ColorBar,
		"dim":     &ColorDim,
		"cursor":  &ColorCursor,
		"visible": &ColorVisible,
		"hidden":  &ColorHidden,
		"failure": &ColorFailure,
		"frame":   &ColorFrame,
	}
	for k, v := range colors {
		if dst, ok := slots[strings.ToLower(k)]; ok && strings.TrimSpace(v) != "" {
			*dst = lipgloss.Color(strings.TrimSpace(v))
		}
	}
	buildStyles()
}

// renderBar draws the top line: the program name on the left and the
// indicator text on the right, colored by visibility.
func renderBar(status string, visible bool, width int) string {
	left := titleStyle.Render("squiggles")
	right := hiddenStyle.Render(status)
	if visible {
		right = visibleStyle.Render(status)
	}
	gap := max(1, width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	return barStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderOptions draws the option rows inside a frame, highlighting the row
// under the cursor.
func renderOptions(rs []row, on func(row) bool, cursor int) string {
	lines := make([]string, len(rs))
	for i, r := range rs {
		box := "[ ]"
		if on(r) {
			box = "[x]"
		}
		if i == cursor {
			lines[i] = cursorStyle.Render(box + " " + r.label)
			continue
		}
		if on(r) {
			box = checkedStyle.Render(box)
		}
		lines[i] = rowStyle.Render(box + " " + r.label)
	}
	return labelStyle.Render("Settings") + "\n" + frameStyle.Render(strings.Join(lines, "\n"))
}

// renderFacts draws aligned "name: value" lines.
func renderFacts(facts [][2]string) string {
	w := 0
	for _, f := range facts {
		w = max(w, lipgloss.Width(f[0]))
	}
	lines := make([]string, len(facts))
	for i, f := range facts {
		lines[i] = labelStyle.Render(f[0]) + strings.Repeat(" ", w-lipgloss.Width(f[0])) + ": " + dimStyle.Render(f[1])
	}
	return strings.Join(lines, "\n")
}

// renderFlash draws the last controller message or error.
func renderFlash(msg string, failed bool) string {
	switch {
	case msg == "":
		return ""
	case failed:
		return failureStyle.Render("✗ ") + msg
	default:
		return positiveStyle.Render("✓ ") + msg
	}
}
