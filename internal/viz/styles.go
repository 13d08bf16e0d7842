package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Popup panel; the border color follows the theme accent.
	PopupPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	PopupTitle = lipgloss.NewStyle().
			Bold(true)

	// Media kind badge
	Badge = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	// Hovered project name in the footer.
	StatusHover = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff40a0"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#eaff01"))

	StatusWarn = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7a7a8c"))
	MetricValue = MetricLabel.
			Foreground(lipgloss.Color("#f5f5f5"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)
)

// ProgressBar renders the remaining auto-dismiss time of a popup.
func ProgressBar(percent float64, width int, style lipgloss.Style) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return style.Render(strings.Repeat("━", filled)) + Subtle.Render(strings.Repeat("─", width-filled))
}

// Metric renders "label value" for the status line.
func Metric(label, value string) string {
	return MetricLabel.Render(label+" ") + MetricValue.Render(value)
}
