package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name        string
	Ambient     lipgloss.Color
	Interactive lipgloss.Color
	Highlight   lipgloss.Color
	Outline     lipgloss.Color
	Background  lipgloss.Color
	Text        lipgloss.Color
	Muted       lipgloss.Color
	Accent      lipgloss.Color
}

// Available themes
var (
	ThemeNeon = Theme{
		Name:        "neon",
		Ambient:     lipgloss.Color("#ffffff"),
		Interactive: lipgloss.Color("#eaff01"),
		Highlight:   lipgloss.Color("#ff40a0"),
		Outline:     lipgloss.Color("#333344"),
		Background:  lipgloss.Color("#222222"),
		Text:        lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#666666"),
		Accent:      lipgloss.Color("#eaff01"),
	}

	ThemeMinimal = Theme{
		Name:        "minimal",
		Ambient:     lipgloss.Color("#888888"),
		Interactive: lipgloss.Color("#ffffff"),
		Highlight:   lipgloss.Color("#0088ff"),
		Outline:     lipgloss.Color("#333333"),
		Background:  lipgloss.Color("#1a1a1a"),
		Text:        lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#888888"),
		Accent:      lipgloss.Color("#0088ff"),
	}

	ThemeOcean = Theme{
		Name:        "ocean",
		Ambient:     lipgloss.Color("#4488aa"),
		Interactive: lipgloss.Color("#00ffcc"),
		Highlight:   lipgloss.Color("#ffd700"),
		Outline:     lipgloss.Color("#003355"),
		Background:  lipgloss.Color("#001a33"),
		Text:        lipgloss.Color("#e0f0ff"),
		Muted:       lipgloss.Color("#4488aa"),
		Accent:      lipgloss.Color("#ffd700"),
	}

	ThemeSunset = Theme{
		Name:        "sunset",
		Ambient:     lipgloss.Color("#8b6b8c"),
		Interactive: lipgloss.Color("#feca57"),
		Highlight:   lipgloss.Color("#ff6b6b"),
		Outline:     lipgloss.Color("#4a2d4b"),
		Background:  lipgloss.Color("#2d1b2e"),
		Text:        lipgloss.Color("#fff5f5"),
		Muted:       lipgloss.Color("#8b6b8c"),
		Accent:      lipgloss.Color("#ff9ff3"),
	}

	// All available themes
	Themes = []Theme{
		ThemeNeon,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNeon
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Styles maps canvas classes to foreground styles.
func (t Theme) Styles() map[Class]lipgloss.Style {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return map[Class]lipgloss.Style{
		ClassBackground:  fg(t.Background),
		ClassOutline:     fg(t.Outline),
		ClassAmbient:     fg(t.Ambient),
		ClassInteractive: fg(t.Interactive),
		ClassHighlight:   fg(t.Highlight).Bold(true),
	}
}
