package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/MikeBiancalana/planit/internal/calendar"
)

// Theme names stored under storage.KeyTheme.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Palette is the set of colors one theme draws with.
type Palette struct {
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Accent   lipgloss.Color
	Border   lipgloss.Color
	Focus    lipgloss.Color
	Today    lipgloss.Color
	Selected lipgloss.Color
	Holiday  lipgloss.Color
	Success  lipgloss.Color
	Error    lipgloss.Color
	Tasks    map[calendar.Color]lipgloss.Color
}

var darkPalette = Palette{
	Text:     lipgloss.Color("252"),
	Muted:    lipgloss.Color("240"),
	Accent:   lipgloss.Color("205"),
	Border:   lipgloss.Color("238"),
	Focus:    lipgloss.Color("11"),
	Today:    lipgloss.Color("39"),
	Selected: lipgloss.Color("62"),
	Holiday:  lipgloss.Color("33"),
	Success:  lipgloss.Color("40"),
	Error:    lipgloss.Color("196"),
	Tasks: map[calendar.Color]lipgloss.Color{
		calendar.ColorBlue:   lipgloss.Color("33"),
		calendar.ColorGreen:  lipgloss.Color("34"),
		calendar.ColorRed:    lipgloss.Color("160"),
		calendar.ColorYellow: lipgloss.Color("220"),
		calendar.ColorPurple: lipgloss.Color("135"),
		calendar.ColorOrange: lipgloss.Color("208"),
	},
}

var lightPalette = Palette{
	Text:     lipgloss.Color("235"),
	Muted:    lipgloss.Color("245"),
	Accent:   lipgloss.Color("125"),
	Border:   lipgloss.Color("250"),
	Focus:    lipgloss.Color("130"),
	Today:    lipgloss.Color("25"),
	Selected: lipgloss.Color("153"),
	Holiday:  lipgloss.Color("26"),
	Success:  lipgloss.Color("28"),
	Error:    lipgloss.Color("160"),
	Tasks: map[calendar.Color]lipgloss.Color{
		calendar.ColorBlue:   lipgloss.Color("25"),
		calendar.ColorGreen:  lipgloss.Color("28"),
		calendar.ColorRed:    lipgloss.Color("124"),
		calendar.ColorYellow: lipgloss.Color("136"),
		calendar.ColorPurple: lipgloss.Color("91"),
		calendar.ColorOrange: lipgloss.Color("166"),
	},
}

// paletteFor returns the palette of theme; unknown names get the dark one.
func paletteFor(theme string) Palette {
	if theme == ThemeLight {
		return lightPalette
	}
	return darkPalette
}

func (p Palette) taskColor(c calendar.Color) lipgloss.Color {
	if col, ok := p.Tasks[c]; ok {
		return col
	}
	return p.Text
}
