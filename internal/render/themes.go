package render

import (
	"github.com/charmbracelet/glamour/styles"
)

// Chat themes. Each maps onto a glamour standard style and a TUI palette.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// GlamourStyleFor returns the glamour style used for a chat theme
func GlamourStyleFor(theme string) string {
	if theme == ThemeLight {
		return styles.LightStyle
	}
	return styles.DarkStyle
}

// ToggleTheme returns the theme the toggle switches to
func ToggleTheme(theme string) string {
	if theme == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// IsBuiltinStyle reports whether style names one of glamour's standard styles
// rather than a path to a JSON style file.
func IsBuiltinStyle(style string) bool {
	_, ok := styles.DefaultStyles[style]
	return ok
}

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes returns the chat themes
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeDark, Description: "Dark theme (default)"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
	}
}
