package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the TUI interface
type TUITheme struct {
	Name        string
	Description string

	// Base colors
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color

	// Chat bubbles
	UserBubble lipgloss.Color
	AIBubble   lipgloss.Color
}

var (
	// DarkTheme follows the Tokyo Night palette
	DarkTheme = TUITheme{
		Name:        ThemeDark,
		Description: "Dark background, light text",

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),

		UserBubble: lipgloss.Color("#2f3b63"),
		AIBubble:   lipgloss.Color("#24283b"),
	}

	// LightTheme follows the Catppuccin Latte palette
	LightTheme = TUITheme{
		Name:        ThemeLight,
		Description: "Light background, dark text",

		Background: lipgloss.Color("#eff1f5"),
		Surface:    lipgloss.Color("#e6e9ef"),
		Border:     lipgloss.Color("#bcc0cc"),

		Primary:   lipgloss.Color("#1e66f5"),
		Secondary: lipgloss.Color("#40a02b"),
		Accent:    lipgloss.Color("#8839ef"),
		Warning:   lipgloss.Color("#df8e1d"),
		Error:     lipgloss.Color("#d20f39"),

		Text:     lipgloss.Color("#4c4f69"),
		TextDim:  lipgloss.Color("#8c8fa1"),
		TextMute: lipgloss.Color("#acb0be"),

		UserBubble: lipgloss.Color("#dce0e8"),
		AIBubble:   lipgloss.Color("#e6e9ef"),
	}
)

var (
	themeMu         sync.RWMutex
	currentTUITheme = DarkTheme
)

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTUITheme = theme
	themeMu.Unlock()
	return true
}

// ToggleTUITheme flips between dark and light and returns the new theme
func ToggleTUITheme() TUITheme {
	themeMu.Lock()
	defer themeMu.Unlock()
	next, _ := GetTUIThemeByName(ToggleTheme(currentTUITheme.Name))
	currentTUITheme = next
	return next
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	switch name {
	case ThemeDark:
		return DarkTheme, true
	case ThemeLight:
		return LightTheme, true
	default:
		return TUITheme{}, false
	}
}
