package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/diogo/askchat/internal/history"
	"github.com/diogo/askchat/internal/models"
	"github.com/diogo/askchat/internal/render"
)

// helpText lists the inputs handled locally; they are never sent as questions
const helpText = "Local, not sent: /copy  /theme  /export <file>  /help  exit  quit   •   ^P/^N select  ^Y copy  ^T theme"

// chatCommands are the slash commands handled locally instead of being sent
var chatCommands = map[string]bool{
	"/copy":   true,
	"/theme":  true,
	"/export": true,
	"/help":   true,
}

// parseCommand splits "/name arg" when name is a chat command.
// Anything else, including unknown slash words, is sent as a question.
func parseCommand(input string) (name, arg string, ok bool) {
	if !strings.HasPrefix(input, "/") {
		return "", "", false
	}
	name, arg, _ = strings.Cut(input, " ")
	if !chatCommands[name] {
		return "", "", false
	}
	return name, strings.TrimSpace(arg), true
}

func (m Model) runCommand(name, arg string) (tea.Model, tea.Cmd) {
	switch name {
	case "/copy":
		return m.copySelected()
	case "/theme":
		return m.toggleTheme()
	case "/export":
		return m.export(arg)
	default:
		return m, m.setFeedback(helpText)
	}
}

// selectedID resolves the copy target; an empty selection follows the newest AI entry
func (m Model) selectedID() string {
	copyable := m.transcript.Copyable()
	if len(copyable) == 0 {
		return ""
	}
	if _, ok := lo.Find(copyable, func(msg models.Message) bool { return msg.ID == m.selected }); ok {
		return m.selected
	}
	return copyable[len(copyable)-1].ID
}

// moveSelection steps the copy target through AI entries; delta < 0 moves to older ones
func (m *Model) moveSelection(delta int) {
	copyable := m.transcript.Copyable()
	if len(copyable) == 0 {
		return
	}

	current := m.selectedID()
	_, idx, _ := lo.FindIndexOf(copyable, func(msg models.Message) bool { return msg.ID == current })
	idx = lo.Clamp(idx+delta, 0, len(copyable)-1)

	if idx == len(copyable)-1 {
		m.selected = ""
	} else {
		m.selected = copyable[idx].ID
	}
	m.refresh(false)
}

// copySelected writes the selected AI entry's literal text to the clipboard
func (m Model) copySelected() (tea.Model, tea.Cmd) {
	id := m.selectedID()
	msg, ok := m.transcript.Get(id)
	if id == "" || !ok {
		return m, m.setFeedback("Nothing to copy yet")
	}

	if err := m.copyText(msg.Text); err != nil {
		m.logger.Error("clipboard write failed", "entry_id", id, "error", err)
		return m, m.setFeedback(fmt.Sprintf("Failed to copy: %v", err))
	}
	return m, m.setFeedback("✓ Copied to clipboard")
}

// toggleTheme flips dark/light for both the palette and markdown style
func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	theme := render.ToggleTUITheme()
	UpdateTheme()
	render.ClearCache()
	m.theme = theme.Name
	m.renderOpts = m.renderOpts.WithTheme(m.theme)
	m.spinner.Style = loadingStyle
	m.styleTextarea()
	clear(m.bubbles)
	m.refresh(false)

	return m, m.setFeedback("Theme: " + m.theme)
}

// export writes the settled transcript to path
func (m Model) export(path string) (tea.Model, tea.Cmd) {
	if path == "" {
		return m, m.setFeedback("Usage: /export <file.md|file.json>")
	}

	opts := history.DefaultExportOptions()
	opts.SessionID = m.client.Session().ID
	if err := m.transcript.ExportToFile(path, opts); err != nil {
		m.logger.Error("export failed", "path", path, "error", err)
		return m, m.setFeedback(fmt.Sprintf("Export failed: %v", err))
	}
	return m, m.setFeedback("Exported to " + path)
}
