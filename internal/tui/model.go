package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/askchat/internal/api"
	apierrors "github.com/diogo/askchat/internal/errors"
	"github.com/diogo/askchat/internal/history"
	"github.com/diogo/askchat/internal/logging"
	"github.com/diogo/askchat/internal/models"
	"github.com/diogo/askchat/internal/render"
)

// Message types for the TUI. Each carries the id of the pending entry it settles.
type (
	responseMsg struct {
		id   string
		text string
	}
	errMsg struct {
		id  string
		err error
	}
	feedbackClearMsg struct {
		seq int
	}
)

const defaultFeedbackTimeout = 2 * time.Second

// Model represents the chat TUI state
type Model struct {
	client     api.ChatClientInterface
	transcript *history.Transcript
	logger     *slog.Logger
	copyText   func(string) error

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// Rendering
	theme      string
	renderOpts render.Options

	// selected is the id of the AI entry targeted by copy; empty follows the newest
	selected string

	// bubbles caches rendered settled entries; settled entries never change
	bubbles map[string]string

	feedback        string
	feedbackSeq     int
	feedbackTimeout time.Duration

	ready  bool
	width  int
	height int
}

// ChatOption configures the chat model
type ChatOption func(*Model)

// WithTranscript starts the chat from an existing transcript
func WithTranscript(t *history.Transcript) ChatOption {
	return func(m *Model) {
		if t != nil {
			m.transcript = t
		}
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger *slog.Logger) ChatOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClipboard replaces the system clipboard writer
func WithClipboard(write func(string) error) ChatOption {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}

// WithTheme sets the starting theme (dark or light)
func WithTheme(theme string) ChatOption {
	return func(m *Model) {
		if _, ok := render.GetTUIThemeByName(theme); ok {
			m.theme = theme
		}
	}
}

// WithRenderOptions sets the markdown options used for AI messages
func WithRenderOptions(opts render.Options) ChatOption {
	return func(m *Model) {
		m.renderOpts = opts
	}
}

// WithFeedbackTimeout sets how long status feedback stays visible
func WithFeedbackTimeout(d time.Duration) ChatOption {
	return func(m *Model) {
		m.feedbackTimeout = d
	}
}

// NewChatModel creates a new chat TUI model
func NewChatModel(client api.ChatClientInterface, opts ...ChatOption) Model {
	m := Model{
		client:          client,
		transcript:      history.NewTranscript(),
		logger:          logging.Discard(),
		copyText:        clipboard.WriteAll,
		theme:           render.ThemeDark,
		bubbles:         make(map[string]string),
		feedbackTimeout: defaultFeedbackTimeout,
	}
	for _, opt := range opts {
		opt(&m)
	}

	render.SetTUITheme(m.theme)
	UpdateTheme()
	if m.renderOpts.Style == "" {
		m.renderOpts = render.DefaultOptions().WithTheme(m.theme)
	}

	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()
	m.textarea = ta
	m.styleTextarea()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = loadingStyle
	m.spinner = s

	return m
}

func (m *Model) styleTextarea() {
	m.textarea.FocusedStyle.CursorLine = lipgloss.NewStyle()
	m.textarea.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	m.textarea.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	m.textarea.BlurredStyle = m.textarea.FocusedStyle
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Transcript returns the chat transcript
func (m Model) Transcript() *history.Transcript {
	return m.transcript
}

// Awaiting reports whether any submission is still waiting on the service
func (m Model) Awaiting() bool {
	return m.transcript.Awaiting()
}

// Theme returns the active theme name
func (m Model) Theme() string {
	return m.theme
}

// Input returns the current input text
func (m Model) Input() string {
	return m.textarea.Value()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 2
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		clear(m.bubbles)
		m.refresh(true)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.handleEnter()
		case "ctrl+p":
			m.moveSelection(-1)
			return m, nil
		case "ctrl+n":
			m.moveSelection(1)
			return m, nil
		case "ctrl+y":
			return m.copySelected()
		case "ctrl+t":
			return m.toggleTheme()
		case "pgup", "pgdown":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		// Input stays editable while requests are outstanding
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd

	case responseMsg:
		if err := m.transcript.Resolve(msg.id, msg.text); err != nil {
			m.logger.Warn("response for unknown entry", "entry_id", msg.id, "error", err)
		}
		m.refresh(true)
		return m, nil

	case errMsg:
		m.logger.Error("ask failed",
			"entry_id", msg.id,
			"error", msg.err,
			"status", apierrors.GetHTTPStatus(msg.err),
			"timeout", apierrors.IsTimeoutError(msg.err),
		)
		if err := m.transcript.Fail(msg.id); err != nil {
			m.logger.Warn("failure for unknown entry", "entry_id", msg.id, "error", err)
		}
		m.refresh(true)
		return m, nil

	case feedbackClearMsg:
		if msg.seq == m.feedbackSeq {
			m.feedback = ""
		}
		return m, nil

	case spinner.TickMsg:
		if m.transcript.Awaiting() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			m.refresh(false)
		}
		return m, tea.Batch(cmds...)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleEnter submits the input, or runs it as an exit word or chat command
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	raw := m.textarea.Value()
	input := strings.TrimSpace(raw)
	if input == "" {
		return m, nil
	}

	switch input {
	case "exit", "quit", "/exit", "/quit":
		return m, tea.Quit
	}

	if name, arg, ok := parseCommand(input); ok {
		m.textarea.Reset()
		return m.runCommand(name, arg)
	}

	return m.submit(raw)
}

// submit appends the user entry and its pending reply, then asks the service
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	_, pending, ok := m.transcript.Submit(text)
	if !ok {
		return m, nil
	}
	m.textarea.Reset()
	m.refresh(true)

	m.logger.Debug("submitted", "entry_id", pending.ID, "pending", m.transcript.PendingCount())

	return m, tea.Batch(
		m.ask(pending.ID, text),
		m.spinner.Tick,
	)
}

// ask creates a command that sends one question and settles entry id
func (m Model) ask(id, query string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := logging.WithEntryID(context.Background(), id)
		answer, err := client.Ask(ctx, query)
		if err != nil {
			return errMsg{id: id, err: err}
		}
		return responseMsg{id: id, text: answer}
	}
}

// setFeedback shows a transient status line and schedules its removal
func (m *Model) setFeedback(text string) tea.Cmd {
	m.feedbackSeq++
	m.feedback = text
	seq := m.feedbackSeq
	return tea.Tick(m.feedbackTimeout, func(time.Time) tea.Msg {
		return feedbackClearMsg{seq: seq}
	})
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	var sections []string

	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render(models.ChatTitle),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.client.Endpoint()),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View()))

	inputContent := lipgloss.JoinVertical(lipgloss.Left,
		inputLabelStyle.Render("You"),
		m.textarea.View(),
	)
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render("  "+m.feedback))
	}
	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"^P/^N", "Select"},
		{"^Y", "Copy"},
		{"^T", "Theme"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	if n := m.transcript.PendingCount(); n > 1 {
		items = append(items, loadingStyle.Render(fmt.Sprintf("%d waiting", n)))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// refresh re-renders the transcript into the viewport. follow scrolls to the
// newest entry; otherwise the scroll position is kept.
func (m *Model) refresh(follow bool) {
	if !m.ready {
		return
	}
	if m.bubbles == nil {
		m.bubbles = make(map[string]string)
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 10
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}
	selectedID := m.selectedID()

	for i, msg := range m.transcript.Entries() {
		if i > 0 {
			content.WriteString("\n")
		}
		if msg.IsPending() {
			content.WriteString(m.renderBubble(msg, bubbleWidth, false))
			continue
		}

		selected := msg.ID == selectedID
		key := fmt.Sprintf("%s|%t", msg.ID, selected)
		bubble, ok := m.bubbles[key]
		if !ok {
			bubble = m.renderBubble(msg, bubbleWidth, selected)
			m.bubbles[key] = bubble
		}
		content.WriteString(bubble)
	}

	offset := m.viewport.YOffset
	m.viewport.SetContent(content.String())
	if follow {
		m.viewport.GotoBottom()
	} else {
		m.viewport.SetYOffset(offset)
	}
}

// renderBubble draws one entry with its label
func (m *Model) renderBubble(msg models.Message, width int, selected bool) string {
	var b strings.Builder

	if msg.Sender == models.SenderUser {
		b.WriteString(userLabelStyle.Render("You") + "\n")
		b.WriteString(userBubbleStyle.Width(width).Render(msg.Text))
		b.WriteString("\n")
		return b.String()
	}

	label := "AI"
	bubble := assistantBubbleStyle
	if selected {
		label = "AI ▸ selected"
		bubble = selectedBubbleStyle
	}
	b.WriteString(assistantLabelStyle.Render(label) + "\n")

	var body string
	switch msg.State {
	case models.StatePending:
		body = m.spinner.View() + " " + typingStyle.Render(models.TypingText)
	case models.StateFailed:
		body = failedTextStyle.Render(msg.Text)
	default:
		body = render.Answer(msg.Text, m.renderOpts.WithWidth(width-4))
	}
	b.WriteString(bubble.Width(width).Render(body))
	b.WriteString("\n")
	return b.String()
}

// RunChat starts the chat TUI
func RunChat(client api.ChatClientInterface, opts ...ChatOption) error {
	m := NewChatModel(client, opts...)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
