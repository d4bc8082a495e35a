package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/askchat/internal/config"
	apierrors "github.com/diogo/askchat/internal/errors"
	"github.com/diogo/askchat/internal/logging"
	"github.com/diogo/askchat/internal/models"
	"github.com/diogo/askchat/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"),
	lipgloss.Color("#feca57"),
	lipgloss.Color("#48dbfb"),
	lipgloss.Color("#ff9ff3"),
	lipgloss.Color("#54a0ff"),
	lipgloss.Color("#5f27cd"),
	lipgloss.Color("#00d2d3"),
	lipgloss.Color("#1dd1a1"),
}

var (
	colorSuccess = lipgloss.Color("#9ece6a")
	colorFailure = lipgloss.Color("#f7768e")
)

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

// newSpinner creates a new animated spinner writing to out
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	theme := render.GetTUITheme()

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(theme.TextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(theme.Text).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.out, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner and clears the line
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runQuery sends a single question and prints the answer. When stdout is not
// a terminal only the raw answer text is written.
func runQuery(ctx context.Context, deps *Dependencies, cfg config.Config, logger *slog.Logger, question, outputPath string) error {
	if strings.TrimSpace(question) == "" {
		return apierrors.ErrEmptyQuery
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rawOutput := !deps.IsTTY()
	render.SetTUITheme(cfg.Theme)

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	logger = logging.WithSession(logger, client.Session().ID)

	var spin *spinner
	if !rawOutput {
		spin = newSpinner(deps.Stderr, models.TypingText)
		spin.start()
	}

	start := time.Now()
	answer, err := client.Ask(ctx, question)
	if err != nil {
		logger.Error("query failed", "error", err, "duration", time.Since(start))
		if rawOutput {
			fmt.Fprintln(deps.Stderr, models.FailureText)
		} else {
			spin.stopWithError()
			fmt.Fprintln(deps.Stdout, printAnswerBubble(cfg, failureStyle().Render(models.FailureText)))
			fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Request failed"))
		}
		return fmt.Errorf("query failed: %w", err)
	}
	logger.Info("query completed", "duration", time.Since(start), "answer_bytes", len(answer))

	if rawOutput {
		if outputPath != "" {
			return writeOutput(outputPath, answer)
		}
		fmt.Fprint(deps.Stdout, answer)
		return nil
	}

	spin.stopWithSuccess("Done")

	if cfg.CopyToClipboard {
		if err := deps.Clipboard(answer); err != nil {
			logger.Warn("clipboard write failed", "error", err)
			warn := lipgloss.NewStyle().Foreground(render.GetTUITheme().Warning)
			fmt.Fprintln(deps.Stderr, warn.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if outputPath != "" {
		if err := writeOutput(outputPath, answer); err != nil {
			return err
		}
		fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Response saved to %s", outputPath),
		))
		return nil
	}

	contentWidth := bubbleWidth() - 4
	rendered := render.Answer(answer, render.OptionsFromConfig(cfg, contentWidth))
	fmt.Fprintln(deps.Stdout, printAnswerBubble(cfg, rendered))

	return nil
}

// printAnswerBubble frames content the way the chat shows AI messages
func printAnswerBubble(cfg config.Config, content string) string {
	theme, ok := render.GetTUIThemeByName(cfg.Theme)
	if !ok {
		theme = render.DarkTheme
	}

	label := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("AI")
	bubble := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Foreground(theme.Text).
		Padding(0, 1).
		Width(bubbleWidth()).
		Render(content)

	return label + "\n" + bubble
}

func failureStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorFailure)
}

func writeOutput(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// bubbleWidth clamps the terminal width to a readable range
func bubbleWidth() int {
	width := getTerminalWidth() - 4
	if width < 40 {
		width = 40
	}
	if width > 120 {
		width = 120
	}
	return width
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	dimStyle := lipgloss.NewStyle().Foreground(render.GetTUITheme().TextDim)

	var sb strings.Builder
	sb.WriteString(failureStyle().Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := apierrors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
		return sb.String()
	}

	switch {
	case apierrors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or raise --timeout"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check that the service is running and --endpoint is correct"))
	case apierrors.IsParseError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The service replied without a \"response\" text field"))
	}

	return sb.String()
}
