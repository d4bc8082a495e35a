package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"

	"github.com/diogo/askchat/internal/api"
	"github.com/diogo/askchat/internal/config"
	"github.com/diogo/askchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(client api.ChatClientInterface, opts ...tui.ChatOption) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient builds the client for the configured service
	NewClient func(cfg config.Config, logger *slog.Logger) (api.ChatClientInterface, error)

	// LoadConfig returns the configuration before command-line flags are applied
	LoadConfig func() (config.Config, error)

	TUI       TUIInterface
	Clipboard func(string) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTTY reports whether stdout is a terminal
	IsTTY func() bool
	// StdinPiped reports whether stdin carries piped input
	StdinPiped func() bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(client api.ChatClientInterface, opts ...tui.ChatOption) error {
	return tui.RunChat(client, opts...)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient:  newAPIClient,
		LoadConfig: config.Load,
		TUI:        &DefaultTUI{},
		Clipboard:  clipboard.WriteAll,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		IsTTY:      isStdoutTTY,
		StdinPiped: stdinPiped,
	}
}

// newAPIClient creates the production client from cfg
func newAPIClient(cfg config.Config, logger *slog.Logger) (api.ChatClientInterface, error) {
	return api.NewClient(cfg.BaseURL,
		api.WithTimeout(cfg.Timeout()),
		api.WithProxy(cfg.Proxy),
		api.WithLogger(logger),
	)
}

// stdinPiped returns true when stdin is not a character device
func stdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
