package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/diogo/askchat/internal/config"
	"github.com/diogo/askchat/internal/logging"
	"github.com/diogo/askchat/internal/render"
	"github.com/diogo/askchat/internal/tui"
)

func newChatCmd(deps *Dependencies, gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

Every message in the session shares one session id, so the service can
keep context between questions. Type 'exit', 'quit', or press Esc to end
the session. Type /help for chat commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, deps, *gf)
			if err != nil {
				return err
			}
			logger, closeLog := openLogger(deps, cfg)
			defer closeLog()

			return runChat(deps, cfg, logger)
		},
	}
}

func runChat(deps *Dependencies, cfg config.Config, logger *slog.Logger) error {
	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	logger = logging.WithSession(logger, client.Session().ID)
	logger.Info("chat started", "endpoint", client.Endpoint(), "theme", cfg.Theme)

	err = deps.TUI.RunChat(client,
		tui.WithLogger(logger),
		tui.WithTheme(cfg.Theme),
		tui.WithRenderOptions(render.OptionsFromConfig(cfg, 0)),
	)
	if err != nil {
		logger.Error("chat ended with error", "error", err)
		return err
	}
	logger.Info("chat ended")
	return nil
}
