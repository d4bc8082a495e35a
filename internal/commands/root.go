// Package commands provides CLI commands for askchat.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/diogo/askchat/internal/config"
	"github.com/diogo/askchat/internal/logging"
	"github.com/diogo/askchat/internal/render"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags override the loaded configuration
type globalFlags struct {
	endpoint string
	theme    string
	timeout  int
	logFile  string
}

// queryFlags apply to one-shot queries
type queryFlags struct {
	output string
	file   string
}

// NewRootCmd creates the askchat command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	var gf globalFlags
	var qf queryFlags

	rootCmd := &cobra.Command{
		Use:   "askchat [question]",
		Short: "Terminal chat client for a question-answering service",
		Long: `askchat talks to a question-answering service over HTTP. Every
message is posted to {base_url}/ask together with a session id that stays
the same for the whole run.

Examples:
  askchat                               Start interactive chat
  askchat chat                          Start interactive chat
  askchat "Where is my order?"          Ask a single question
  askchat -f question.md                Read the question from a file
  cat question.md | askchat             Read the question from stdin
  askchat "Hello" -o answer.md          Save the answer to a file
  askchat -e https://support.example.com "Hi"
  askchat config                        Show the effective configuration`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "askchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			question, hasQuestion, err := readQuestion(deps, qf, args)
			if err != nil {
				return err
			}

			cfg, err := resolveConfig(cmd, deps, gf)
			if err != nil {
				return err
			}
			logger, closeLog := openLogger(deps, cfg)
			defer closeLog()

			if hasQuestion {
				return runQuery(cmd.Context(), deps, cfg, logger, question, qf.output)
			}
			if deps.IsTTY() {
				return runChat(deps, cfg, logger)
			}
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&gf.endpoint, "endpoint", "e", "", "Base URL of the service (default from config)")
	pf.StringVar(&gf.theme, "theme", "", "Color theme: "+themeNames())
	pf.IntVar(&gf.timeout, "timeout", 0, "Request timeout in seconds (0 waits indefinitely)")
	pf.StringVar(&gf.logFile, "log-file", "", "Write diagnostic logs to this file")

	rootCmd.Flags().StringVarP(&qf.output, "output", "o", "", "Save answer to file")
	rootCmd.Flags().StringVarP(&qf.file, "file", "f", "", "Read question from file")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(newChatCmd(deps, &gf))
	rootCmd.AddCommand(NewConfigCmd(deps, &gf))

	rootCmd.SetIn(deps.Stdin)
	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd(NewDependencies())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// themeNames lists the selectable themes for flag help
func themeNames() string {
	names := lo.Map(render.AvailableThemes(), func(t render.ThemeInfo, _ int) string {
		return t.Name
	})
	return strings.Join(names, ", ")
}

// readQuestion picks the one-shot question from --file, piped stdin or the argument
func readQuestion(deps *Dependencies, qf queryFlags, args []string) (string, bool, error) {
	if qf.file != "" {
		data, err := os.ReadFile(qf.file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	if deps.StdinPiped() {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	return "", false, nil
}

// resolveConfig loads file and environment settings and applies the flags the user set
func resolveConfig(cmd *cobra.Command, deps *Dependencies, gf globalFlags) (config.Config, error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.BaseURL = gf.endpoint
	}
	if flags.Changed("theme") {
		cfg.Theme = gf.theme
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = gf.timeout
	}
	if flags.Changed("log-file") {
		cfg.LogFile = gf.logFile
	}

	if err := config.Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openLogger opens the diagnostic log. A log that cannot be opened is
// reported once and replaced by a discarding logger.
func openLogger(deps *Dependencies, cfg config.Config) (*slog.Logger, func()) {
	path, err := config.GetLogPath(cfg)
	if err == nil {
		var logger *slog.Logger
		var closer io.Closer
		logger, closer, err = logging.New(path, slog.LevelInfo)
		if err == nil {
			return logger, func() { _ = closer.Close() }
		}
	}

	fmt.Fprintf(deps.Stderr, "Warning: logging disabled: %v\n", err)
	return logging.Discard(), func() {}
}
