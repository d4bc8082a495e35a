package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/diogo/askchat/internal/config"
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd(deps *Dependencies, gf *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the configuration askchat would use, after the config file,
ASKCHAT_* environment variables and command-line flags are applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, deps, *gf)
			if err != nil {
				return err
			}
			printConfigTable(deps, cfg)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, path)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
			}

			cfg, err := resolveConfig(cmd, deps, *gf)
			if err != nil {
				return err
			}
			if err := config.SaveConfig(cfg); err != nil {
				return err
			}
			fmt.Fprintf(deps.Stdout, "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	cmd.AddCommand(initCmd)

	return cmd
}

// printConfigTable renders cfg as a Setting / Value / Env table
func printConfigTable(deps *Dependencies, cfg config.Config) {
	timeout := "none"
	if cfg.TimeoutSeconds > 0 {
		timeout = cfg.Timeout().String()
	}
	logPath, err := config.GetLogPath(cfg)
	if err != nil {
		logPath = "-"
	}
	style := cfg.Markdown.Style
	if style == "" {
		style = "(follows theme)"
	}

	table := tablewriter.NewWriter(deps.Stdout)
	table.SetHeader([]string{"Setting", "Value", "Env"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)

	table.Append([]string{"base_url", cfg.BaseURL, "ASKCHAT_BASE_URL"})
	table.Append([]string{"timeout", timeout, "ASKCHAT_TIMEOUT_SECONDS"})
	table.Append([]string{"proxy", valueOrDash(cfg.Proxy), "ASKCHAT_PROXY"})
	table.Append([]string{"theme", cfg.Theme, "ASKCHAT_THEME"})
	table.Append([]string{"copy_to_clipboard", strconv.FormatBool(cfg.CopyToClipboard), "ASKCHAT_COPY_TO_CLIPBOARD"})
	table.Append([]string{"log_file", logPath, "ASKCHAT_LOG_FILE"})
	table.Append([]string{"markdown.enabled", strconv.FormatBool(cfg.Markdown.Enabled), "ASKCHAT_MARKDOWN"})
	table.Append([]string{"markdown.style", style, "GLAMOUR_STYLE"})
	table.Render()
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
