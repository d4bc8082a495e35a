// Package config handles configuration loading for askchat.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	apierrors "github.com/diogo/askchat/internal/errors"
	"github.com/diogo/askchat/internal/models"
)

// EnvPrefix is the prefix of every environment override (ASKCHAT_BASE_URL, ...)
const EnvPrefix = "askchat"

// Theme names
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Enabled          bool   `json:"enabled"`            // Render replies as markdown instead of literal text
	Style            string `json:"style,omitempty"`    // glamour style override; empty follows the theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// BaseURL is the question-answering service; requests go to BaseURL + /ask
	BaseURL string `json:"base_url" validate:"required,http_url"`
	// TimeoutSeconds bounds each request. 0 waits until the request settles.
	TimeoutSeconds int `json:"timeout_seconds" validate:"gte=0"`
	// Proxy overrides the proxy picked from HTTP_PROXY/HTTPS_PROXY
	Proxy           string         `json:"proxy,omitempty" validate:"omitempty,url"`
	Theme           string         `json:"theme" validate:"oneof=dark light"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	LogFile         string         `json:"log_file,omitempty"`
	Markdown        MarkdownConfig `json:"markdown"`
}

// envOverrides mirrors the environment variables that may override the file
type envOverrides struct {
	BaseURL         string `envconfig:"BASE_URL"`
	TimeoutSeconds  *int   `envconfig:"TIMEOUT_SECONDS"`
	Proxy           string `envconfig:"PROXY"`
	Theme           string `envconfig:"THEME"`
	LogFile         string `envconfig:"LOG_FILE"`
	CopyToClipboard *bool  `envconfig:"COPY_TO_CLIPBOARD"`
	Markdown        *bool  `envconfig:"MARKDOWN"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:         models.DefaultBaseURL,
		TimeoutSeconds:  0,
		Theme:           ThemeDark,
		CopyToClipboard: false,
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Timeout returns the request timeout as a duration
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".askchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file from config, or the default inside the config directory
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "askchat.log"), nil
}

// LoadConfig loads the configuration file, falling back to defaults when absent
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads the configuration from an explicit path
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays ASKCHAT_* environment variables on cfg
func ApplyEnv(cfg Config) (Config, error) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return cfg, apierrors.NewConfigError("environment", err.Error())
	}

	if env.BaseURL != "" {
		cfg.BaseURL = env.BaseURL
	}
	if env.TimeoutSeconds != nil {
		cfg.TimeoutSeconds = *env.TimeoutSeconds
	}
	if env.Proxy != "" {
		cfg.Proxy = env.Proxy
	}
	if env.Theme != "" {
		cfg.Theme = env.Theme
	}
	if env.LogFile != "" {
		cfg.LogFile = env.LogFile
	}
	if env.CopyToClipboard != nil {
		cfg.CopyToClipboard = *env.CopyToClipboard
	}
	if env.Markdown != nil {
		cfg.Markdown.Enabled = *env.Markdown
	}

	return cfg, nil
}

// Validate checks cfg and reports the first invalid field
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apierrors.NewConfigError(fe.Field(), describe(fe))
	}
	return apierrors.NewConfigError("config", err.Error())
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "http_url", "url":
		return fmt.Sprintf("%q is not a valid http(s) URL", fe.Value())
	case "oneof":
		return fmt.Sprintf("%v must be one of: %s", fe.Value(), fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// Load builds the effective configuration: defaults, config file, .env and
// ASKCHAT_* environment, in increasing precedence. Command-line flags are
// applied by the caller afterwards.
func Load() (Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return cfg, err
	}

	_ = godotenv.Load()

	return ApplyEnv(cfg)
}
