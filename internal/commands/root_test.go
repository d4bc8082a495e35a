package commands

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/diogo/askchat/internal/api"
	"github.com/diogo/askchat/internal/config"
	apierrors "github.com/diogo/askchat/internal/errors"
)

func TestRootCommand_Help(t *testing.T) {
	cmd := NewRootCmd(newTestEnv(t).deps)
	if cmd.Use != "askchat [question]" {
		t.Errorf("Expected use 'askchat [question]', got %s", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("descriptions should not be empty")
	}
	if cmd.Args == nil {
		t.Error("Args validation should be configured")
	}

	for _, name := range []string{"chat", "config"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("expected %s subcommand", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	for _, flag := range []string{"-v", "--version"} {
		t.Run(flag, func(t *testing.T) {
			env := newTestEnv(t)
			if err := env.run(flag); err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			assertContains(t, env.stdout.String(), "askchat "+Version)
			if len(env.client.Queries()) != 0 {
				t.Error("version must not contact the service")
			}
		})
	}
}

func TestRootCommand_TooManyArgs(t *testing.T) {
	env := newTestEnv(t)
	if err := env.run("one", "two"); err == nil {
		t.Error("expected error for two positional arguments")
	}
}

func TestRootCommand_OneShotRaw(t *testing.T) {
	env := newTestEnv(t)
	env.client.AskVal = "It ships today."

	if err := env.run("Where is my order?"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if got := env.stdout.String(); got != "It ships today." {
		t.Errorf("stdout = %q, want the raw answer", got)
	}
	queries := env.client.Queries()
	if len(queries) != 1 || queries[0] != "Where is my order?" {
		t.Errorf("queries = %v", queries)
	}
}

func TestRootCommand_FileInput(t *testing.T) {
	env := newTestEnv(t)
	env.client.AskVal = "ok"

	path := filepath.Join(t.TempDir(), "question.md")
	if err := os.WriteFile(path, []byte("# Refund\nHow long?\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := env.run("-f", path); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if q := env.client.Queries(); len(q) != 1 || q[0] != "# Refund\nHow long?\n" {
		t.Errorf("queries = %q", q)
	}
}

func TestRootCommand_MissingFile(t *testing.T) {
	env := newTestEnv(t)
	err := env.run("-f", filepath.Join(t.TempDir(), "missing.md"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	assertContains(t, err.Error(), "failed to read file")
}

func TestRootCommand_PipedStdinIsSentUntrimmed(t *testing.T) {
	env := newTestEnv(t)
	env.piped = true
	env.stdin.WriteString("  hello there\n")
	env.client.AskVal = "hi"

	if err := env.run(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if q := env.client.Queries(); len(q) != 1 || q[0] != "  hello there\n" {
		t.Errorf("queries = %q", q)
	}
	if env.tui.calls != 0 {
		t.Error("piped input must not start the chat")
	}
}

func TestRootCommand_BlankQuestion(t *testing.T) {
	env := newTestEnv(t)
	err := env.run("   ")
	if !errors.Is(err, apierrors.ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
	if len(env.client.Queries()) != 0 {
		t.Error("blank question must not be sent")
	}
}

func TestRootCommand_StartsChatOnTerminal(t *testing.T) {
	env := newTestEnv(t)
	env.tty = true

	if err := env.run(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if env.tui.calls != 1 {
		t.Fatalf("RunChat calls = %d, want 1", env.tui.calls)
	}
	if env.tui.client != env.client {
		t.Error("chat should receive the configured client")
	}
	if env.tui.opts == 0 {
		t.Error("chat should receive options")
	}
}

func TestRootCommand_HelpWithoutTerminal(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if env.tui.calls != 0 {
		t.Error("chat must not start without a terminal")
	}
	assertContains(t, env.stdout.String(), "askchat [question]")
}

func TestRootCommand_FlagsOverrideConfig(t *testing.T) {
	env := newTestEnv(t)
	env.client.AskVal = "ok"

	err := env.run("-e", "https://support.example.com", "--theme", "light", "--timeout", "7", "hi")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if env.gotCfg.BaseURL != "https://support.example.com" {
		t.Errorf("BaseURL = %s", env.gotCfg.BaseURL)
	}
	if env.gotCfg.Theme != config.ThemeLight {
		t.Errorf("Theme = %s", env.gotCfg.Theme)
	}
	if env.gotCfg.TimeoutSeconds != 7 {
		t.Errorf("TimeoutSeconds = %d", env.gotCfg.TimeoutSeconds)
	}
}

func TestRootCommand_UnsetFlagsKeepConfig(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.BaseURL = "https://from-file.example.com"
	env.cfg.TimeoutSeconds = 12
	env.client.AskVal = "ok"

	if err := env.run("hi"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if env.gotCfg.BaseURL != "https://from-file.example.com" || env.gotCfg.TimeoutSeconds != 12 {
		t.Errorf("config overwritten by flag defaults: %+v", env.gotCfg)
	}
}

func TestRootCommand_InvalidEndpoint(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("-e", "not a url", "hi")
	var cfgErr *apierrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Field != "base_url" {
		t.Errorf("Field = %s", cfgErr.Field)
	}
	if len(env.client.Queries()) != 0 {
		t.Error("invalid config must not reach the service")
	}
}

func TestRootCommand_InvalidTheme(t *testing.T) {
	env := newTestEnv(t)
	if err := env.run("--theme", "neon", "hi"); !errors.Is(err, apierrors.ErrInvalidConfig) {
		t.Errorf("expected invalid config, got %v", err)
	}
}

func TestRootCommand_LoadConfigError(t *testing.T) {
	env := newTestEnv(t)
	env.deps.LoadConfig = func() (config.Config, error) {
		return config.DefaultConfig(), errors.New("broken config")
	}
	err := env.run("hi")
	if err == nil || err.Error() != "broken config" {
		t.Errorf("expected load error, got %v", err)
	}
}

func TestRootCommand_ClientError(t *testing.T) {
	env := newTestEnv(t)
	env.deps.NewClient = func(config.Config, *slog.Logger) (api.ChatClientInterface, error) {
		return nil, errors.New("no proxy")
	}
	err := env.run("hi")
	if err == nil {
		t.Fatal("expected error")
	}
	assertContains(t, err.Error(), "failed to create client")
}

func TestRootCommand_LogFile(t *testing.T) {
	env := newTestEnv(t)
	env.client.AskVal = "ok"
	logPath := filepath.Join(t.TempDir(), "logs", "run.log")

	if err := env.run("--log-file", logPath, "hi"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	assertContains(t, string(data), `"msg":"query completed"`)
	assertContains(t, string(data), `"session_id":"sess-test"`)
}

func TestRootCommand_UnwritableLogFallsBack(t *testing.T) {
	env := newTestEnv(t)
	env.client.AskVal = "ok"

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	if err := env.run("--log-file", filepath.Join(blocker, "x.log"), "hi"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	assertContains(t, env.stderr.String(), "logging disabled")
	if env.stdout.String() != "ok" {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestChatCommand(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run("chat", "--theme", "light"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if env.tui.calls != 1 {
		t.Errorf("RunChat calls = %d, want 1", env.tui.calls)
	}
	if env.gotCfg.Theme != config.ThemeLight {
		t.Errorf("persistent flag not applied: %s", env.gotCfg.Theme)
	}
}

func TestChatCommand_TUIError(t *testing.T) {
	env := newTestEnv(t)
	env.tui.err = errors.New("no tty")

	if err := env.run("chat"); err == nil || err.Error() != "no tty" {
		t.Errorf("expected TUI error, got %v", err)
	}
}

func TestChatCommand_RejectsArgs(t *testing.T) {
	env := newTestEnv(t)
	if err := env.run("chat", "extra"); err == nil {
		t.Error("expected error for arguments to chat")
	}
}

func TestThemeNames(t *testing.T) {
	if got := themeNames(); got != "dark, light" {
		t.Errorf("themeNames() = %q", got)
	}
}
