package commands

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/diogo/askchat/internal/api"
	"github.com/diogo/askchat/internal/config"
	"github.com/diogo/askchat/internal/tui"
)

// fakeTUI records RunChat calls instead of starting bubbletea
type fakeTUI struct {
	calls  int
	client api.ChatClientInterface
	opts   int
	err    error
}

func (f *fakeTUI) RunChat(client api.ChatClientInterface, opts ...tui.ChatOption) error {
	f.calls++
	f.client = client
	f.opts = len(opts)
	return f.err
}

// fakeClipboard records what was written
type fakeClipboard struct {
	mu   sync.Mutex
	text []string
	err  error
}

func (c *fakeClipboard) write(s string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.text = append(c.text, s)
	return nil
}

type testEnv struct {
	deps      *Dependencies
	client    *api.MockClient
	tui       *fakeTUI
	clipboard *fakeClipboard
	stdin     *bytes.Buffer
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	cfg       config.Config
	gotCfg    config.Config
	tty       bool
	piped     bool
}

// newTestEnv wires Dependencies to in-memory fakes. Logs go to a temp file.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	env := &testEnv{
		client:    &api.MockClient{SessionVal: api.NewSessionWithID("sess-test")},
		tui:       &fakeTUI{},
		clipboard: &fakeClipboard{},
		stdin:     &bytes.Buffer{},
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
		cfg:       config.DefaultConfig(),
	}
	env.cfg.LogFile = filepath.Join(t.TempDir(), "askchat.log")

	env.deps = &Dependencies{
		NewClient: func(cfg config.Config, logger *slog.Logger) (api.ChatClientInterface, error) {
			env.gotCfg = cfg
			return env.client, nil
		},
		LoadConfig: func() (config.Config, error) { return env.cfg, nil },
		TUI:        env.tui,
		Clipboard:  env.clipboard.write,
		Stdin:      env.stdin,
		Stdout:     env.stdout,
		Stderr:     env.stderr,
		IsTTY:      func() bool { return env.tty },
		StdinPiped: func() bool { return env.piped },
	}
	return env
}

func (e *testEnv) run(args ...string) error {
	cmd := NewRootCmd(e.deps)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("expected output to contain %q, got:\n%s", want, got)
	}
}
