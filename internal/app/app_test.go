package app

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/clock"

	"github.com/rhymu8354/Lurker/internal/config"
	"github.com/rhymu8354/Lurker/internal/tmi"
	"github.com/rhymu8354/Lurker/pkg/logging"
)

// scriptedEngine answers the Lurker synchronously: login succeeds unless
// refuse is set and logout completes at once.
type scriptedEngine struct {
	diagnostics *logging.Sender
	refuse      bool

	mu       sync.Mutex
	user     tmi.User
	joined   []string
	logOuts  int
	farewell string
}

func newScriptedEngine() *scriptedEngine {
	return &scriptedEngine{diagnostics: logging.NewSender("TMI")}
}

func (e *scriptedEngine) SetConnectionFactory(tmi.ConnectionFactory) {}
func (e *scriptedEngine) SetClock(clock.Clock)                       {}
func (e *scriptedEngine) LogIn(string, string)                       {}
func (e *scriptedEngine) Leave(string)                               {}
func (e *scriptedEngine) SendMessage(string, string)                 {}

func (e *scriptedEngine) SetUser(user tmi.User) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.user = user
}

func (e *scriptedEngine) SubscribeToDiagnostics(delegate logging.Delegate, maxLevel logging.LogLevel) func() {
	return e.diagnostics.Subscribe(delegate, maxLevel)
}

func (e *scriptedEngine) currentUser() tmi.User {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.user
}

func (e *scriptedEngine) LogInAnonymously() {
	if e.refuse {
		e.diagnostics.Send(logging.LevelWarn, "login refused")
		e.currentUser().LogOut()
		return
	}
	e.currentUser().LogIn()
}

func (e *scriptedEngine) Join(channel string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.joined = append(e.joined, channel)
}

func (e *scriptedEngine) LogOut(farewell string) {
	e.mu.Lock()
	e.logOuts++
	e.farewell = farewell
	e.mu.Unlock()
	e.currentUser().LogOut()
}

// syncBuffer is written from several goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig(t *testing.T, channels ...string) *Config {
	t.Helper()
	lc := config.GetDefaultConfig()
	lc.Session.LogOutPollInterval = 10 * time.Millisecond
	lc.Transport.TrustFile = filepath.Join(t.TempDir(), "cert.pem")
	lc.Transport.WatchTrustFile = false
	cfg := NewConfig(channels, true, "")
	cfg.LurkerConfig = &lc
	return cfg
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig([]string{"a", "b"}, true, "/custom/config/path")

	assert.Equal(t, []string{"a", "b"}, cfg.Channels)
	assert.True(t, cfg.Debug)
	assert.Equal(t, VerbosityUnset, cfg.Verbosity)
	assert.Equal(t, "/custom/config/path", cfg.ConfigPath)
	assert.Nil(t, cfg.LurkerConfig)
}

func TestConfig_applyOverrides(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		expect func(*config.LurkerConfig)
	}{
		{
			name: "nothing given",
			cfg:  Config{Verbosity: VerbosityUnset},
			expect: func(lc *config.LurkerConfig) {
				assert.Equal(t, config.GetDefaultConfig(), *lc)
			},
		},
		{
			name: "verbosity and format",
			cfg:  Config{Verbosity: 1, Format: "json"},
			expect: func(lc *config.LurkerConfig) {
				assert.Equal(t, 1, lc.Logging.Verbosity)
				assert.Equal(t, "json", lc.Logging.Format)
			},
		},
		{
			name: "debug wins over verbosity",
			cfg:  Config{Verbosity: 1, Debug: true},
			expect: func(lc *config.LurkerConfig) {
				assert.Equal(t, int(logging.LevelDebug), lc.Logging.Verbosity)
			},
		},
		{
			name: "transport",
			cfg:  Config{Verbosity: VerbosityUnset, Transport: "tls", TrustFile: "/tmp/roots.pem"},
			expect: func(lc *config.LurkerConfig) {
				assert.Equal(t, "tls", lc.Transport.Kind)
				assert.Equal(t, "/tmp/roots.pem", lc.Transport.TrustFile)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := config.GetDefaultConfig()
			tt.cfg.applyOverrides(&lc)
			tt.expect(&lc)
		})
	}
}

func TestNewApplication_InvalidOverride(t *testing.T) {
	cfg := testConfig(t, "dallas")
	cfg.Transport = "carrier-pigeon"
	var out syncBuffer

	_, err := NewApplication(cfg, WithOutput(&out, &out))

	var errs config.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "transport.kind", errs[0].Field)
}

func TestNewApplication_LoadsConfigPath(t *testing.T) {
	dir := t.TempDir()
	cfg := NewConfig([]string{"dallas"}, false, dir)
	var out syncBuffer

	application, err := NewApplication(cfg, WithOutput(&out, &out), WithEngine(newScriptedEngine()))
	require.NoError(t, err)
	require.NotNil(t, cfg.LurkerConfig)
	assert.Equal(t, config.DefaultLogOutPollInterval, cfg.LurkerConfig.Session.LogOutPollInterval)
	assert.NotNil(t, application.Lurker())
	assert.NotNil(t, application.watcher, "watching the trust file is on by default")
}

func TestRun_InterruptLogsOut(t *testing.T) {
	engine := newScriptedEngine()
	var out, errOut syncBuffer
	application, err := NewApplication(testConfig(t, "dallas", "houston"),
		WithOutput(&out, &errOut), WithEngine(engine), WithClock(clock.RealClock{}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Logged in.")
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	engine.mu.Lock()
	defer engine.mu.Unlock()
	assert.Equal(t, []string{"dallas", "houston"}, engine.joined)
	assert.Equal(t, "Bye! BibleThump", engine.farewell)
	assert.Equal(t, 1, engine.logOuts)

	text := out.String()
	assert.Contains(t, text, "Lurker:5] Configured.")
	assert.Contains(t, text, "Lurker:5] Exiting...")
	assert.Equal(t, 1, strings.Count(text, "Logged out."))
}

func TestRun_SessionEndsWithoutInterrupt(t *testing.T) {
	engine := newScriptedEngine()
	engine.refuse = true
	cfg := testConfig(t, "dallas")
	cfg.Debug = false
	var out, errOut syncBuffer
	application, err := NewApplication(cfg, WithOutput(&out, &errOut), WithEngine(engine))
	require.NoError(t, err)

	require.NoError(t, application.Run(context.Background()))

	engine.mu.Lock()
	assert.Empty(t, engine.joined)
	assert.Equal(t, 1, engine.logOuts, "logout is initiated once more at the end")
	engine.mu.Unlock()

	assert.Contains(t, errOut.String(), "Lurker/TMI:1] warning: login refused")
	assert.NotContains(t, out.String(), "Configured.", "debug lines are filtered at the default verbosity")
	assert.Contains(t, out.String(), "Logged out.")
}

func TestRun_WatchesTrustFile(t *testing.T) {
	cfg := testConfig(t, "dallas")
	cfg.LurkerConfig.Transport.WatchTrustFile = true
	var out syncBuffer
	application, err := NewApplication(cfg, WithOutput(&out, &out), WithEngine(newScriptedEngine()))
	require.NoError(t, err)
	require.NotNil(t, application.watcher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	require.Eventually(t, application.watcher.IsRunning, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.False(t, application.watcher.IsRunning())
}
