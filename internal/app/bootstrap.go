package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"github.com/rhymu8354/Lurker/internal/config"
	"github.com/rhymu8354/Lurker/internal/lurker"
	"github.com/rhymu8354/Lurker/internal/transport"
	"github.com/rhymu8354/Lurker/pkg/logging"
)

// Application wires a Lurker to its configuration and diagnostics output and
// runs the controlling loop.
//
// Example usage:
//
//	cfg := app.NewConfig([]string{"dallas"}, false, "")
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx)
type Application struct {
	config  *Config
	lurker  *lurker.Lurker
	watcher *transport.TrustWatcher
	report  logging.Delegate
}

type options struct {
	out    io.Writer
	errOut io.Writer
	engine lurker.Engine
	clock  clock.Clock
}

// Option customizes NewApplication.
type Option func(*options)

// WithOutput sends diagnostics to out, and errors and warnings to errOut.
func WithOutput(out, errOut io.Writer) Option {
	return func(o *options) {
		o.out = out
		o.errOut = errOut
	}
}

// WithEngine replaces the chat protocol engine.
func WithEngine(engine lurker.Engine) Option {
	return func(o *options) {
		o.engine = engine
	}
}

// WithClock replaces the clock shared by the Lurker and its engine.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// NewApplication loads the configuration, applies the command line
// overrides, validates the result and builds the Lurker.
func NewApplication(cfg *Config, opts ...Option) (*Application, error) {
	o := options{out: os.Stdout, errOut: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	// Loading problems are reported before the configured format is known.
	bootLevel := logging.LevelInfo
	if cfg.Debug {
		bootLevel = logging.LevelDebug
	}
	logging.InitForCLI(bootLevel, o.errOut)

	if cfg.LurkerConfig == nil {
		lurkerCfg, err := config.LoadConfig(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load lurker configuration")
			return nil, fmt.Errorf("failed to load lurker configuration: %w", err)
		}
		cfg.LurkerConfig = &lurkerCfg
	}
	lc := cfg.LurkerConfig
	cfg.applyOverrides(lc)
	if err := lc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	format, err := logging.ParseFormat(lc.Logging.Format)
	if err != nil {
		return nil, err
	}
	kind, err := transport.ParseKind(lc.Transport.Kind)
	if err != nil {
		return nil, err
	}
	maxLevel := logging.LogLevel(lc.Logging.Verbosity)
	reporter := logging.NewStreamReporter(o.out, o.errOut, format)
	logging.Init(reporter.Report, maxLevel)

	trustFile := lc.Transport.TrustFile
	if trustFile == "" {
		trustFile = transport.DefaultTrustFile()
	}
	endpoint := lc.Transport.Endpoint

	a := &Application{
		config: cfg,
		lurker: lurker.New(lurker.Options{
			Engine:    o.engine,
			Clock:     o.clock,
			TrustFile: trustFile,
			Dialer: func() transport.Conn {
				return transport.New(kind, endpoint)
			},
			Farewell:           lc.Session.Farewell,
			WorkerPollInterval: lc.Session.WorkerPollInterval,
		}),
		report: filterLevel(reporter.Report, maxLevel),
	}
	if lc.Transport.WatchTrustFile {
		a.watcher = transport.NewTrustWatcher(transport.TrustWatcherConfig{
			Path: trustFile,
			OnChange: func() {
				logging.Info("TrustWatcher", "Root CA certificates file %s changed; the next connection will use it", trustFile)
			},
		})
	}
	if logging.Enabled(logging.LevelDebug) {
		logging.Debug("Bootstrap", "Effective configuration: %+v", *lc)
	}
	logging.Debug("Bootstrap", "Using %s transport with root CA certificates from %s", kind, trustFile)
	return a, nil
}

// Run logs in, waits for the session to end and logs out. Cancelling ctx
// starts a graceful logout. Logout is initiated once more before Run
// returns whatever the reason for leaving.
func (a *Application) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	watchCtx, stopWatching := context.WithCancel(gctx)
	defer stopWatching()

	g.Go(func() error {
		defer stopWatching()
		a.runSession(gctx)
		return nil
	})
	if a.watcher != nil {
		g.Go(func() error {
			return a.watcher.Run(watchCtx)
		})
	}
	return g.Wait()
}

// Lurker returns the session coordinator.
func (a *Application) Lurker() *lurker.Lurker {
	return a.lurker
}

func filterLevel(report logging.Delegate, maxLevel logging.LogLevel) logging.Delegate {
	return func(source string, level logging.LogLevel, message string) {
		if level <= maxLevel {
			report(source, level, message)
		}
	}
}
