package lurker

import (
	"sync"
	"sync/atomic"
	"time"

	"k8s.io/utils/clock"

	"github.com/rhymu8354/Lurker/internal/events"
	"github.com/rhymu8354/Lurker/internal/tmi"
	"github.com/rhymu8354/Lurker/internal/transport"
	"github.com/rhymu8354/Lurker/pkg/logging"
)

// Lurker joins Twitch chat channels anonymously and reports everything that
// happens in them as diagnostics. It drives the session lifecycle and lets a
// controlling goroutine wait for the session to end.
type Lurker struct {
	diagnostics *logging.Sender
	engine      Engine
	clock       clock.Clock
	trustFile   string
	dial        Dialer
	farewell    string

	pollInterval time.Duration
	formatter    *events.Formatter

	mu          sync.Mutex
	state       State
	channels    []string
	logOutSeen  bool
	loggedOutCh chan struct{}
	worker      *worker

	maintenanceRounds atomic.Uint64
}

// New creates an unconfigured Lurker.
func New(opts Options) *Lurker {
	l := &Lurker{
		diagnostics:  logging.NewSender(SourceName),
		engine:       opts.Engine,
		clock:        opts.Clock,
		trustFile:    opts.TrustFile,
		dial:         opts.Dialer,
		farewell:     opts.Farewell,
		pollInterval: opts.WorkerPollInterval,
		formatter:    opts.Formatter,
		loggedOutCh:  make(chan struct{}),
	}
	if l.engine == nil {
		l.engine = tmi.NewMessaging()
	}
	if l.clock == nil {
		l.clock = clock.RealClock{}
	}
	if l.trustFile == "" {
		l.trustFile = transport.DefaultTrustFile()
	}
	if l.dial == nil {
		l.dial = func() transport.Conn {
			return transport.New(transport.KindWebSocket, "")
		}
	}
	if l.farewell == "" {
		l.farewell = DefaultFarewell
	}
	if l.pollInterval <= 0 {
		l.pollInterval = DefaultWorkerPollInterval
	}
	if l.formatter == nil {
		l.formatter = events.NewFormatter()
	}
	return l
}

// Configure wires the Lurker to its engine and subscribes delegate to all of
// its diagnostics, including those of the engine and of every connection.
// It must be called once, before InitiateLogIn.
func (l *Lurker) Configure(delegate logging.Delegate) {
	l.mu.Lock()
	if l.state != StateUnconfigured {
		l.mu.Unlock()
		l.diagnostics.Send(logging.LevelWarn, "already configured")
		return
	}
	l.state = StateConfigured
	l.mu.Unlock()

	l.diagnostics.Subscribe(delegate, logging.LevelDebug)
	l.engine.SubscribeToDiagnostics(l.diagnostics.Chain(), logging.LevelDebug)
	l.engine.SetConnectionFactory(l.connectionFactory(delegate))
	l.engine.SetClock(l.clock)
	l.engine.SetUser(l)
	l.publish(l.formatter.Lifecycle(events.ReasonConfigured))
}

// connectionFactory returns a factory that reads the trust file afresh for
// every connection. If the trust material cannot be used it reports one
// error and yields no connection, which fails only that login attempt.
func (l *Lurker) connectionFactory(delegate logging.Delegate) tmi.ConnectionFactory {
	return func() tmi.Connection {
		caCerts, err := transport.ReadTrustFile(l.trustFile)
		if err != nil {
			l.diagnostics.Send(logging.LevelError, err.Error())
			return nil
		}
		conn := l.dial()
		if err := conn.SetCACerts(caCerts); err != nil {
			l.diagnostics.Sendf(logging.LevelError, "unable to use root CA certificates file '%s': %v", l.trustFile, err)
			return nil
		}
		conn.SubscribeToDiagnostics(delegate, logging.LevelDebug)
		return conn
	}
}

// InitiateLogIn starts an anonymous login. The channels are joined once the
// server accepts it. It does not block.
func (l *Lurker) InitiateLogIn(channels []string) {
	l.mu.Lock()
	if l.state == StateLoggedOut {
		l.mu.Unlock()
		l.diagnostics.Send(logging.LevelWarn, "cannot log in again after logging out")
		return
	}
	l.channels = append([]string(nil), channels...)
	l.state = StateLoggingIn
	l.mu.Unlock()

	l.engine.LogInAnonymously()
}

// InitiateLogOut asks the engine to log out. It does not block; use
// AwaitLogOut to wait for the logout to complete. Calling it more than once
// is harmless.
func (l *Lurker) InitiateLogOut() {
	l.publish(l.formatter.Lifecycle(events.ReasonExiting))
	l.mu.Lock()
	if l.state != StateLoggedOut {
		l.state = StateLoggingOut
	}
	l.mu.Unlock()

	l.engine.LogOut(l.farewell)
}

// AwaitLogOut waits up to timeout for the session to end and reports
// whether it has.
func (l *Lurker) AwaitLogOut(timeout time.Duration) bool {
	select {
	case <-l.loggedOutCh:
		return true
	default:
	}
	if timeout <= 0 {
		return false
	}

	timer := l.clock.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-l.loggedOutCh:
		return true
	case <-timer.C():
		return false
	}
}

// State returns the current lifecycle state.
func (l *Lurker) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Lurker) publish(line events.Line) {
	l.diagnostics.Send(line.Level, line.Text)
}

// recoverCallback keeps a failing handler from unwinding into the engine.
func (l *Lurker) recoverCallback(name string) {
	if r := recover(); r != nil {
		l.diagnostics.Sendf(logging.LevelError, "%s handler failed: %v", name, r)
	}
}
