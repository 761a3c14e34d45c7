package lurker

import (
	"time"

	"k8s.io/utils/clock"

	"github.com/rhymu8354/Lurker/internal/events"
	"github.com/rhymu8354/Lurker/internal/tmi"
	"github.com/rhymu8354/Lurker/internal/transport"
	"github.com/rhymu8354/Lurker/pkg/logging"
)

const (
	// DefaultFarewell is the QUIT message sent on logout.
	DefaultFarewell = "Bye! BibleThump"

	// DefaultWorkerPollInterval is how often the maintenance worker wakes.
	DefaultWorkerPollInterval = 50 * time.Millisecond

	// SourceName is the diagnostics source of the coordinator.
	SourceName = "Lurker"
)

// Engine is the chat protocol engine the coordinator drives. tmi.Messaging
// implements it.
type Engine interface {
	SetConnectionFactory(factory tmi.ConnectionFactory)
	SetClock(c clock.Clock)
	SetUser(user tmi.User)
	SubscribeToDiagnostics(delegate logging.Delegate, maxLevel logging.LogLevel) func()

	LogInAnonymously()
	LogIn(nick, token string)
	Join(channel string)
	Leave(channel string)
	SendMessage(channel, text string)
	LogOut(farewell string)
}

// Dialer creates an unconnected transport for one login attempt.
type Dialer func() transport.Conn

// Options configures a Lurker. Zero values select the defaults.
type Options struct {
	Engine Engine
	Clock  clock.Clock

	// TrustFile is the root CA bundle read for every login attempt.
	// Defaults to cert.pem beside the executable.
	TrustFile string

	Dialer             Dialer
	Farewell           string
	WorkerPollInterval time.Duration
	Formatter          *events.Formatter
}

// State is the coordinator's position in the session lifecycle.
type State int

const (
	StateUnconfigured State = iota
	StateConfigured
	StateLoggingIn
	StateLoggedIn
	StateLoggingOut
	StateLoggedOut
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "Unconfigured"
	case StateConfigured:
		return "Configured"
	case StateLoggingIn:
		return "LoggingIn"
	case StateLoggedIn:
		return "LoggedIn"
	case StateLoggingOut:
		return "LoggingOut"
	case StateLoggedOut:
		return "LoggedOut"
	default:
		return "Unknown"
	}
}
