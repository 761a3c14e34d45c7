package transport

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/rhymu8354/Lurker/internal/tmi"
	"github.com/rhymu8354/Lurker/pkg/logging"
)

// base holds what every connection kind shares: delegates, trust roots and
// a diagnostics sender tagged with a per-connection id.
type base struct {
	id          string
	diagnostics *logging.Sender

	mu           sync.Mutex
	onMessage    func(line string)
	onDisconnect func()
	roots        *x509.CertPool
	serverName   string
}

func (b *base) init(kind Kind) {
	b.id = uuid.NewString()
	b.diagnostics = logging.NewSender(fmt.Sprintf("%s[%s]", kind, b.id[:8]))
}

// ID returns the connection's unique id.
func (b *base) ID() string {
	return b.id
}

// SubscribeToDiagnostics registers a delegate for the connection's
// diagnostics.
func (b *base) SubscribeToDiagnostics(delegate logging.Delegate, maxLevel logging.LogLevel) func() {
	return b.diagnostics.Subscribe(delegate, maxLevel)
}

// SetCACerts installs pem as the only trusted roots for the connection.
func (b *base) SetCACerts(pem []byte) error {
	pool, err := rootPool(pem)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.roots = pool
	return nil
}

// SetServerName overrides the name verified against the server certificate.
func (b *base) SetServerName(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.serverName = name
}

func (b *base) SetMessageReceivedDelegate(delegate func(line string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onMessage = delegate
}

func (b *base) SetDisconnectedDelegate(delegate func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onDisconnect = delegate
}

func (b *base) tlsConfig(host string) *tls.Config {
	b.mu.Lock()
	defer b.mu.Unlock()
	name := b.serverName
	if name == "" {
		name = host
	}
	return &tls.Config{
		RootCAs:    b.roots,
		ServerName: name,
		MinVersion: tls.VersionTLS12,
	}
}

// deliver hands each non-empty line of a received chunk to the message
// delegate.
func (b *base) deliver(chunk string) {
	b.mu.Lock()
	delegate := b.onMessage
	b.mu.Unlock()
	if delegate == nil {
		return
	}
	for _, line := range strings.Split(chunk, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		delegate(line)
	}
}

func (b *base) disconnected() {
	b.mu.Lock()
	delegate := b.onDisconnect
	b.mu.Unlock()
	if delegate != nil {
		delegate()
	}
}

// Conn is a chat transport that can be given trust material and reports
// its own diagnostics.
type Conn interface {
	tmi.Connection
	ID() string
	SetCACerts(pem []byte) error
	SubscribeToDiagnostics(delegate logging.Delegate, maxLevel logging.LogLevel) func()
}

// New creates an unconnected transport of the given kind. An empty endpoint
// selects the Twitch default for that kind.
func New(kind Kind, endpoint string) Conn {
	if kind == KindTLS {
		if endpoint == "" {
			endpoint = DefaultTLSAddress
		}
		return NewTLSConnection(endpoint)
	}
	if endpoint == "" {
		endpoint = DefaultWebSocketURL
	}
	return NewWebSocketConnection(endpoint)
}
