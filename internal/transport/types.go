package transport

import (
	"fmt"
	"time"
)

const (
	// DefaultWebSocketURL is the Twitch chat endpoint for WebSocket clients.
	DefaultWebSocketURL = "wss://irc-ws.chat.twitch.tv:443"

	// DefaultTLSAddress is the Twitch chat endpoint for raw IRC over TLS.
	DefaultTLSAddress = "irc.chat.twitch.tv:6697"

	// DefaultTrustFileName is the name of the root CA bundle looked up next
	// to the executable.
	DefaultTrustFileName = "cert.pem"

	// DefaultDialTimeout bounds connection setup, including the TLS handshake.
	DefaultDialTimeout = 10 * time.Second

	// DefaultWatchInterval is the polling interval used when fsnotify is
	// unavailable.
	DefaultWatchInterval = 30 * time.Second

	// DefaultDebounceInterval is the time to wait before reporting a change
	// after the last file event is seen.
	DefaultDebounceInterval = 500 * time.Millisecond
)

// Kind selects the transport used to reach the chat server.
type Kind string

const (
	KindWebSocket Kind = "websocket"
	KindTLS       Kind = "tls"
)

// ParseKind validates a transport name. The empty string selects
// KindWebSocket.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindWebSocket:
		return KindWebSocket, nil
	case KindTLS:
		return KindTLS, nil
	default:
		return "", &UnknownKindError{Name: s}
	}
}

// UnknownKindError is returned by ParseKind for unsupported transports.
type UnknownKindError struct {
	Name string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown transport %q (expected websocket or tls)", e.Name)
}
