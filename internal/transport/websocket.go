package transport

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rhymu8354/Lurker/pkg/logging"
)

const writeTimeout = 10 * time.Second

// WebSocketConnection carries chat lines over a WebSocket, one or more lines
// per text frame.
type WebSocketConnection struct {
	base

	url string

	connMu  sync.Mutex
	writeMu sync.Mutex // serialises all conn writes
	conn    *websocket.Conn
	closing bool
	readEnd chan struct{}
}

// NewWebSocketConnection creates an unconnected WebSocket transport for the
// given wss:// URL.
func NewWebSocketConnection(rawURL string) *WebSocketConnection {
	c := &WebSocketConnection{url: rawURL}
	c.init(KindWebSocket)
	return c
}

// Connect dials the server and starts delivering received lines.
func (c *WebSocketConnection) Connect() error {
	u, err := url.Parse(c.url)
	if err != nil {
		return fmt.Errorf("invalid WebSocket URL %q: %w", c.url, err)
	}
	dialer := websocket.Dialer{
		HandshakeTimeout: DefaultDialTimeout,
		TLSClientConfig:  c.tlsConfig(u.Hostname()),
	}

	c.diagnostics.Sendf(logging.LevelDebug, "connecting to %s", c.url)
	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", c.url, err)
	}

	c.connMu.Lock()
	c.conn = conn
	c.closing = false
	c.readEnd = make(chan struct{})
	readEnd := c.readEnd
	c.connMu.Unlock()

	go c.readLoop(conn, readEnd)
	c.diagnostics.Send(logging.LevelDebug, "connected")
	return nil
}

func (c *WebSocketConnection) readLoop(conn *websocket.Conn, readEnd chan struct{}) {
	defer close(readEnd)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.connMu.Lock()
			closing := c.closing
			c.connMu.Unlock()
			if closing {
				return
			}
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				c.diagnostics.Sendf(logging.LevelWarn, "read failed: %v", err)
			}
			c.disconnected()
			return
		}
		c.deliver(string(data))
	}
}

// Send writes one line as a text frame.
func (c *WebSocketConnection) Send(line string) error {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return errors.New("not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, []byte(line))
}

// Disconnect closes the connection without calling the disconnected
// delegate. It waits for the read loop to finish.
func (c *WebSocketConnection) Disconnect() {
	c.connMu.Lock()
	conn := c.conn
	readEnd := c.readEnd
	c.conn = nil
	c.closing = true
	c.connMu.Unlock()
	if conn == nil {
		return
	}

	c.writeMu.Lock()
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.writeMu.Unlock()
	conn.Close()
	<-readEnd
	c.diagnostics.Send(logging.LevelDebug, "disconnected")
}
