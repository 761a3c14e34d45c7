package transport

import (
	"bufio"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rhymu8354/Lurker/pkg/logging"
)

// maxLineLength bounds a single received IRC line, tags included.
const maxLineLength = 64 * 1024

// TLSConnection carries chat lines as CRLF-terminated IRC over TLS.
type TLSConnection struct {
	base

	address string

	connMu  sync.Mutex
	writeMu sync.Mutex
	conn    *tls.Conn
	closing bool
	readEnd chan struct{}
}

// NewTLSConnection creates an unconnected TLS transport for host:port.
func NewTLSConnection(address string) *TLSConnection {
	c := &TLSConnection{address: address}
	c.init(KindTLS)
	return c
}

// Connect dials the server, completes the handshake and starts delivering
// received lines.
func (c *TLSConnection) Connect() error {
	host, _, err := net.SplitHostPort(c.address)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", c.address, err)
	}

	c.diagnostics.Sendf(logging.LevelDebug, "connecting to %s", c.address)
	dialer := &net.Dialer{Timeout: DefaultDialTimeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", c.address, c.tlsConfig(host))
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", c.address, err)
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

func (c *TLSConnection) readLoop(conn *tls.Conn, readEnd chan struct{}) {
	defer close(readEnd)
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), maxLineLength)
	for scanner.Scan() {
		c.deliver(scanner.Text())
	}

	c.connMu.Lock()
	closing := c.closing
	c.connMu.Unlock()
	if closing {
		return
	}
	if err := scanner.Err(); err != nil {
		c.diagnostics.Sendf(logging.LevelWarn, "read failed: %v", err)
	}
	c.disconnected()
}

// Send writes one line followed by CRLF.
func (c *TLSConnection) Send(line string) error {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return errors.New("not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err := conn.Write([]byte(line + "\r\n"))
	return err
}

// Disconnect closes the connection without calling the disconnected
// delegate. It waits for the read loop to finish.
func (c *TLSConnection) Disconnect() {
	c.connMu.Lock()
	conn := c.conn
	readEnd := c.readEnd
	c.conn = nil
	c.closing = true
	c.connMu.Unlock()
	if conn == nil {
		return
	}

	conn.Close()
	<-readEnd
	c.diagnostics.Send(logging.LevelDebug, "disconnected")
}
