// Package transport connects the chat engine to Twitch.
//
// Two connection kinds implement tmi.Connection:
//
//   - WebSocketConnection: wss://irc-ws.chat.twitch.tv:443 (default)
//   - TLSConnection: raw IRC over TLS to irc.chat.twitch.tv:6697
//
// Both trust only the root certificates handed to SetCACerts, normally read
// with ReadTrustFile from cert.pem beside the executable. Each connection
// has a unique id and publishes its own diagnostics under a source name
// such as "websocket[1b4e28ba]".
//
// # Trust file watching
//
// The trust file is read again for every login attempt. TrustWatcher
// reports changes to it using fsnotify, falling back to polling where
// fsnotify is unavailable, and debounces bursts of events into one
// callback.
package transport
