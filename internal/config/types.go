package config

import "time"

// LurkerConfig is the top-level configuration structure for lurker.
type LurkerConfig struct {
	Session   SessionConfig   `yaml:"session"`
	Transport TransportConfig `yaml:"transport"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SessionConfig controls the chat session and the controlling loop.
type SessionConfig struct {
	Farewell           string        `yaml:"farewell,omitempty"`           // Message sent when logging out
	WorkerPollInterval time.Duration `yaml:"workerPollInterval,omitempty"` // Maintenance worker period (default: 50ms)
	LogOutPollInterval time.Duration `yaml:"logOutPollInterval,omitempty"` // Bound on each wait for logout (default: 250ms)
	ShutdownTimeout    time.Duration `yaml:"shutdownTimeout,omitempty"`    // Bound on the final wait after an interrupt (default: 1s)
}

// TransportConfig selects how the chat server is reached.
type TransportConfig struct {
	Kind           string `yaml:"kind,omitempty"`           // websocket or tls (default: websocket)
	Endpoint       string `yaml:"endpoint,omitempty"`       // URL or host:port (default depends on kind)
	TrustFile      string `yaml:"trustFile,omitempty"`      // PEM bundle of root CAs (default: cert.pem beside the executable)
	WatchTrustFile bool   `yaml:"watchTrustFile,omitempty"` // Report changes to the trust file while running
}

// LoggingConfig controls how diagnostics are rendered.
type LoggingConfig struct {
	Verbosity int    `yaml:"verbosity"`        // Most verbose level shown, 0 (error) to 5 (debug)
	Format    string `yaml:"format,omitempty"` // text or json
}
