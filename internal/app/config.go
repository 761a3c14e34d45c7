package app

import (
	"github.com/rhymu8354/Lurker/internal/config"
	"github.com/rhymu8354/Lurker/pkg/logging"
)

// VerbosityUnset marks a verbosity that was not given on the command line.
const VerbosityUnset = -1

// Config holds the application configuration
type Config struct {
	// Channels to lurk in
	Channels []string

	// Debug raises the verbosity to logging.LevelDebug
	Debug bool

	// Command line overrides. Zero values leave the file setting alone.
	Verbosity int
	Format    string
	Transport string
	TrustFile string

	// Custom configuration path (optional)
	ConfigPath string

	// Loaded configuration. When set before NewApplication, nothing is
	// loaded from disk.
	LurkerConfig *config.LurkerConfig
}

// NewConfig creates a new application configuration
func NewConfig(channels []string, debug bool, configPath string) *Config {
	return &Config{
		Channels:   channels,
		Debug:      debug,
		Verbosity:  VerbosityUnset,
		ConfigPath: configPath,
	}
}

// applyOverrides copies command line settings over the loaded configuration.
func (c *Config) applyOverrides(lc *config.LurkerConfig) {
	if c.Verbosity != VerbosityUnset {
		lc.Logging.Verbosity = c.Verbosity
	}
	if c.Debug {
		lc.Logging.Verbosity = int(logging.LevelDebug)
	}
	if c.Format != "" {
		lc.Logging.Format = c.Format
	}
	if c.Transport != "" {
		lc.Transport.Kind = c.Transport
	}
	if c.TrustFile != "" {
		lc.Transport.TrustFile = c.TrustFile
	}
}
