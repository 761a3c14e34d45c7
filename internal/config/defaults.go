package config

import (
	"time"

	"github.com/rhymu8354/Lurker/internal/lurker"
	"github.com/rhymu8354/Lurker/internal/transport"
	"github.com/rhymu8354/Lurker/pkg/logging"
)

const (
	// DefaultLogOutPollInterval bounds each wait of the controlling loop.
	DefaultLogOutPollInterval = 250 * time.Millisecond

	// DefaultShutdownTimeout bounds the final wait for logout.
	DefaultShutdownTimeout = time.Second
)

// GetDefaultConfig returns the default configuration. The trust file is left
// empty so that it resolves beside the executable at run time.
func GetDefaultConfig() LurkerConfig {
	return LurkerConfig{
		Session: SessionConfig{
			Farewell:           lurker.DefaultFarewell,
			WorkerPollInterval: lurker.DefaultWorkerPollInterval,
			LogOutPollInterval: DefaultLogOutPollInterval,
			ShutdownTimeout:    DefaultShutdownTimeout,
		},
		Transport: TransportConfig{
			Kind:           string(transport.KindWebSocket),
			WatchTrustFile: true,
		},
		Logging: LoggingConfig{
			Verbosity: int(logging.LevelInfo),
			Format:    string(logging.FormatText),
		},
	}
}
