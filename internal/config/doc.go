// Package config provides configuration management for lurker.
//
// Configuration is loaded from a single directory containing config.yaml.
// The default directory is ~/.config/lurker; the --config-path flag selects
// another one. A missing config.yaml is not an error: the defaults are used.
//
// # Configuration File
//
//	session:
//	  farewell: "Bye! BibleThump"
//	  workerPollInterval: 50ms
//	  logOutPollInterval: 250ms
//	  shutdownTimeout: 1s
//	transport:
//	  kind: websocket        # or tls
//	  endpoint: ""           # defaults per kind
//	  trustFile: ""          # defaults to cert.pem beside the executable
//	  watchTrustFile: true
//	logging:
//	  verbosity: 3           # 0 error .. 5 debug
//	  format: text           # or json
//
// Values missing from the file keep their defaults. Command line flags are
// applied on top of the loaded configuration by the app package, after which
// Validate checks the result.
package config
