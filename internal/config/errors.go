package config

import (
	"fmt"
)

const (
	ErrorTypeIO    = "io"
	ErrorTypeParse = "parse"
)

// ConfigurationError describes a configuration file that could not be used.
type ConfigurationError struct {
	FilePath  string // Full path to the file that caused the error
	ErrorType string // io or parse
	Message   string // Human-readable error message
	Err       error  // Underlying error, if any
}

// Error implements the error interface
func (ce *ConfigurationError) Error() string {
	if ce.Err == nil {
		return fmt.Sprintf("%s: %s", ce.FilePath, ce.Message)
	}
	return fmt.Sprintf("%s: %s: %v", ce.FilePath, ce.Message, ce.Err)
}

// Unwrap returns the underlying error.
func (ce *ConfigurationError) Unwrap() error {
	return ce.Err
}
